package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/mentark/mentark-backend/internal/logger"
  "github.com/mentark/mentark-backend/internal/types"
)

type ArkResourceRepo interface {
  Create(ctx context.Context, tx *gorm.DB, resources []*types.ArkResource) ([]*types.ArkResource, error)
  GetByArkID(ctx context.Context, tx *gorm.DB, arkID uuid.UUID) ([]*types.ArkResource, error)
}

type arkResourceRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewArkResourceRepo(db *gorm.DB, baseLog *logger.Logger) ArkResourceRepo {
  repoLog := baseLog.With("repo", "ArkResourceRepo")
  return &arkResourceRepo{db: db, log: repoLog}
}

func (r *arkResourceRepo) Create(ctx context.Context, tx *gorm.DB, resources []*types.ArkResource) ([]*types.ArkResource, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(resources) == 0 {
    return []*types.ArkResource{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&resources).Error; err != nil {
    return nil, err
  }
  return resources, nil
}

func (r *arkResourceRepo) GetByArkID(ctx context.Context, tx *gorm.DB, arkID uuid.UUID) ([]*types.ArkResource, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ArkResource
  if err := transaction.WithContext(ctx).
    Where("ark_id = ?", arkID).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
