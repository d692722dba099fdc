package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/mentark/mentark-backend/internal/logger"
  "github.com/mentark/mentark-backend/internal/types"
)

type ArkMilestoneRepo interface {
  Create(ctx context.Context, tx *gorm.DB, milestones []*types.ArkMilestone) ([]*types.ArkMilestone, error)
  GetByArkID(ctx context.Context, tx *gorm.DB, arkID uuid.UUID) ([]*types.ArkMilestone, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, milestoneIDs []uuid.UUID) ([]*types.ArkMilestone, error)
  UpdateFields(ctx context.Context, tx *gorm.DB, milestoneID uuid.UUID, fields map[string]interface{}) error
}

type arkMilestoneRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewArkMilestoneRepo(db *gorm.DB, baseLog *logger.Logger) ArkMilestoneRepo {
  repoLog := baseLog.With("repo", "ArkMilestoneRepo")
  return &arkMilestoneRepo{db: db, log: repoLog}
}

func (r *arkMilestoneRepo) Create(ctx context.Context, tx *gorm.DB, milestones []*types.ArkMilestone) ([]*types.ArkMilestone, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(milestones) == 0 {
    return []*types.ArkMilestone{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&milestones).Error; err != nil {
    return nil, err
  }
  return milestones, nil
}

func (r *arkMilestoneRepo) GetByArkID(ctx context.Context, tx *gorm.DB, arkID uuid.UUID) ([]*types.ArkMilestone, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ArkMilestone
  if err := transaction.WithContext(ctx).
    Where("ark_id = ?", arkID).
    Order("order_index ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *arkMilestoneRepo) GetByIDs(ctx context.Context, tx *gorm.DB, milestoneIDs []uuid.UUID) ([]*types.ArkMilestone, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ArkMilestone
  if len(milestoneIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", milestoneIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *arkMilestoneRepo) UpdateFields(ctx context.Context, tx *gorm.DB, milestoneID uuid.UUID, fields map[string]interface{}) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(fields) == 0 {
    return nil
  }

  return transaction.WithContext(ctx).
    Model(&types.ArkMilestone{}).
    Where("id = ?", milestoneID).
    Updates(fields).Error
}
