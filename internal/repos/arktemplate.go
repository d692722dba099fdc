package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/mentark/mentark-backend/internal/logger"
  "github.com/mentark/mentark-backend/internal/types"
)

type ArkTemplateRepo interface {
  Create(ctx context.Context, tx *gorm.DB, templates []*types.ArkTemplate) ([]*types.ArkTemplate, error)
  GetByID(ctx context.Context, tx *gorm.DB, templateID uuid.UUID) (*types.ArkTemplate, error)
  GetByCategory(ctx context.Context, tx *gorm.DB, category string) ([]*types.ArkTemplate, error)
}

type arkTemplateRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewArkTemplateRepo(db *gorm.DB, baseLog *logger.Logger) ArkTemplateRepo {
  repoLog := baseLog.With("repo", "ArkTemplateRepo")
  return &arkTemplateRepo{db: db, log: repoLog}
}

func (r *arkTemplateRepo) Create(ctx context.Context, tx *gorm.DB, templates []*types.ArkTemplate) ([]*types.ArkTemplate, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(templates) == 0 {
    return []*types.ArkTemplate{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&templates).Error; err != nil {
    return nil, err
  }
  return templates, nil
}

func (r *arkTemplateRepo) GetByID(ctx context.Context, tx *gorm.DB, templateID uuid.UUID) (*types.ArkTemplate, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var result types.ArkTemplate
  if err := transaction.WithContext(ctx).
    Where("id = ?", templateID).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

func (r *arkTemplateRepo) GetByCategory(ctx context.Context, tx *gorm.DB, category string) ([]*types.ArkTemplate, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ArkTemplate
  if err := transaction.WithContext(ctx).
    Where("category = ?", category).
    Order("created_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
