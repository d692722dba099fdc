package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/mentark/mentark-backend/internal/logger"
  "github.com/mentark/mentark-backend/internal/types"
)

type ArkRepo interface {
  Create(ctx context.Context, tx *gorm.DB, arks []*types.Ark) ([]*types.Ark, error)
  GetByID(ctx context.Context, tx *gorm.DB, arkID uuid.UUID) (*types.Ark, error)
  GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.Ark, error)
  UpdateFields(ctx context.Context, tx *gorm.DB, arkID uuid.UUID, fields map[string]interface{}) error
  SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, arkIDs []uuid.UUID) error
}

type arkRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewArkRepo(db *gorm.DB, baseLog *logger.Logger) ArkRepo {
  repoLog := baseLog.With("repo", "ArkRepo")
  return &arkRepo{db: db, log: repoLog}
}

func (r *arkRepo) Create(ctx context.Context, tx *gorm.DB, arks []*types.Ark) ([]*types.Ark, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(arks) == 0 {
    return []*types.Ark{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&arks).Error; err != nil {
    return nil, err
  }
  return arks, nil
}

func (r *arkRepo) GetByID(ctx context.Context, tx *gorm.DB, arkID uuid.UUID) (*types.Ark, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var result types.Ark
  if err := transaction.WithContext(ctx).
    Where("id = ?", arkID).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

func (r *arkRepo) GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.Ark, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Ark
  if err := transaction.WithContext(ctx).
    Where("student_id = ?", studentID).
    Order("created_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *arkRepo) UpdateFields(ctx context.Context, tx *gorm.DB, arkID uuid.UUID, fields map[string]interface{}) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(fields) == 0 {
    return nil
  }

  return transaction.WithContext(ctx).
    Model(&types.Ark{}).
    Where("id = ?", arkID).
    Updates(fields).Error
}

func (r *arkRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, arkIDs []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(arkIDs) == 0 {
    return nil
  }

  return transaction.WithContext(ctx).
    Where("id IN ?", arkIDs).
    Delete(&types.Ark{}).Error
}
