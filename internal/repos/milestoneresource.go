package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/mentark/mentark-backend/internal/logger"
  "github.com/mentark/mentark-backend/internal/types"
)

type MilestoneResourceRepo interface {
  Create(ctx context.Context, tx *gorm.DB, links []*types.MilestoneResource) ([]*types.MilestoneResource, error)
  GetByMilestoneIDs(ctx context.Context, tx *gorm.DB, milestoneIDs []uuid.UUID) ([]*types.MilestoneResource, error)
}

type milestoneResourceRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewMilestoneResourceRepo(db *gorm.DB, baseLog *logger.Logger) MilestoneResourceRepo {
  repoLog := baseLog.With("repo", "MilestoneResourceRepo")
  return &milestoneResourceRepo{db: db, log: repoLog}
}

func (r *milestoneResourceRepo) Create(ctx context.Context, tx *gorm.DB, links []*types.MilestoneResource) ([]*types.MilestoneResource, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(links) == 0 {
    return []*types.MilestoneResource{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&links).Error; err != nil {
    return nil, err
  }
  return links, nil
}

func (r *milestoneResourceRepo) GetByMilestoneIDs(ctx context.Context, tx *gorm.DB, milestoneIDs []uuid.UUID) ([]*types.MilestoneResource, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.MilestoneResource
  if len(milestoneIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("milestone_id IN ?", milestoneIDs).
    Order("order_index ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
