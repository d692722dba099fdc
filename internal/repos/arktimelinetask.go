package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/mentark/mentark-backend/internal/logger"
  "github.com/mentark/mentark-backend/internal/types"
)

type ArkTimelineTaskRepo interface {
  Create(ctx context.Context, tx *gorm.DB, tasks []*types.ArkTimelineTask) ([]*types.ArkTimelineTask, error)
  GetByArkID(ctx context.Context, tx *gorm.DB, arkID uuid.UUID) ([]*types.ArkTimelineTask, error)
}

type arkTimelineTaskRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewArkTimelineTaskRepo(db *gorm.DB, baseLog *logger.Logger) ArkTimelineTaskRepo {
  repoLog := baseLog.With("repo", "ArkTimelineTaskRepo")
  return &arkTimelineTaskRepo{db: db, log: repoLog}
}

func (r *arkTimelineTaskRepo) Create(ctx context.Context, tx *gorm.DB, tasks []*types.ArkTimelineTask) ([]*types.ArkTimelineTask, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(tasks) == 0 {
    return []*types.ArkTimelineTask{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&tasks).Error; err != nil {
    return nil, err
  }
  return tasks, nil
}

func (r *arkTimelineTaskRepo) GetByArkID(ctx context.Context, tx *gorm.DB, arkID uuid.UUID) ([]*types.ArkTimelineTask, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ArkTimelineTask
  if err := transaction.WithContext(ctx).
    Where("ark_id = ?", arkID).
    Order("task_date ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
