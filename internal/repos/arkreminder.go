package repos

import (
  "context"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/mentark/mentark-backend/internal/logger"
  "github.com/mentark/mentark-backend/internal/types"
)

type ArkReminderRepo interface {
  Create(ctx context.Context, tx *gorm.DB, reminders []*types.ArkReminder) ([]*types.ArkReminder, error)
  GetByArkID(ctx context.Context, tx *gorm.DB, arkID uuid.UUID) ([]*types.ArkReminder, error)
  GetDueBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) ([]*types.ArkReminder, error)
  UpdateStatus(ctx context.Context, tx *gorm.DB, reminderID uuid.UUID, status string) error
}

type arkReminderRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewArkReminderRepo(db *gorm.DB, baseLog *logger.Logger) ArkReminderRepo {
  repoLog := baseLog.With("repo", "ArkReminderRepo")
  return &arkReminderRepo{db: db, log: repoLog}
}

func (r *arkReminderRepo) Create(ctx context.Context, tx *gorm.DB, reminders []*types.ArkReminder) ([]*types.ArkReminder, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(reminders) == 0 {
    return []*types.ArkReminder{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&reminders).Error; err != nil {
    return nil, err
  }
  return reminders, nil
}

func (r *arkReminderRepo) GetByArkID(ctx context.Context, tx *gorm.DB, arkID uuid.UUID) ([]*types.ArkReminder, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ArkReminder
  if err := transaction.WithContext(ctx).
    Where("ark_id = ?", arkID).
    Order("scheduled_for ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *arkReminderRepo) GetDueBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) ([]*types.ArkReminder, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ArkReminder
  if err := transaction.WithContext(ctx).
    Where("status = ? AND scheduled_for <= ?", "pending", cutoff).
    Order("scheduled_for ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *arkReminderRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, reminderID uuid.UUID, status string) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  return transaction.WithContext(ctx).
    Model(&types.ArkReminder{}).
    Where("id = ?", reminderID).
    Update("status", status).Error
}
