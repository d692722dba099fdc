package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/mentark/mentark-backend/internal/logger"
  "github.com/mentark/mentark-backend/internal/types"
)

type StudentRepo interface {
  Create(ctx context.Context, tx *gorm.DB, students []*types.Student) ([]*types.Student, error)
  GetByID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (*types.Student, error)
  GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.Student, error)
}

type studentRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewStudentRepo(db *gorm.DB, baseLog *logger.Logger) StudentRepo {
  repoLog := baseLog.With("repo", "StudentRepo")
  return &studentRepo{db: db, log: repoLog}
}

func (r *studentRepo) Create(ctx context.Context, tx *gorm.DB, students []*types.Student) ([]*types.Student, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(students) == 0 {
    return []*types.Student{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&students).Error; err != nil {
    return nil, err
  }
  return students, nil
}

func (r *studentRepo) GetByID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (*types.Student, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var result types.Student
  if err := transaction.WithContext(ctx).
    Where("id = ?", studentID).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

func (r *studentRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.Student, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var result types.Student
  if err := transaction.WithContext(ctx).
    Where("email = ?", email).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}
