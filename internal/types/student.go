package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Student struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email             string         `gorm:"column:email;uniqueIndex;not null" json:"email"`
	PhoneNumber       string         `gorm:"column:phone_number" json:"phone_number,omitempty"`
	FirstName         string         `gorm:"column:first_name" json:"first_name"`
	LastName          string         `gorm:"column:last_name" json:"last_name"`
	OnboardingProfile datatypes.JSON `gorm:"type:jsonb;column:onboarding_profile" json:"onboarding_profile,omitempty"`
	CreatedAt         time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Student) TableName() string { return "student" }
