package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Ark is the root of the roadmap aggregate. Milestones, resources, links and
// timeline tasks all hang off it and cascade on delete.
type Ark struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"student_id"`
	Student     *Student       `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	Description string         `gorm:"column:description" json:"description"`
	Category    string         `gorm:"column:category;not null" json:"category"`
	Duration    string         `gorm:"column:duration;not null" json:"duration"`
	Status      string         `gorm:"column:status;not null" json:"status"`
	Progress    int            `gorm:"column:progress;not null" json:"progress"`
	StartDate   *time.Time     `gorm:"column:start_date" json:"start_date,omitempty"`
	Metadata    datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Ark) TableName() string { return "ark" }
