package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ArkReminder struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ArkID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"ark_id"`
	MilestoneID  *uuid.UUID     `gorm:"type:uuid;index" json:"milestone_id,omitempty"`
	TaskID       *uuid.UUID     `gorm:"type:uuid;index" json:"task_id,omitempty"`
	StudentID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"student_id"`
	ReminderType string         `gorm:"column:reminder_type;not null" json:"reminder_type"`
	Title        string         `gorm:"column:title;not null" json:"title"`
	Message      string         `gorm:"column:message" json:"message"`
	ScheduledFor time.Time      `gorm:"column:scheduled_for;not null;index" json:"scheduled_for"`
	Channels     datatypes.JSON `gorm:"type:jsonb;column:channels" json:"channels,omitempty"`
	Priority     string         `gorm:"column:priority;not null" json:"priority"`
	ValueScore   float64        `gorm:"column:value_score;not null" json:"value_score"`
	Status       string         `gorm:"column:status;not null" json:"status"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ArkReminder) TableName() string { return "ark_reminder" }
