package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ArkTimelineTask struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ArkID           uuid.UUID      `gorm:"type:uuid;not null;index" json:"ark_id"`
	Ark             *Ark           `gorm:"constraint:OnDelete:CASCADE;foreignKey:ArkID;references:ID" json:"ark,omitempty"`
	MilestoneID     *uuid.UUID     `gorm:"type:uuid;index" json:"milestone_id,omitempty"`
	Milestone       *ArkMilestone  `gorm:"constraint:OnDelete:SET NULL;foreignKey:MilestoneID;references:ID" json:"milestone,omitempty"`
	TaskDate        time.Time      `gorm:"column:task_date;not null;index" json:"task_date"`
	TaskTitle       string         `gorm:"column:task_title;not null" json:"task_title"`
	TaskDescription string         `gorm:"column:task_description" json:"task_description"`
	TaskType        string         `gorm:"column:task_type;not null" json:"task_type"`
	EstimatedHours  float64        `gorm:"column:estimated_hours;not null" json:"estimated_hours"`
	Priority        string         `gorm:"column:priority;not null" json:"priority"`
	AutoGenerated   bool           `gorm:"column:auto_generated;not null" json:"auto_generated"`
	CreatedAt       time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ArkTimelineTask) TableName() string { return "ark_timeline_task" }
