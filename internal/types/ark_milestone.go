package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ArkMilestone struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ArkID               uuid.UUID      `gorm:"type:uuid;not null;index" json:"ark_id"`
	Ark                 *Ark           `gorm:"constraint:OnDelete:CASCADE;foreignKey:ArkID;references:ID" json:"ark,omitempty"`
	Title               string         `gorm:"column:title;not null" json:"title"`
	Description         string         `gorm:"column:description" json:"description"`
	OrderIndex          int            `gorm:"column:order_index;not null;index" json:"order_index"`
	EstimatedDuration   string         `gorm:"column:estimated_duration" json:"estimated_duration"`
	Status              string         `gorm:"column:status;not null" json:"status"`
	TargetDate          *time.Time     `gorm:"column:target_date" json:"target_date,omitempty"`
	Difficulty          string         `gorm:"column:difficulty;not null" json:"difficulty"`
	RequiredHours       *float64       `gorm:"column:required_hours" json:"required_hours,omitempty"`
	SkillsToGain        datatypes.JSON `gorm:"type:jsonb;column:skills_to_gain" json:"skills_to_gain,omitempty"`
	CheckpointQuestions datatypes.JSON `gorm:"type:jsonb;column:checkpoint_questions" json:"checkpoint_questions,omitempty"`
	CelebrationMessage  string         `gorm:"column:celebration_message" json:"celebration_message"`
	Metadata            datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`
	CreatedAt           time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ArkMilestone) TableName() string { return "ark_milestone" }
