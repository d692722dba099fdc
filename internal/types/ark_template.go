package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ArkTemplate is a curated roadmap skeleton that can be customized for a
// student instead of generating a roadmap from scratch.
type ArkTemplate struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title         string         `gorm:"column:title;not null" json:"title"`
	Description   string         `gorm:"column:description" json:"description"`
	Category      string         `gorm:"column:category;not null;index" json:"category"`
	DurationWeeks int            `gorm:"column:duration_weeks;not null" json:"duration_weeks"`
	TemplateJSON  datatypes.JSON `gorm:"type:jsonb;column:template_json;not null" json:"template_json"`
	CreatedAt     time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ArkTemplate) TableName() string { return "ark_template" }
