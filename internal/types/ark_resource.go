package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ArkResource rows belong to the ark, not to a single milestone; the
// milestone_resource join table carries the per-milestone ordering.
type ArkResource struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ArkID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"ark_id"`
	Ark          *Ark           `gorm:"constraint:OnDelete:CASCADE;foreignKey:ArkID;references:ID" json:"ark,omitempty"`
	Type         string         `gorm:"column:type;not null" json:"type"`
	Title        string         `gorm:"column:title;not null" json:"title"`
	URL          string         `gorm:"column:url;not null" json:"url"`
	Provider     string         `gorm:"column:provider" json:"provider"`
	ThumbnailURL *string        `gorm:"column:thumbnail_url" json:"thumbnail_url,omitempty"`
	Metadata     datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ArkResource) TableName() string { return "ark_resource" }
