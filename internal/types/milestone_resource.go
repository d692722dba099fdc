package types

import (
	"time"

	"github.com/google/uuid"
)

type MilestoneResource struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	MilestoneID uuid.UUID     `gorm:"type:uuid;not null;index:idx_milestone_resource,unique" json:"milestone_id"`
	Milestone   *ArkMilestone `gorm:"constraint:OnDelete:CASCADE;foreignKey:MilestoneID;references:ID" json:"milestone,omitempty"`
	ResourceID  uuid.UUID     `gorm:"type:uuid;not null;index:idx_milestone_resource,unique" json:"resource_id"`
	Resource    *ArkResource  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ResourceID;references:ID" json:"resource,omitempty"`
	IsRequired  bool          `gorm:"column:is_required;not null" json:"is_required"`
	OrderIndex  int           `gorm:"column:order_index;not null" json:"order_index"`
	CreatedAt   time.Time     `gorm:"not null" json:"created_at"`
}

func (MilestoneResource) TableName() string { return "milestone_resource" }
