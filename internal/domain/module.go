package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Module struct {
	ID                uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title             string    `gorm:"column:title;not null" json:"title"`
	Description       string    `gorm:"column:description;type:text" json:"description,omitempty"`
	EstimatedDuration int       `gorm:"column:estimated_duration;not null;default:0" json:"estimated_duration"`
	CreatorID         uuid.UUID `gorm:"type:uuid;index" json:"creator_id"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Module) TableName() string { return "module" }

type ModuleResource struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ModuleID   uuid.UUID      `gorm:"type:uuid;not null;index:idx_module_resource,unique,priority:1" json:"module_id"`
	Module     *Module        `gorm:"constraint:OnDelete:CASCADE;foreignKey:ModuleID;references:ID" json:"module,omitempty"`
	ResourceID uuid.UUID      `gorm:"type:uuid;not null;index:idx_module_resource,unique,priority:2" json:"resource_id"`
	Resource   *Resource      `gorm:"constraint:OnDelete:CASCADE;foreignKey:ResourceID;references:ID" json:"resource,omitempty"`
	Position   int            `gorm:"column:position;not null;default:0" json:"position"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ModuleResource) TableName() string { return "module_resource" }
