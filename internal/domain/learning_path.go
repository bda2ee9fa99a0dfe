package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LearningPath struct {
	ID                uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title             string         `gorm:"column:title;not null" json:"title"`
	Summary           string         `gorm:"column:summary;type:text" json:"summary,omitempty"`
	Objectives        datatypes.JSON `gorm:"column:objectives;type:jsonb" json:"objectives,omitempty"`
	Visibility        string         `gorm:"column:visibility;not null;default:'public';index" json:"visibility"`
	EstimatedDuration int            `gorm:"column:estimated_duration;not null;default:0" json:"estimated_duration"`
	CreditValue       int            `gorm:"column:credit_value;not null;default:0" json:"credit_value"`
	CreatorID         uuid.UUID      `gorm:"type:uuid;index" json:"creator_id"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (LearningPath) TableName() string { return "learning_path" }

type LearningPathModule struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	LearningPathID uuid.UUID      `gorm:"type:uuid;not null;index:idx_path_module,unique,priority:1" json:"learning_path_id"`
	LearningPath   *LearningPath  `gorm:"constraint:OnDelete:CASCADE;foreignKey:LearningPathID;references:ID" json:"learning_path,omitempty"`
	ModuleID       uuid.UUID      `gorm:"type:uuid;not null;index:idx_path_module,unique,priority:2" json:"module_id"`
	Module         *Module        `gorm:"constraint:OnDelete:CASCADE;foreignKey:ModuleID;references:ID" json:"module,omitempty"`
	Position       int            `gorm:"column:position;not null;default:0" json:"position"`
	CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (LearningPathModule) TableName() string { return "learning_path_module" }
