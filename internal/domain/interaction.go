package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Interaction types, ordered low to high importance for scoring.
const (
	InteractionView           = "view"
	InteractionStart          = "start"
	InteractionBookmark       = "bookmark"
	InteractionCompleteModule = "complete_module"
	InteractionCompletePath   = "complete_path"
)

const (
	TargetResource     = "resource"
	TargetModule       = "module"
	TargetLearningPath = "learning_path"
)

// Interaction targets exactly one of resource, module or learning path.
type Interaction struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	ResourceID     *uuid.UUID `gorm:"type:uuid;index" json:"resource_id,omitempty"`
	ModuleID       *uuid.UUID `gorm:"type:uuid;index" json:"module_id,omitempty"`
	LearningPathID *uuid.UUID `gorm:"type:uuid;index" json:"learning_path_id,omitempty"`
	Type           string     `gorm:"column:type;not null;index" json:"type"`
	OccurredAt     time.Time  `gorm:"column:occurred_at;not null;default:now();index" json:"occurred_at"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Interaction) TableName() string { return "interaction" }

// TargetType reports which of the three target columns is set.
func (i *Interaction) TargetType() string {
	switch {
	case i.ResourceID != nil:
		return TargetResource
	case i.ModuleID != nil:
		return TargetModule
	case i.LearningPathID != nil:
		return TargetLearningPath
	}
	return ""
}

type Bookmark struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index:idx_bookmark_user_resource,unique,priority:1" json:"user_id"`
	ResourceID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_bookmark_user_resource,unique,priority:2" json:"resource_id"`
	InteractionID uuid.UUID      `gorm:"type:uuid;not null" json:"interaction_id"`
	CreatedAt     time.Time      `gorm:"not null;default:now()" json:"created_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Bookmark) TableName() string { return "bookmark" }
