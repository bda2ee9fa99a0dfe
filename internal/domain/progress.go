package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	PathStatusNotStarted = "not_started"
	PathStatusInProgress = "in_progress"
	PathStatusCompleted  = "completed"
)

const (
	ModuleStatusLocked     = "locked"
	ModuleStatusInProgress = "in_progress"
	ModuleStatusCompleted  = "completed"
)

const (
	AssessmentStatusNotStarted = "not_started"
	AssessmentStatusInProgress = "in_progress"
	AssessmentStatusPassed     = "passed"
	AssessmentStatusFailed     = "failed"
)

type LearningPathProgress struct {
	ID                 uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID             uuid.UUID      `gorm:"type:uuid;not null;index:idx_path_progress,unique,priority:1" json:"user_id"`
	LearningPathID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_path_progress,unique,priority:2" json:"learning_path_id"`
	CurrentModuleID    *uuid.UUID     `gorm:"type:uuid" json:"current_module_id,omitempty"`
	CompletedModuleIDs datatypes.JSON `gorm:"column:completed_module_ids;type:jsonb" json:"completed_module_ids,omitempty"`
	LockedModuleIDs    datatypes.JSON `gorm:"column:locked_module_ids;type:jsonb" json:"locked_module_ids,omitempty"`
	ProgressPercentage int            `gorm:"column:progress_percentage;not null;default:0" json:"progress_percentage"`
	Status             string         `gorm:"column:status;not null;default:'not_started';index" json:"status"`
	StartedAt          time.Time      `gorm:"column:started_at;not null;default:now()" json:"started_at"`
	CompletedAt        *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (LearningPathProgress) TableName() string { return "learning_path_progress" }

type ModuleProgress struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID           uuid.UUID  `gorm:"type:uuid;not null;index:idx_module_progress,unique,priority:1" json:"user_id"`
	LearningPathID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_module_progress,unique,priority:2" json:"learning_path_id"`
	ModuleID         uuid.UUID  `gorm:"type:uuid;not null;index:idx_module_progress,unique,priority:3" json:"module_id"`
	Status           string     `gorm:"column:status;not null;default:'locked'" json:"status"`
	AssessmentStatus string     `gorm:"column:assessment_status;not null;default:'not_started'" json:"assessment_status"`
	CompletedAt      *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (ModuleProgress) TableName() string { return "module_progress" }
