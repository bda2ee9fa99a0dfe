package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Assessment struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ModuleID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"module_id"`
	Module   *Module   `gorm:"constraint:OnDelete:CASCADE;foreignKey:ModuleID;references:ID" json:"module,omitempty"`
	Title    string    `gorm:"column:title" json:"title"`
	// Questions is the rendered question set; Solution maps question id to
	// the correct choice and never leaves the server.
	Questions      datatypes.JSON `gorm:"column:questions;type:jsonb" json:"questions,omitempty"`
	Solution       datatypes.JSON `gorm:"column:solution;type:jsonb" json:"-"`
	PassPercentage int            `gorm:"column:pass_percentage;not null;default:60" json:"pass_percentage"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Assessment) TableName() string { return "assessment" }

type AssessmentResult struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index:idx_result_user_assessment,priority:1" json:"user_id"`
	AssessmentID uuid.UUID      `gorm:"type:uuid;not null;index:idx_result_user_assessment,priority:2" json:"assessment_id"`
	ModuleID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"module_id"`
	Score        float64        `gorm:"column:score;not null" json:"score"`
	Passed       bool           `gorm:"column:passed;not null" json:"passed"`
	Answers      datatypes.JSON `gorm:"column:answers;type:jsonb" json:"answers,omitempty"`
	Attempt      int            `gorm:"column:attempt;not null;default:1" json:"attempt"`
	SubmittedAt  time.Time      `gorm:"column:submitted_at;not null;default:now()" json:"submitted_at"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (AssessmentResult) TableName() string { return "assessment_result" }
