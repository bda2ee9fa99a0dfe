package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	FirstName string    `gorm:"column:first_name" json:"first_name"`
	LastName  string    `gorm:"column:last_name" json:"last_name"`

	EducationLevel        string         `gorm:"column:education_level" json:"education_level"`
	FieldOfStudy          string         `gorm:"column:field_of_study" json:"field_of_study"`
	TopicInterests        datatypes.JSON `gorm:"column:topic_interests;type:jsonb" json:"topic_interests,omitempty"`
	PreferredContentTypes datatypes.JSON `gorm:"column:preferred_content_types;type:jsonb" json:"preferred_content_types,omitempty"`
	Language              string         `gorm:"column:language" json:"language"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string { return "user" }
