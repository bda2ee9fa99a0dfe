package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

type Resource struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	Description string         `gorm:"column:description;type:text" json:"description,omitempty"`
	Type        string         `gorm:"column:type;index" json:"type"`
	Categories  datatypes.JSON `gorm:"column:categories;type:jsonb" json:"categories,omitempty"`
	Tags        datatypes.JSON `gorm:"column:tags;type:jsonb" json:"tags,omitempty"`
	Format      string         `gorm:"column:format" json:"format"`
	Visibility  string         `gorm:"column:visibility;not null;default:'public';index" json:"visibility"`
	CreatorID   uuid.UUID      `gorm:"type:uuid;index" json:"creator_id"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Resource) TableName() string { return "resource" }
