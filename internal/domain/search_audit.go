package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SearchAudit is a telemetry record of a recommendation or search call:
// the query, its optional embedding, and the ranked result set.
type SearchAudit struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    *uuid.UUID     `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Context   string         `gorm:"column:context;not null;index" json:"context"`
	Query     string         `gorm:"column:query;type:text" json:"query"`
	Embedding datatypes.JSON `gorm:"column:embedding;type:jsonb" json:"embedding,omitempty"`
	Results   datatypes.JSON `gorm:"column:results;type:jsonb" json:"results,omitempty"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (SearchAudit) TableName() string { return "search_audit" }
