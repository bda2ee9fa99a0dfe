package graph

import (
	"context"

	"github.com/google/uuid"
)

// Candidate is a scored recommendation candidate read from the graph
// projection. Scores are strategy-specific; ordering is always score
// descending with id ascending as the tie-break.
type Candidate struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Type        string    `json:"type,omitempty"`
	Categories  []string  `json:"categories,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Score       float64   `json:"score"`
}

// View owns every graph read the recommendation engine performs. The graph
// projection is eventually consistent with the relational store; readers
// tolerate staleness. Implementations must be deterministic for a fixed
// graph snapshot.
type View interface {
	// Resource candidates.
	PopularResources(ctx context.Context, limit int) ([]Candidate, error)
	PopularResourcesExcludingUser(ctx context.Context, userID uuid.UUID, limit int) ([]Candidate, error)
	ResourcesMatchingTerms(ctx context.Context, terms []string, excludeUserID uuid.UUID, limit int) ([]Candidate, error)
	ResourceByID(ctx context.Context, id uuid.UUID) (*Candidate, error)
	AllResources(ctx context.Context, excludeID uuid.UUID) ([]Candidate, error)
	CoInteractionCounts(ctx context.Context, resourceID uuid.UUID) (map[uuid.UUID]float64, error)
	ResourcesRelatedToPath(ctx context.Context, pathID uuid.UUID, limit int) ([]Candidate, error)

	// Module candidates.
	PopularModules(ctx context.Context, limit int) ([]Candidate, error)
	ModulesContainingResource(ctx context.Context, resourceID uuid.UUID, limit int) ([]Candidate, error)
	ModulesSharingCategories(ctx context.Context, resourceID uuid.UUID, limit int) ([]Candidate, error)
	ModulesRelatedToModule(ctx context.Context, moduleID uuid.UUID, limit int) ([]Candidate, error)
	ModulesByCategories(ctx context.Context, categories []string, limit int) ([]Candidate, error)

	// Learning path candidates.
	PopularPaths(ctx context.Context, limit int) ([]Candidate, error)
	PathsContainingModule(ctx context.Context, moduleID uuid.UUID, limit int) ([]Candidate, error)
	PathsSharingModules(ctx context.Context, moduleID uuid.UUID, limit int) ([]Candidate, error)
	PathsRelatedToPath(ctx context.Context, pathID uuid.UUID, limit int) ([]Candidate, error)
}
