package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnloop/learnloop-backend/internal/domain"
	"github.com/learnloop/learnloop-backend/internal/graph"
	"github.com/learnloop/learnloop-backend/internal/repos"
)

// fakeView serves canned candidates per query. Limits are honored so cap
// behavior can be asserted.
type fakeView struct {
	popularResources      []graph.Candidate
	popularExcludingUser  []graph.Candidate
	matchingTerms         []graph.Candidate
	resourcesByID         map[uuid.UUID]graph.Candidate
	allResources          []graph.Candidate
	coCounts              map[uuid.UUID]float64
	resourcesForPath      []graph.Candidate
	popularModules        []graph.Candidate
	modulesContaining     []graph.Candidate
	modulesSharing        []graph.Candidate
	modulesRelated        []graph.Candidate
	modulesByCategories   []graph.Candidate
	popularPaths          []graph.Candidate
	pathsContaining       []graph.Candidate
	pathsSharing          []graph.Candidate
	pathsRelated          []graph.Candidate

	errPopularExcludingUser error
	errMatchingTerms        error
	errPathsContaining      error

	calls []string
}

func capped(list []graph.Candidate, limit int) []graph.Candidate {
	if limit > 0 && len(list) > limit {
		return list[:limit]
	}
	return list
}

func (f *fakeView) record(name string) { f.calls = append(f.calls, name) }

func (f *fakeView) PopularResources(_ context.Context, limit int) ([]graph.Candidate, error) {
	f.record("PopularResources")
	return capped(f.popularResources, limit), nil
}

func (f *fakeView) PopularResourcesExcludingUser(_ context.Context, _ uuid.UUID, limit int) ([]graph.Candidate, error) {
	f.record("PopularResourcesExcludingUser")
	if f.errPopularExcludingUser != nil {
		return nil, f.errPopularExcludingUser
	}
	return capped(f.popularExcludingUser, limit), nil
}

func (f *fakeView) ResourcesMatchingTerms(_ context.Context, _ []string, _ uuid.UUID, limit int) ([]graph.Candidate, error) {
	f.record("ResourcesMatchingTerms")
	if f.errMatchingTerms != nil {
		return nil, f.errMatchingTerms
	}
	return capped(f.matchingTerms, limit), nil
}

func (f *fakeView) ResourceByID(_ context.Context, id uuid.UUID) (*graph.Candidate, error) {
	f.record("ResourceByID")
	if c, ok := f.resourcesByID[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (f *fakeView) AllResources(_ context.Context, excludeID uuid.UUID) ([]graph.Candidate, error) {
	f.record("AllResources")
	out := make([]graph.Candidate, 0, len(f.allResources))
	for _, c := range f.allResources {
		if c.ID != excludeID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeView) CoInteractionCounts(_ context.Context, _ uuid.UUID) (map[uuid.UUID]float64, error) {
	f.record("CoInteractionCounts")
	return f.coCounts, nil
}

func (f *fakeView) ResourcesRelatedToPath(_ context.Context, _ uuid.UUID, limit int) ([]graph.Candidate, error) {
	f.record("ResourcesRelatedToPath")
	return capped(f.resourcesForPath, limit), nil
}

func (f *fakeView) PopularModules(_ context.Context, limit int) ([]graph.Candidate, error) {
	f.record("PopularModules")
	return capped(f.popularModules, limit), nil
}

func (f *fakeView) ModulesContainingResource(_ context.Context, _ uuid.UUID, limit int) ([]graph.Candidate, error) {
	f.record("ModulesContainingResource")
	return capped(f.modulesContaining, limit), nil
}

func (f *fakeView) ModulesSharingCategories(_ context.Context, _ uuid.UUID, limit int) ([]graph.Candidate, error) {
	f.record("ModulesSharingCategories")
	return capped(f.modulesSharing, limit), nil
}

func (f *fakeView) ModulesRelatedToModule(_ context.Context, _ uuid.UUID, limit int) ([]graph.Candidate, error) {
	f.record("ModulesRelatedToModule")
	return capped(f.modulesRelated, limit), nil
}

func (f *fakeView) ModulesByCategories(_ context.Context, _ []string, limit int) ([]graph.Candidate, error) {
	f.record("ModulesByCategories")
	return capped(f.modulesByCategories, limit), nil
}

func (f *fakeView) PopularPaths(_ context.Context, limit int) ([]graph.Candidate, error) {
	f.record("PopularPaths")
	return capped(f.popularPaths, limit), nil
}

func (f *fakeView) PathsContainingModule(_ context.Context, _ uuid.UUID, limit int) ([]graph.Candidate, error) {
	f.record("PathsContainingModule")
	if f.errPathsContaining != nil {
		return nil, f.errPathsContaining
	}
	return capped(f.pathsContaining, limit), nil
}

func (f *fakeView) PathsSharingModules(_ context.Context, _ uuid.UUID, limit int) ([]graph.Candidate, error) {
	f.record("PathsSharingModules")
	return capped(f.pathsSharing, limit), nil
}

func (f *fakeView) PathsRelatedToPath(_ context.Context, _ uuid.UUID, limit int) ([]graph.Candidate, error) {
	f.record("PathsRelatedToPath")
	return capped(f.pathsRelated, limit), nil
}

// Repo fakes embed their interface; only the methods the engine touches
// are overridden.

type fakeUserRepo struct {
	repos.UserRepo
	users map[uuid.UUID]*domain.User
}

func (f *fakeUserRepo) GetByIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) ([]*domain.User, error) {
	var out []*domain.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeModuleRepo struct {
	repos.ModuleRepo
	modules map[uuid.UUID]*domain.Module
	links   []*domain.ModuleResource
}

func (f *fakeModuleRepo) GetByIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) ([]*domain.Module, error) {
	var out []*domain.Module
	for _, id := range ids {
		if m, ok := f.modules[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeModuleRepo) ListResources(_ context.Context, _ *gorm.DB, moduleID uuid.UUID) ([]*domain.ModuleResource, error) {
	var out []*domain.ModuleResource
	for _, link := range f.links {
		if link.ModuleID == moduleID {
			out = append(out, link)
		}
	}
	return out, nil
}

type fakePathRepo struct {
	repos.LearningPathRepo
	paths map[uuid.UUID]*domain.LearningPath
	links []*domain.LearningPathModule
}

func (f *fakePathRepo) GetByIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) ([]*domain.LearningPath, error) {
	var out []*domain.LearningPath
	for _, id := range ids {
		if p, ok := f.paths[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePathRepo) ListModules(_ context.Context, _ *gorm.DB, pathID uuid.UUID) ([]*domain.LearningPathModule, error) {
	var out []*domain.LearningPathModule
	for _, link := range f.links {
		if link.LearningPathID == pathID {
			out = append(out, link)
		}
	}
	return out, nil
}

type fakeProgressRepo struct {
	repos.ProgressRepo
	pathRows   []*domain.LearningPathProgress
	moduleRows []*domain.ModuleProgress
}

func (f *fakeProgressRepo) ListPathProgressByUser(_ context.Context, _ *gorm.DB, userID uuid.UUID) ([]*domain.LearningPathProgress, error) {
	var out []*domain.LearningPathProgress
	for _, row := range f.pathRows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeProgressRepo) ListModuleProgressByUser(_ context.Context, _ *gorm.DB, userID uuid.UUID) ([]*domain.ModuleProgress, error) {
	var out []*domain.ModuleProgress
	for _, row := range f.moduleRows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}
