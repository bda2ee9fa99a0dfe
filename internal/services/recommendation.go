package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnloop/learnloop-backend/internal/domain"
	"github.com/learnloop/learnloop-backend/internal/graph"
	pkgerrors "github.com/learnloop/learnloop-backend/internal/pkg/errors"
	"github.com/learnloop/learnloop-backend/internal/platform/logger"
	"github.com/learnloop/learnloop-backend/internal/repos"
	"github.com/learnloop/learnloop-backend/internal/scoring"
)

// EmbeddingProvider is an external oracle returning a fixed-length vector
// for a text. Used only for query audit telemetry.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

type RecommendationService interface {
	GetResourceRecommendations(ctx context.Context, userID uuid.UUID) ([]graph.Candidate, error)
	GetRelatedResources(ctx context.Context, resourceID, userID uuid.UUID) ([]graph.Candidate, error)
	GetModulesForResource(ctx context.Context, resourceID uuid.UUID) ([]graph.Candidate, error)
	GetLearningPathsForModule(ctx context.Context, moduleID, userID uuid.UUID) ([]graph.Candidate, error)
	GetRelatedLearningPaths(ctx context.Context, pathID, userID uuid.UUID) ([]graph.Candidate, error)
	GetResourcesForLearningPath(ctx context.Context, pathID, userID uuid.UUID) ([]graph.Candidate, error)
	GetRelatedModules(ctx context.Context, moduleID, userID uuid.UUID) ([]graph.Candidate, error)
	GetModulesForCategories(ctx context.Context, categories []string) ([]graph.Candidate, error)
}

type recommendationService struct {
	db       *gorm.DB
	log      *logger.Logger
	cfg      scoring.Config
	view     graph.View
	users    repos.UserRepo
	modules  repos.ModuleRepo
	paths    repos.LearningPathRepo
	progress repos.ProgressRepo
	audits   repos.SearchAuditRepo
	embedder EmbeddingProvider
}

// NewRecommendationService wires the engine. audits and embedder are
// optional telemetry sinks; pass nil to disable query auditing.
func NewRecommendationService(
	db *gorm.DB,
	baseLog *logger.Logger,
	cfg scoring.Config,
	view graph.View,
	users repos.UserRepo,
	modules repos.ModuleRepo,
	paths repos.LearningPathRepo,
	progress repos.ProgressRepo,
	audits repos.SearchAuditRepo,
	embedder EmbeddingProvider,
) RecommendationService {
	return &recommendationService{
		db:       db,
		log:      baseLog.With("service", "RecommendationService"),
		cfg:      cfg,
		view:     view,
		users:    users,
		modules:  modules,
		paths:    paths,
		progress: progress,
		audits:   audits,
		embedder: embedder,
	}
}

// strategy is one tier of a recommendation cascade. Tiers run in order
// until one yields candidates; exhaustion returns an empty list, which is
// a valid answer.
type strategy struct {
	name string
	run  func(ctx context.Context) ([]graph.Candidate, error)
}

func (s *recommendationService) runCascade(ctx context.Context, strategies []strategy) ([]graph.Candidate, error) {
	for _, strat := range strategies {
		candidates, err := strat.run(ctx)
		if err != nil {
			if errors.Is(err, pkgerrors.ErrBackendUnavailable) {
				return nil, err
			}
			s.log.Warn("strategy failed, falling through", "strategy", strat.name, "error", err)
			continue
		}
		if len(candidates) > 0 {
			s.log.Debug("cascade resolved", "strategy", strat.name, "count", len(candidates))
			return candidates, nil
		}
	}
	return []graph.Candidate{}, nil
}

func (s *recommendationService) GetResourceRecommendations(ctx context.Context, userID uuid.UUID) ([]graph.Candidate, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user id: %w", pkgerrors.ErrValidation)
	}

	users, err := s.users.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 || users[0] == nil {
		return nil, fmt.Errorf("user %s: %w", userID, pkgerrors.ErrNotFound)
	}
	user := users[0]

	terms := profileTerms(user)
	limit := s.cfg.ResourcesForUserLimit

	results, err := s.runCascade(ctx, []strategy{
		{name: "interaction_popularity", run: func(ctx context.Context) ([]graph.Candidate, error) {
			return s.view.PopularResourcesExcludingUser(ctx, userID, limit)
		}},
		{name: "profile_match", run: func(ctx context.Context) ([]graph.Candidate, error) {
			if len(terms) == 0 {
				return nil, nil
			}
			return s.view.ResourcesMatchingTerms(ctx, terms, userID, limit)
		}},
		{name: "global_popularity", run: func(ctx context.Context) ([]graph.Candidate, error) {
			return s.view.PopularResources(ctx, limit)
		}},
	})
	if err != nil {
		return nil, err
	}

	s.audit(ctx, "resources_for_user", &userID, strings.Join(terms, " "), results)
	return results, nil
}

// GetRelatedResources combines independent signals into one weighted sum:
// category and tag overlap, title and description similarity, and a boost
// for candidates co-interacted with by the same users.
func (s *recommendationService) GetRelatedResources(ctx context.Context, resourceID, userID uuid.UUID) ([]graph.Candidate, error) {
	if resourceID == uuid.Nil {
		return nil, fmt.Errorf("missing resource id: %w", pkgerrors.ErrValidation)
	}

	src, err := s.view.ResourceByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("resource %s: %w", resourceID, pkgerrors.ErrNotFound)
	}

	candidates, err := s.view.AllResources(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	coCounts, err := s.view.CoInteractionCounts(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	scored := make([]graph.Candidate, 0, len(candidates))
	for _, c := range candidates {
		score := float64(scoring.OverlapCount(src.Categories, c.Categories))*s.cfg.CategoryOverlapCoeff +
			float64(scoring.OverlapCount(src.Tags, c.Tags))*s.cfg.TagOverlapCoeff +
			scoring.Similarity(src.Title, c.Title)*s.cfg.TitleSimilarityCoeff +
			scoring.Similarity(src.Description, c.Description)*s.cfg.DescriptionSimilarityCoeff +
			coCounts[c.ID]*s.cfg.InteractionBoostCoeff
		if score <= 0 {
			continue
		}
		c.Score = score
		scored = append(scored, c)
	}
	sortCandidates(scored)
	scored = capCandidates(scored, s.cfg.RelatedResourcesLimit)

	uid := userID
	var uidPtr *uuid.UUID
	if uid != uuid.Nil {
		uidPtr = &uid
	}
	s.audit(ctx, "related_resources", uidPtr, src.Title, scored)
	return scored, nil
}

func (s *recommendationService) GetModulesForResource(ctx context.Context, resourceID uuid.UUID) ([]graph.Candidate, error) {
	if resourceID == uuid.Nil {
		return nil, fmt.Errorf("missing resource id: %w", pkgerrors.ErrValidation)
	}
	limit := s.cfg.ModulesForResourceLimit

	return s.runCascade(ctx, []strategy{
		{name: "direct_link", run: func(ctx context.Context) ([]graph.Candidate, error) {
			return s.view.ModulesContainingResource(ctx, resourceID, limit)
		}},
		{name: "shared_category", run: func(ctx context.Context) ([]graph.Candidate, error) {
			return s.view.ModulesSharingCategories(ctx, resourceID, limit)
		}},
		{name: "global_popularity", run: func(ctx context.Context) ([]graph.Candidate, error) {
			return s.view.PopularModules(ctx, limit)
		}},
	})
}

func (s *recommendationService) GetLearningPathsForModule(ctx context.Context, moduleID, userID uuid.UUID) ([]graph.Candidate, error) {
	if moduleID == uuid.Nil {
		return nil, fmt.Errorf("missing module id: %w", pkgerrors.ErrValidation)
	}
	limit := s.cfg.PathsForModuleLimit

	results, err := s.runCascade(ctx, []strategy{
		{name: "direct_membership", run: func(ctx context.Context) ([]graph.Candidate, error) {
			return s.view.PathsContainingModule(ctx, moduleID, limit)
		}},
		{name: "shared_modules", run: func(ctx context.Context) ([]graph.Candidate, error) {
			return s.view.PathsSharingModules(ctx, moduleID, limit)
		}},
		{name: "global_popularity", run: func(ctx context.Context) ([]graph.Candidate, error) {
			return s.view.PopularPaths(ctx, limit)
		}},
	})
	if err != nil {
		return nil, err
	}

	var uidPtr *uuid.UUID
	if userID != uuid.Nil {
		uid := userID
		uidPtr = &uid
	}
	s.audit(ctx, "paths_for_module", uidPtr, moduleID.String(), results)
	return results, nil
}

func (s *recommendationService) GetRelatedLearningPaths(ctx context.Context, pathID, userID uuid.UUID) ([]graph.Candidate, error) {
	if pathID == uuid.Nil {
		return nil, fmt.Errorf("missing learning path id: %w", pkgerrors.ErrValidation)
	}

	excluded, err := s.completedPathIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	excluded[pathID] = struct{}{}
	limit := s.cfg.RelatedPathsLimit

	return s.runCascade(ctx, []strategy{
		{name: "shared_modules", run: func(ctx context.Context) ([]graph.Candidate, error) {
			candidates, err := s.view.PathsRelatedToPath(ctx, pathID, limit+len(excluded))
			if err != nil {
				return nil, err
			}
			return capCandidates(dropCandidates(candidates, excluded), limit), nil
		}},
		{name: "global_popularity", run: func(ctx context.Context) ([]graph.Candidate, error) {
			candidates, err := s.view.PopularPaths(ctx, limit+len(excluded))
			if err != nil {
				return nil, err
			}
			return capCandidates(dropCandidates(candidates, excluded), limit), nil
		}},
	})
}

func (s *recommendationService) GetResourcesForLearningPath(ctx context.Context, pathID, userID uuid.UUID) ([]graph.Candidate, error) {
	if pathID == uuid.Nil {
		return nil, fmt.Errorf("missing learning path id: %w", pkgerrors.ErrValidation)
	}

	paths, err := s.paths.GetByIDs(ctx, nil, []uuid.UUID{pathID})
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("learning path %s: %w", pathID, pkgerrors.ErrNotFound)
	}

	inPath, err := s.pathResourceIDs(ctx, pathID)
	if err != nil {
		return nil, err
	}
	limit := s.cfg.ResourcesForPathLimit

	return s.runCascade(ctx, []strategy{
		{name: "taxonomy_overlap", run: func(ctx context.Context) ([]graph.Candidate, error) {
			// The graph query already excludes in-path resources.
			return s.view.ResourcesRelatedToPath(ctx, pathID, limit)
		}},
		{name: "global_popularity", run: func(ctx context.Context) ([]graph.Candidate, error) {
			candidates, err := s.view.PopularResources(ctx, limit+len(inPath))
			if err != nil {
				return nil, err
			}
			return capCandidates(dropCandidates(candidates, inPath), limit), nil
		}},
	})
}

func (s *recommendationService) GetRelatedModules(ctx context.Context, moduleID, userID uuid.UUID) ([]graph.Candidate, error) {
	if moduleID == uuid.Nil {
		return nil, fmt.Errorf("missing module id: %w", pkgerrors.ErrValidation)
	}

	modules, err := s.modules.GetByIDs(ctx, nil, []uuid.UUID{moduleID})
	if err != nil {
		return nil, err
	}
	if len(modules) == 0 {
		return nil, fmt.Errorf("module %s: %w", moduleID, pkgerrors.ErrNotFound)
	}

	excluded, err := s.completedModuleIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	excluded[moduleID] = struct{}{}
	limit := s.cfg.RelatedModulesLimit

	return s.runCascade(ctx, []strategy{
		{name: "shared_resources", run: func(ctx context.Context) ([]graph.Candidate, error) {
			candidates, err := s.view.ModulesRelatedToModule(ctx, moduleID, limit+len(excluded))
			if err != nil {
				return nil, err
			}
			return capCandidates(dropCandidates(candidates, excluded), limit), nil
		}},
		{name: "global_popularity", run: func(ctx context.Context) ([]graph.Candidate, error) {
			candidates, err := s.view.PopularModules(ctx, limit+len(excluded))
			if err != nil {
				return nil, err
			}
			return capCandidates(dropCandidates(candidates, excluded), limit), nil
		}},
	})
}

func (s *recommendationService) GetModulesForCategories(ctx context.Context, categories []string) ([]graph.Candidate, error) {
	cleaned := make([]string, 0, len(categories))
	for _, c := range categories {
		if v := strings.TrimSpace(c); v != "" {
			cleaned = append(cleaned, v)
		}
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("missing categories: %w", pkgerrors.ErrValidation)
	}
	return s.view.ModulesByCategories(ctx, cleaned, s.cfg.ModulesForCategoriesLimit)
}

func (s *recommendationService) completedPathIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	out := map[uuid.UUID]struct{}{}
	if userID == uuid.Nil {
		return out, nil
	}
	rows, err := s.progress.ListPathProgressByUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if row != nil && row.Status == domain.PathStatusCompleted {
			out[row.LearningPathID] = struct{}{}
		}
	}
	return out, nil
}

func (s *recommendationService) completedModuleIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	out := map[uuid.UUID]struct{}{}
	if userID == uuid.Nil {
		return out, nil
	}
	rows, err := s.progress.ListModuleProgressByUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if row != nil && row.Status == domain.ModuleStatusCompleted {
			out[row.ModuleID] = struct{}{}
		}
	}
	return out, nil
}

func (s *recommendationService) pathResourceIDs(ctx context.Context, pathID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	out := map[uuid.UUID]struct{}{}
	links, err := s.paths.ListModules(ctx, nil, pathID)
	if err != nil {
		return nil, err
	}
	for _, link := range links {
		resources, err := s.modules.ListResources(ctx, nil, link.ModuleID)
		if err != nil {
			return nil, err
		}
		for _, r := range resources {
			out[r.ResourceID] = struct{}{}
		}
	}
	return out, nil
}

// audit persists query telemetry; failures only log, never surface.
func (s *recommendationService) audit(ctx context.Context, auditContext string, userID *uuid.UUID, query string, results []graph.Candidate) {
	if s.audits == nil {
		return
	}

	type rankedResult struct {
		ID    string  `json:"id"`
		Rank  int     `json:"rank"`
		Score float64 `json:"score"`
	}
	ranked := make([]rankedResult, 0, len(results))
	for i, r := range results {
		ranked = append(ranked, rankedResult{ID: r.ID.String(), Rank: i + 1, Score: r.Score})
	}

	var embedding []float64
	if s.embedder != nil && query != "" {
		vec, err := s.embedder.Embed(ctx, query)
		if err != nil {
			s.log.Warn("query embedding failed", "error", err)
		} else {
			embedding = vec
		}
	}

	row := &domain.SearchAudit{
		UserID:    userID,
		Context:   auditContext,
		Query:     query,
		Embedding: domain.MustJSON(embedding),
		Results:   domain.MustJSON(ranked),
	}
	if _, err := s.audits.Create(ctx, nil, row); err != nil {
		s.log.Warn("search audit write failed", "error", err)
	}
}

func profileTerms(u *domain.User) []string {
	var terms []string
	if v := strings.TrimSpace(u.EducationLevel); v != "" {
		terms = append(terms, v)
	}
	terms = append(terms, domain.StringList(u.TopicInterests)...)
	terms = append(terms, domain.StringList(u.PreferredContentTypes)...)
	return terms
}

func sortCandidates(list []graph.Candidate) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Score != list[j].Score {
			return list[i].Score > list[j].Score
		}
		return list[i].ID.String() < list[j].ID.String()
	})
}

func capCandidates(list []graph.Candidate, limit int) []graph.Candidate {
	if limit > 0 && len(list) > limit {
		return list[:limit]
	}
	return list
}

func dropCandidates(list []graph.Candidate, excluded map[uuid.UUID]struct{}) []graph.Candidate {
	if len(excluded) == 0 {
		return list
	}
	out := make([]graph.Candidate, 0, len(list))
	for _, c := range list {
		if _, skip := excluded[c.ID]; skip {
			continue
		}
		out = append(out, c)
	}
	return out
}
