package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/learnloop/learnloop-backend/internal/domain"
	"github.com/learnloop/learnloop-backend/internal/graph"
	pkgerrors "github.com/learnloop/learnloop-backend/internal/pkg/errors"
	"github.com/learnloop/learnloop-backend/internal/repos/testutil"
	"github.com/learnloop/learnloop-backend/internal/scoring"
)

func newTestEngine(t *testing.T, view *fakeView, users *fakeUserRepo, modules *fakeModuleRepo, paths *fakePathRepo, progress *fakeProgressRepo) RecommendationService {
	t.Helper()
	if users == nil {
		users = &fakeUserRepo{users: map[uuid.UUID]*domain.User{}}
	}
	if modules == nil {
		modules = &fakeModuleRepo{modules: map[uuid.UUID]*domain.Module{}}
	}
	if paths == nil {
		paths = &fakePathRepo{paths: map[uuid.UUID]*domain.LearningPath{}}
	}
	if progress == nil {
		progress = &fakeProgressRepo{}
	}
	return NewRecommendationService(nil, testutil.Logger(t), scoring.Default(), view, users, modules, paths, progress, nil, nil)
}

func seedFakeUser(id uuid.UUID) *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*domain.User{
		id: {
			ID:             id,
			Email:          "u@example.com",
			EducationLevel: "undergraduate",
			TopicInterests: domain.MustJSON([]string{"graphs"}),
		},
	}}
}

func candidates(n int) []graph.Candidate {
	out := make([]graph.Candidate, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, graph.Candidate{
			ID:    uuid.New(),
			Title: fmt.Sprintf("candidate %d", i),
			Score: float64(n - i),
		})
	}
	return out
}

func TestResourceRecommendationsUnknownUser(t *testing.T) {
	svc := newTestEngine(t, &fakeView{}, nil, nil, nil, nil)
	_, err := svc.GetResourceRecommendations(context.Background(), uuid.New())
	if !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResourceRecommendationsFirstTierWins(t *testing.T) {
	userID := uuid.New()
	view := &fakeView{
		popularExcludingUser: candidates(3),
		matchingTerms:        candidates(2),
		popularResources:     candidates(2),
	}
	svc := newTestEngine(t, view, seedFakeUser(userID), nil, nil, nil)

	got, err := svc.GetResourceRecommendations(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d candidates, want 3", len(got))
	}
	for _, call := range view.calls {
		if call == "ResourcesMatchingTerms" || call == "PopularResources" {
			t.Fatalf("lower tier %s ran after first tier produced results", call)
		}
	}
}

func TestResourceRecommendationsProfileFallback(t *testing.T) {
	userID := uuid.New()
	view := &fakeView{
		matchingTerms:    candidates(2),
		popularResources: candidates(4),
	}
	svc := newTestEngine(t, view, seedFakeUser(userID), nil, nil, nil)

	got, err := svc.GetResourceRecommendations(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2 from the profile tier", len(got))
	}
	if strings.Join(view.calls, ",") != "PopularResourcesExcludingUser,ResourcesMatchingTerms" {
		t.Fatalf("unexpected tier order: %v", view.calls)
	}
}

func TestResourceRecommendationsExhaustionIsEmptyNotError(t *testing.T) {
	userID := uuid.New()
	svc := newTestEngine(t, &fakeView{}, seedFakeUser(userID), nil, nil, nil)

	got, err := svc.GetResourceRecommendations(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("exhausted cascade should return an empty list, got %v", got)
	}
}

func TestResourceRecommendationsCapsAtLimit(t *testing.T) {
	userID := uuid.New()
	view := &fakeView{popularExcludingUser: candidates(20)}
	svc := newTestEngine(t, view, seedFakeUser(userID), nil, nil, nil)

	got, err := svc.GetResourceRecommendations(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := scoring.Default().ResourcesForUserLimit; len(got) != want {
		t.Fatalf("got %d candidates, want cap %d", len(got), want)
	}
}

func TestBackendUnavailablePropagates(t *testing.T) {
	userID := uuid.New()
	view := &fakeView{
		errPopularExcludingUser: fmt.Errorf("no route to graph: %w", pkgerrors.ErrBackendUnavailable),
		popularResources:        candidates(3),
	}
	svc := newTestEngine(t, view, seedFakeUser(userID), nil, nil, nil)

	_, err := svc.GetResourceRecommendations(context.Background(), userID)
	if !errors.Is(err, pkgerrors.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable to short-circuit the cascade, got %v", err)
	}
}

func TestStrategyErrorFallsThrough(t *testing.T) {
	moduleID := uuid.New()
	view := &fakeView{
		errPathsContaining: errors.New("query timeout"),
		pathsSharing:       candidates(2),
	}
	svc := newTestEngine(t, view, nil, nil, nil, nil)

	got, err := svc.GetLearningPathsForModule(context.Background(), moduleID, uuid.Nil)
	if err != nil {
		t.Fatalf("a per-strategy failure must not surface: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidates from the fallback tier, want 2", len(got))
	}
}

func TestRelatedResourcesUnknownSource(t *testing.T) {
	svc := newTestEngine(t, &fakeView{resourcesByID: map[uuid.UUID]graph.Candidate{}}, nil, nil, nil, nil)
	_, err := svc.GetRelatedResources(context.Background(), uuid.New(), uuid.Nil)
	if !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRelatedResourcesCompositeScore(t *testing.T) {
	srcID := uuid.New()
	sharedCat := uuid.New() // one category overlap: 1×2 = 2
	coClicked := uuid.New() // co-interactions only: 2×3 = 6
	unrelated := uuid.New() // nothing shared, filtered out

	src := graph.Candidate{
		ID:         srcID,
		Title:      "intro to graph theory",
		Categories: []string{"math"},
	}
	view := &fakeView{
		resourcesByID: map[uuid.UUID]graph.Candidate{srcID: src},
		allResources: []graph.Candidate{
			{ID: sharedCat, Title: "linear algebra", Categories: []string{"math"}},
			{ID: coClicked, Title: "cooking pasta"},
			{ID: unrelated, Title: "watercolor basics"},
		},
		coCounts: map[uuid.UUID]float64{coClicked: 2},
	}
	svc := newTestEngine(t, view, nil, nil, nil, nil)

	got, err := svc.GetRelatedResources(context.Background(), srcID, uuid.Nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2 (zero-score candidate dropped)", len(got))
	}
	if got[0].ID != coClicked {
		t.Fatalf("co-interaction boost should rank first, got %v", got[0].ID)
	}
	if got[1].ID != sharedCat {
		t.Fatalf("category overlap should rank second, got %v", got[1].ID)
	}
	if got[0].Score <= got[1].Score {
		t.Fatalf("scores not descending: %v then %v", got[0].Score, got[1].Score)
	}
}

func TestRelatedResourcesDeterministicTieBreak(t *testing.T) {
	srcID := uuid.New()
	src := graph.Candidate{ID: srcID, Title: "x", Categories: []string{"math"}}

	tied := []graph.Candidate{
		{ID: uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000000"), Title: "m", Categories: []string{"math"}},
		{ID: uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000000"), Title: "n", Categories: []string{"math"}},
	}
	view := &fakeView{
		resourcesByID: map[uuid.UUID]graph.Candidate{srcID: src},
		allResources:  tied,
	}
	svc := newTestEngine(t, view, nil, nil, nil, nil)

	got, err := svc.GetRelatedResources(context.Background(), srcID, uuid.Nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
	if got[0].ID.String() > got[1].ID.String() {
		t.Fatalf("equal scores must order by ascending id, got %v then %v", got[0].ID, got[1].ID)
	}
}

func TestRelatedModulesExcludesCompleted(t *testing.T) {
	userID := uuid.New()
	moduleID := uuid.New()
	completedID := uuid.New()
	otherID := uuid.New()

	modules := &fakeModuleRepo{modules: map[uuid.UUID]*domain.Module{
		moduleID: {ID: moduleID, Title: "src"},
	}}
	progress := &fakeProgressRepo{moduleRows: []*domain.ModuleProgress{
		{UserID: userID, ModuleID: completedID, Status: domain.ModuleStatusCompleted},
	}}
	view := &fakeView{modulesRelated: []graph.Candidate{
		{ID: completedID, Title: "done already", Score: 9},
		{ID: otherID, Title: "fresh", Score: 5},
	}}
	svc := newTestEngine(t, view, nil, modules, nil, progress)

	got, err := svc.GetRelatedModules(context.Background(), moduleID, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != otherID {
		t.Fatalf("completed module should be excluded, got %v", got)
	}
}

func TestModulesForCategoriesValidation(t *testing.T) {
	svc := newTestEngine(t, &fakeView{}, nil, nil, nil, nil)
	_, err := svc.GetModulesForCategories(context.Background(), []string{" ", ""})
	if !errors.Is(err, pkgerrors.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
