package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnloop/learnloop-backend/internal/domain"
	pkgerrors "github.com/learnloop/learnloop-backend/internal/pkg/errors"
	"github.com/learnloop/learnloop-backend/internal/repos"
	"github.com/learnloop/learnloop-backend/internal/repos/testutil"
)

func TestGradeScoring(t *testing.T) {
	assessment := &domain.Assessment{
		ID: uuid.New(),
		Solution: domain.MustJSON(map[string]string{
			"q1": "a", "q2": "b", "q3": "c", "q4": "d", "q5": "a",
		}),
		PassPercentage: 70,
	}

	// Three of five correct is 60, under the 70 bar.
	score, passed, err := grade(assessment, map[string]string{
		"q1": "a", "q2": "b", "q3": "c", "q4": "x", "q5": "x",
	})
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if score != 60 {
		t.Fatalf("score = %v, want 60", score)
	}
	if passed {
		t.Fatal("60 must not pass a 70 bar")
	}

	// Four of five is 80 and passes.
	score, passed, err = grade(assessment, map[string]string{
		"q1": "a", "q2": "b", "q3": "c", "q4": "d", "q5": "x",
	})
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if score != 80 || !passed {
		t.Fatalf("score = %v passed = %v, want 80 pass", score, passed)
	}
}

func TestGradeExactBarPasses(t *testing.T) {
	assessment := &domain.Assessment{
		ID:             uuid.New(),
		Solution:       domain.MustJSON(map[string]string{"q1": "a", "q2": "b"}),
		PassPercentage: 50,
	}
	score, passed, err := grade(assessment, map[string]string{"q1": "a", "q2": "x"})
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if score != 50 || !passed {
		t.Fatalf("score = %v passed = %v, want 50 to pass a 50 bar", score, passed)
	}
}

func TestGradeNormalizesAnswers(t *testing.T) {
	assessment := &domain.Assessment{
		ID:             uuid.New(),
		Solution:       domain.MustJSON(map[string]string{"q1": "Paris"}),
		PassPercentage: 60,
	}
	score, passed, err := grade(assessment, map[string]string{"q1": "  paris "})
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if score != 100 || !passed {
		t.Fatalf("trimmed case-folded answer should score 100, got %v", score)
	}
}

type progressionHarness struct {
	svc      ProgressionService
	progress repos.ProgressRepo
	tx       *gorm.DB
	user     *domain.User
	path     *domain.LearningPath
	modules  []*domain.Module
}

func newProgressionHarness(t *testing.T) (*progressionHarness, context.Context) {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "learner@example.com")
	path := testutil.SeedLearningPath(t, ctx, tx, "Graph Foundations")
	modules := []*domain.Module{
		testutil.SeedModule(t, ctx, tx, "Basics"),
		testutil.SeedModule(t, ctx, tx, "Traversals"),
		testutil.SeedModule(t, ctx, tx, "Practice"),
	}
	for i, m := range modules {
		testutil.AttachModuleToPath(t, ctx, tx, path.ID, m.ID, i)
	}

	progressRepo := repos.NewProgressRepo(tx, log)
	svc := NewProgressionService(
		tx,
		log,
		repos.NewUserRepo(tx, log),
		repos.NewModuleRepo(tx, log),
		repos.NewLearningPathRepo(tx, log),
		repos.NewAssessmentRepo(tx, log),
		repos.NewAssessmentResultRepo(tx, log),
		repos.NewInteractionRepo(tx, log),
		progressRepo,
	)
	return &progressionHarness{
		svc:      svc,
		progress: progressRepo,
		tx:       tx,
		user:     user,
		path:     path,
		modules:  modules,
	}, ctx
}

func TestStartLearningPath(t *testing.T) {
	h, ctx := newProgressionHarness(t)

	progress, err := h.svc.StartLearningPath(ctx, h.user.ID, h.path.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if progress.Status != domain.PathStatusInProgress {
		t.Fatalf("status = %s, want in_progress", progress.Status)
	}
	if progress.CurrentModuleID == nil || *progress.CurrentModuleID != h.modules[0].ID {
		t.Fatalf("current module should be the first declared module")
	}
	if progress.ProgressPercentage != 0 {
		t.Fatalf("fresh enrollment percentage = %d, want 0", progress.ProgressPercentage)
	}
	locked := domain.StringList(progress.LockedModuleIDs)
	if len(locked) != 2 {
		t.Fatalf("locked = %v, want the two later modules", locked)
	}

	// Starting twice conflicts.
	if _, err := h.svc.StartLearningPath(ctx, h.user.ID, h.path.ID); !errors.Is(err, pkgerrors.ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate start, got %v", err)
	}
}

func TestSubmitAssessmentFailureKeepsModulesLocked(t *testing.T) {
	h, ctx := newProgressionHarness(t)

	assessment := testutil.SeedAssessment(t, ctx, h.tx, h.modules[0].ID, map[string]string{
		"q1": "a", "q2": "b", "q3": "c", "q4": "d", "q5": "a",
	}, 70)

	if _, err := h.svc.StartLearningPath(ctx, h.user.ID, h.path.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	result, err := h.svc.SubmitAssessment(ctx, SubmitAssessmentInput{
		UserID:       h.user.ID,
		ModuleID:     h.modules[0].ID,
		AssessmentID: assessment.ID,
		Answers:      map[string]string{"q1": "a", "q2": "b", "q3": "c", "q4": "x", "q5": "x"},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Passed {
		t.Fatal("60 against a 70 bar must fail")
	}
	if result.Score != 60 {
		t.Fatalf("score = %v, want 60", result.Score)
	}
	if result.ProgressPercentage != 0 {
		t.Fatalf("failed attempt moved percentage to %d", result.ProgressPercentage)
	}

	mp, err := h.progress.GetModuleProgress(ctx, nil, h.user.ID, h.path.ID, h.modules[1].ID)
	if err != nil {
		t.Fatalf("module progress: %v", err)
	}
	if mp.Status != domain.ModuleStatusLocked {
		t.Fatalf("second module status = %s, want locked after a failed attempt", mp.Status)
	}
}

func TestPathCompletionScenario(t *testing.T) {
	h, ctx := newProgressionHarness(t)

	solution := map[string]string{"q1": "a", "q2": "b"}
	a1 := testutil.SeedAssessment(t, ctx, h.tx, h.modules[0].ID, solution, 60)
	a2 := testutil.SeedAssessment(t, ctx, h.tx, h.modules[1].ID, solution, 60)

	if _, err := h.svc.StartLearningPath(ctx, h.user.ID, h.path.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	r1, err := h.svc.SubmitAssessment(ctx, SubmitAssessmentInput{
		UserID: h.user.ID, ModuleID: h.modules[0].ID, AssessmentID: a1.ID,
		Answers: map[string]string{"q1": "a", "q2": "b"},
	})
	if err != nil {
		t.Fatalf("submit 1: %v", err)
	}
	if !r1.Passed || r1.ProgressPercentage != 33 {
		t.Fatalf("after first pass: passed=%v pct=%d, want pass at 33", r1.Passed, r1.ProgressPercentage)
	}
	if r1.CurrentModuleID == nil || *r1.CurrentModuleID != h.modules[1].ID {
		t.Fatal("current module should advance to the second module")
	}

	r2, err := h.svc.SubmitAssessment(ctx, SubmitAssessmentInput{
		UserID: h.user.ID, ModuleID: h.modules[1].ID, AssessmentID: a2.ID,
		Answers: map[string]string{"q1": "a", "q2": "b"},
	})
	if err != nil {
		t.Fatalf("submit 2: %v", err)
	}
	if r2.ProgressPercentage != 67 {
		t.Fatalf("after second pass pct = %d, want 67", r2.ProgressPercentage)
	}

	// Third module has no assessment.
	r3, err := h.svc.MarkModuleComplete(ctx, h.user.ID, h.path.ID, h.modules[2].ID)
	if err != nil {
		t.Fatalf("complete 3: %v", err)
	}
	if r3.ProgressPercentage != 100 {
		t.Fatalf("final pct = %d, want 100", r3.ProgressPercentage)
	}
	if r3.PathStatus != domain.PathStatusCompleted {
		t.Fatalf("path status = %s, want completed", r3.PathStatus)
	}
	if r3.CurrentModuleID != nil {
		t.Fatal("completed path should have no current module")
	}

	final, err := h.progress.GetPathProgress(ctx, nil, h.user.ID, h.path.ID)
	if err != nil {
		t.Fatalf("final progress: %v", err)
	}
	completed := domain.StringList(final.CompletedModuleIDs)
	locked := domain.StringList(final.LockedModuleIDs)
	if len(completed) != 3 || len(locked) != 0 {
		t.Fatalf("completed=%v locked=%v, want all completed and none locked", completed, locked)
	}
	for _, c := range completed {
		for _, l := range locked {
			if c == l {
				t.Fatalf("module %s listed as both completed and locked", c)
			}
		}
	}
	if final.CompletedAt == nil {
		t.Fatal("completed path should carry a completion timestamp")
	}
}

func TestMarkModuleCompleteRejectsGatedModule(t *testing.T) {
	h, ctx := newProgressionHarness(t)
	testutil.SeedAssessment(t, ctx, h.tx, h.modules[0].ID, map[string]string{"q1": "a"}, 60)

	if _, err := h.svc.StartLearningPath(ctx, h.user.ID, h.path.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := h.svc.MarkModuleComplete(ctx, h.user.ID, h.path.ID, h.modules[0].ID); !errors.Is(err, pkgerrors.ErrValidation) {
		t.Fatalf("expected ErrValidation for an assessment-gated module, got %v", err)
	}
}

func TestGetProgressDefaultShape(t *testing.T) {
	h, ctx := newProgressionHarness(t)

	progress, err := h.svc.GetProgress(ctx, h.user.ID, h.path.ID)
	if err != nil {
		t.Fatalf("get progress: %v", err)
	}
	if progress.Status != domain.PathStatusNotStarted {
		t.Fatalf("status = %s, want not_started", progress.Status)
	}
	if progress.ProgressPercentage != 0 {
		t.Fatalf("percentage = %d, want 0", progress.ProgressPercentage)
	}
	if progress.CurrentModuleID != nil {
		t.Fatal("unstarted path should have no current module")
	}
}
