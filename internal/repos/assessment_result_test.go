package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/learnloop/learnloop-backend/internal/domain"
	"github.com/learnloop/learnloop-backend/internal/repos/testutil"
)

func TestCountAttemptsAndGetLatest(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "attempts@example.com")
	module := testutil.SeedModule(t, ctx, tx, "Gated")
	assessment := testutil.SeedAssessment(t, ctx, tx, module.ID, map[string]string{"q1": "a"}, 60)

	repo := NewAssessmentResultRepo(tx, log)

	count, err := repo.CountAttempts(ctx, nil, user.ID, assessment.ID, module.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("fresh count = %d, want 0", count)
	}
	latest, err := repo.GetLatest(ctx, nil, user.ID, assessment.ID)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest != nil {
		t.Fatalf("latest on empty history = %v, want nil", latest)
	}

	now := time.Now().UTC()
	for i := 1; i <= 2; i++ {
		if _, err := repo.Create(ctx, nil, []*domain.AssessmentResult{{
			ID:           uuid.New(),
			UserID:       user.ID,
			AssessmentID: assessment.ID,
			ModuleID:     module.ID,
			Score:        float64(40 * i),
			Passed:       i == 2,
			Attempt:      i,
			SubmittedAt:  now.Add(time.Duration(i) * time.Minute),
		}}); err != nil {
			t.Fatalf("create attempt %d: %v", i, err)
		}
	}

	count, err = repo.CountAttempts(ctx, nil, user.ID, assessment.ID, module.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}

	latest, err = repo.GetLatest(ctx, nil, user.ID, assessment.ID)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest == nil || latest.Attempt != 2 || !latest.Passed {
		t.Fatalf("latest = %+v, want the second attempt", latest)
	}
}
