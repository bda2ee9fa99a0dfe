package graph

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/learnloop/learnloop-backend/internal/domain"
	pkgerrors "github.com/learnloop/learnloop-backend/internal/pkg/errors"
	"github.com/learnloop/learnloop-backend/internal/platform/logger"
	"github.com/learnloop/learnloop-backend/internal/scoring"
)

func TestResourceRowRejectsMissingTitle(t *testing.T) {
	now := time.Now()
	if _, err := resourceRow(&domain.Resource{ID: uuid.New(), Title: "  "}, now); err == nil {
		t.Fatal("expected error for resource without title")
	}
	if _, err := resourceRow(&domain.Resource{Title: "ok"}, now); err == nil {
		t.Fatal("expected error for resource without id")
	}
	if _, err := resourceRow(nil, now); err == nil {
		t.Fatal("expected error for nil resource")
	}
}

func TestResourceRowShape(t *testing.T) {
	now := time.Now()
	r := &domain.Resource{
		ID:         uuid.New(),
		Title:      "Intro to Cypher",
		Type:       "article",
		Categories: domain.MustJSON([]string{"databases"}),
		Tags:       domain.MustJSON([]string{"neo4j"}),
		Visibility: domain.VisibilityPublic,
	}
	row, err := resourceRow(r, now)
	if err != nil {
		t.Fatalf("resourceRow: %v", err)
	}
	if row["id"] != r.ID.String() {
		t.Fatalf("id = %v, want %v", row["id"], r.ID)
	}
	cats, ok := row["categories"].([]string)
	if !ok || len(cats) != 1 || cats[0] != "databases" {
		t.Fatalf("categories = %v, want [databases]", row["categories"])
	}
	if _, ok := row["synced_at"].(string); !ok {
		t.Fatal("synced_at stamp missing")
	}
}

func TestInteractionRowTargetLabels(t *testing.T) {
	cfg := scoring.Default()
	now := time.Now()
	rid, mid, pid := uuid.New(), uuid.New(), uuid.New()

	cases := []struct {
		name      string
		row       *domain.Interaction
		wantLabel string
	}{
		{"resource", &domain.Interaction{ID: uuid.New(), UserID: uuid.New(), ResourceID: &rid, Type: domain.InteractionView, OccurredAt: now}, "Resource"},
		{"module", &domain.Interaction{ID: uuid.New(), UserID: uuid.New(), ModuleID: &mid, Type: domain.InteractionCompleteModule, OccurredAt: now}, "Module"},
		{"path", &domain.Interaction{ID: uuid.New(), UserID: uuid.New(), LearningPathID: &pid, Type: domain.InteractionCompletePath, OccurredAt: now}, "LearningPath"},
	}
	for _, c := range cases {
		row, label, err := interactionRow(c.row, cfg, now)
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if label != c.wantLabel {
			t.Fatalf("%s: label = %s, want %s", c.name, label, c.wantLabel)
		}
		weight, ok := row["weight"].(float64)
		if !ok || weight <= 0 {
			t.Fatalf("%s: weight = %v, want positive float", c.name, row["weight"])
		}
	}
}

func TestInteractionRowRejectsMissingTarget(t *testing.T) {
	cfg := scoring.Default()
	now := time.Now()
	bad := &domain.Interaction{ID: uuid.New(), UserID: uuid.New(), Type: domain.InteractionView, OccurredAt: now}
	if _, _, err := interactionRow(bad, cfg, now); err == nil {
		t.Fatal("expected error for interaction without target")
	}
}

func TestInteractionRowWeightDecays(t *testing.T) {
	cfg := scoring.Default()
	now := time.Now()
	rid := uuid.New()

	fresh := &domain.Interaction{ID: uuid.New(), UserID: uuid.New(), ResourceID: &rid, Type: domain.InteractionView, OccurredAt: now}
	stale := &domain.Interaction{ID: uuid.New(), UserID: uuid.New(), ResourceID: &rid, Type: domain.InteractionView, OccurredAt: now.AddDate(0, 0, -30)}

	freshRow, _, err := interactionRow(fresh, cfg, now)
	if err != nil {
		t.Fatalf("fresh: %v", err)
	}
	staleRow, _, err := interactionRow(stale, cfg, now)
	if err != nil {
		t.Fatalf("stale: %v", err)
	}

	fw := freshRow["weight"].(float64)
	sw := staleRow["weight"].(float64)
	if fw <= sw {
		t.Fatalf("fresh weight %v should exceed stale weight %v", fw, sw)
	}
	if sw != cfg.ViewWeight {
		t.Fatalf("stale weight = %v, want base %v", sw, cfg.ViewWeight)
	}
}

func TestSyncWithoutClientIsBackendUnavailable(t *testing.T) {
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	p := NewProjector(nil, scoring.Default(), log, nil, nil, nil, nil, nil, nil)

	if _, err := p.Sync(context.Background()); !errors.Is(err, pkgerrors.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable without a graph client, got %v", err)
	}
}
