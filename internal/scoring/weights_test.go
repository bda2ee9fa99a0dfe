package scoring

import (
	"testing"
	"time"

	"github.com/learnloop/learnloop-backend/internal/domain"
)

func TestBaseWeightOrdering(t *testing.T) {
	cfg := Default()
	ordered := []string{
		domain.InteractionView,
		domain.InteractionStart,
		domain.InteractionBookmark,
		domain.InteractionCompleteModule,
		domain.InteractionCompletePath,
	}
	for i := 1; i < len(ordered); i++ {
		lo := cfg.BaseWeight(ordered[i-1])
		hi := cfg.BaseWeight(ordered[i])
		if lo >= hi {
			t.Fatalf("expected weight(%s)=%v < weight(%s)=%v", ordered[i-1], lo, ordered[i], hi)
		}
	}
}

func TestBaseWeightUnknownType(t *testing.T) {
	cfg := Default()
	got := cfg.BaseWeight("shrug")
	if got != cfg.DefaultWeight {
		t.Fatalf("unknown type weight = %v, want %v", got, cfg.DefaultWeight)
	}
	if got >= cfg.BaseWeight(domain.InteractionView) {
		t.Fatalf("unknown type weight %v should be below view weight %v", got, cfg.BaseWeight(domain.InteractionView))
	}
}

func TestWeightRecencyFloor(t *testing.T) {
	cfg := Default()
	now := time.Now()
	base := cfg.BaseWeight(domain.InteractionView)

	// Anything at or beyond the horizon keeps the base weight.
	for _, days := range []int{9, 10, 30, 365} {
		occurred := now.AddDate(0, 0, -days)
		got := cfg.Weight(domain.InteractionView, occurred, now)
		if got != base {
			t.Fatalf("weight at %d days = %v, want base %v", days, got, base)
		}
	}
}

func TestWeightRecencyScaling(t *testing.T) {
	cfg := Default()
	now := time.Now()

	today := cfg.Weight(domain.InteractionView, now, now)
	if want := cfg.ViewWeight * float64(cfg.RecencyHorizonDays); today != want {
		t.Fatalf("same-day weight = %v, want %v", today, want)
	}

	// Weight never increases as the interaction ages.
	prev := today
	for days := 1; days <= 12; days++ {
		got := cfg.Weight(domain.InteractionView, now.AddDate(0, 0, -days), now)
		if got > prev {
			t.Fatalf("weight increased from %v to %v at %d days", prev, got, days)
		}
		prev = got
	}
}

func TestWeightFutureTimestampClamped(t *testing.T) {
	cfg := Default()
	now := time.Now()
	future := cfg.Weight(domain.InteractionView, now.AddDate(0, 0, 3), now)
	today := cfg.Weight(domain.InteractionView, now, now)
	if future != today {
		t.Fatalf("future-dated weight = %v, want same-day weight %v", future, today)
	}
}
