package scoring

import (
	"time"

	"github.com/learnloop/learnloop-backend/internal/domain"
)

// BaseWeight maps an interaction type to its base importance. Unknown
// types fall back to DefaultWeight.
func (c Config) BaseWeight(interactionType string) float64 {
	switch interactionType {
	case domain.InteractionView:
		return c.ViewWeight
	case domain.InteractionStart:
		return c.StartWeight
	case domain.InteractionBookmark:
		return c.BookmarkWeight
	case domain.InteractionCompleteModule:
		return c.CompleteModuleWeight
	case domain.InteractionCompletePath:
		return c.CompletePathWeight
	}
	return c.DefaultWeight
}

// Weight is the decayed interaction weight: base × max(1, horizon − days).
// The multiplier decays linearly over the horizon window and floors at 1,
// so an old interaction is never worth less than its base weight.
func (c Config) Weight(interactionType string, occurredAt, now time.Time) float64 {
	base := c.BaseWeight(interactionType)

	days := int(now.Sub(occurredAt).Hours() / 24)
	if days < 0 {
		days = 0
	}
	recency := float64(c.RecencyHorizonDays - days)
	if recency < 1 {
		recency = 1
	}
	return base * recency
}
