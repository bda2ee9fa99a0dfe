package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnloop/learnloop-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *domain.User {
	tb.Helper()
	u := &domain.User{
		ID:             uuid.New(),
		Email:          email,
		FirstName:      "A",
		LastName:       "B",
		EducationLevel: "undergraduate",
		TopicInterests: domain.MustJSON([]string{"databases"}),
		Language:       "en",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedResource(tb testing.TB, ctx context.Context, tx *gorm.DB, title string, categories, tags []string) *domain.Resource {
	tb.Helper()
	r := &domain.Resource{
		ID:         uuid.New(),
		Title:      title,
		Type:       "article",
		Categories: domain.MustJSON(categories),
		Tags:       domain.MustJSON(tags),
		Visibility: domain.VisibilityPublic,
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed resource: %v", err)
	}
	return r
}

func SeedModule(tb testing.TB, ctx context.Context, tx *gorm.DB, title string) *domain.Module {
	tb.Helper()
	m := &domain.Module{
		ID:    uuid.New(),
		Title: title,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed module: %v", err)
	}
	return m
}

func SeedLearningPath(tb testing.TB, ctx context.Context, tx *gorm.DB, title string) *domain.LearningPath {
	tb.Helper()
	p := &domain.LearningPath{
		ID:         uuid.New(),
		Title:      title,
		Visibility: domain.VisibilityPublic,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed learning path: %v", err)
	}
	return p
}

func AttachModuleToPath(tb testing.TB, ctx context.Context, tx *gorm.DB, pathID, moduleID uuid.UUID, position int) *domain.LearningPathModule {
	tb.Helper()
	link := &domain.LearningPathModule{
		ID:             uuid.New(),
		LearningPathID: pathID,
		ModuleID:       moduleID,
		Position:       position,
	}
	if err := tx.WithContext(ctx).Create(link).Error; err != nil {
		tb.Fatalf("attach module to path: %v", err)
	}
	return link
}

func AttachResourceToModule(tb testing.TB, ctx context.Context, tx *gorm.DB, moduleID, resourceID uuid.UUID, position int) *domain.ModuleResource {
	tb.Helper()
	link := &domain.ModuleResource{
		ID:         uuid.New(),
		ModuleID:   moduleID,
		ResourceID: resourceID,
		Position:   position,
	}
	if err := tx.WithContext(ctx).Create(link).Error; err != nil {
		tb.Fatalf("attach resource to module: %v", err)
	}
	return link
}

func SeedAssessment(tb testing.TB, ctx context.Context, tx *gorm.DB, moduleID uuid.UUID, solution map[string]string, passPercentage int) *domain.Assessment {
	tb.Helper()
	questions := make([]map[string]string, 0, len(solution))
	for qid := range solution {
		questions = append(questions, map[string]string{"id": qid, "prompt": "q"})
	}
	a := &domain.Assessment{
		ID:             uuid.New(),
		ModuleID:       moduleID,
		Title:          "checkpoint",
		Questions:      domain.MustJSON(questions),
		Solution:       domain.MustJSON(solution),
		PassPercentage: passPercentage,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed assessment: %v", err)
	}
	return a
}

func SeedInteraction(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, resourceID *uuid.UUID, kind string, occurredAt time.Time) *domain.Interaction {
	tb.Helper()
	i := &domain.Interaction{
		ID:         uuid.New(),
		UserID:     userID,
		ResourceID: resourceID,
		Type:       kind,
		OccurredAt: occurredAt,
	}
	if err := tx.WithContext(ctx).Create(i).Error; err != nil {
		tb.Fatalf("seed interaction: %v", err)
	}
	return i
}
