package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnloop/learnloop-backend/internal/domain"
	pkgerrors "github.com/learnloop/learnloop-backend/internal/pkg/errors"
	"github.com/learnloop/learnloop-backend/internal/platform/logger"
	"github.com/learnloop/learnloop-backend/internal/repos"
)

type RecordInteractionInput struct {
	UserID         uuid.UUID  `json:"user_id"`
	Type           string     `json:"type"`
	ResourceID     *uuid.UUID `json:"resource_id,omitempty"`
	ModuleID       *uuid.UUID `json:"module_id,omitempty"`
	LearningPathID *uuid.UUID `json:"learning_path_id,omitempty"`
	OccurredAt     *time.Time `json:"occurred_at,omitempty"`
}

type InteractionService interface {
	Record(ctx context.Context, input RecordInteractionInput) (*domain.Interaction, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Interaction, error)
	CreateBookmark(ctx context.Context, userID, resourceID uuid.UUID) (*domain.Bookmark, error)
	DeleteBookmark(ctx context.Context, userID, bookmarkID uuid.UUID) error
}

type interactionService struct {
	db           *gorm.DB
	log          *logger.Logger
	users        repos.UserRepo
	resources    repos.ResourceRepo
	modules      repos.ModuleRepo
	paths        repos.LearningPathRepo
	interactions repos.InteractionRepo
	bookmarks    repos.BookmarkRepo
}

func NewInteractionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	users repos.UserRepo,
	resources repos.ResourceRepo,
	modules repos.ModuleRepo,
	paths repos.LearningPathRepo,
	interactions repos.InteractionRepo,
	bookmarks repos.BookmarkRepo,
) InteractionService {
	return &interactionService{
		db:           db,
		log:          baseLog.With("service", "InteractionService"),
		users:        users,
		resources:    resources,
		modules:      modules,
		paths:        paths,
		interactions: interactions,
		bookmarks:    bookmarks,
	}
}

// Record appends one ledger event. Exactly one target must be set and both
// the user and the target must exist.
func (s *interactionService) Record(ctx context.Context, input RecordInteractionInput) (*domain.Interaction, error) {
	if input.UserID == uuid.Nil {
		return nil, fmt.Errorf("missing user id: %w", pkgerrors.ErrValidation)
	}
	if input.Type == "" {
		return nil, fmt.Errorf("missing interaction type: %w", pkgerrors.ErrValidation)
	}
	targets := 0
	for _, id := range []*uuid.UUID{input.ResourceID, input.ModuleID, input.LearningPathID} {
		if id != nil && *id != uuid.Nil {
			targets++
		}
	}
	if targets != 1 {
		return nil, fmt.Errorf("interaction must target exactly one of resource, module or learning path: %w", pkgerrors.ErrValidation)
	}

	users, err := s.users.GetByIDs(ctx, nil, []uuid.UUID{input.UserID})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("user %s: %w", input.UserID, pkgerrors.ErrNotFound)
	}
	if err := s.targetExists(ctx, input); err != nil {
		return nil, err
	}

	occurredAt := time.Now().UTC()
	if input.OccurredAt != nil {
		occurredAt = input.OccurredAt.UTC()
	}
	rows, err := s.interactions.Create(ctx, nil, []*domain.Interaction{{
		UserID:         input.UserID,
		ResourceID:     input.ResourceID,
		ModuleID:       input.ModuleID,
		LearningPathID: input.LearningPathID,
		Type:           input.Type,
		OccurredAt:     occurredAt,
	}})
	if err != nil {
		return nil, err
	}
	return rows[0], nil
}

func (s *interactionService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Interaction, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user id: %w", pkgerrors.ErrValidation)
	}
	return s.interactions.GetByUserID(ctx, nil, userID)
}

// CreateBookmark writes the bookmark row and its paired ledger event
// atomically. A second bookmark of the same resource conflicts.
func (s *interactionService) CreateBookmark(ctx context.Context, userID, resourceID uuid.UUID) (*domain.Bookmark, error) {
	if userID == uuid.Nil || resourceID == uuid.Nil {
		return nil, fmt.Errorf("missing user or resource id: %w", pkgerrors.ErrValidation)
	}

	resources, err := s.resources.GetByIDs(ctx, nil, []uuid.UUID{resourceID})
	if err != nil {
		return nil, err
	}
	if len(resources) == 0 {
		return nil, fmt.Errorf("resource %s: %w", resourceID, pkgerrors.ErrNotFound)
	}

	var created *domain.Bookmark
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.bookmarks.GetByUserAndResource(ctx, tx, userID, resourceID)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("resource %s already bookmarked: %w", resourceID, pkgerrors.ErrConflict)
		}

		rid := resourceID
		rows, err := s.interactions.Create(ctx, tx, []*domain.Interaction{{
			UserID:     userID,
			ResourceID: &rid,
			Type:       domain.InteractionBookmark,
			OccurredAt: time.Now().UTC(),
		}})
		if err != nil {
			return err
		}

		created, err = s.bookmarks.Create(ctx, tx, &domain.Bookmark{
			UserID:        userID,
			ResourceID:    resourceID,
			InteractionID: rows[0].ID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// DeleteBookmark removes the bookmark and its paired ledger event so the
// weighting model stops counting it.
func (s *interactionService) DeleteBookmark(ctx context.Context, userID, bookmarkID uuid.UUID) error {
	if userID == uuid.Nil || bookmarkID == uuid.Nil {
		return fmt.Errorf("missing user or bookmark id: %w", pkgerrors.ErrValidation)
	}

	rows, err := s.bookmarks.GetByIDs(ctx, nil, []uuid.UUID{bookmarkID})
	if err != nil {
		return err
	}
	if len(rows) == 0 || rows[0].UserID != userID {
		return fmt.Errorf("bookmark %s: %w", bookmarkID, pkgerrors.ErrNotFound)
	}
	bookmark := rows[0]

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.bookmarks.FullDeleteByIDs(ctx, tx, []uuid.UUID{bookmark.ID}); err != nil {
			return err
		}
		if bookmark.InteractionID != uuid.Nil {
			if err := s.interactions.FullDeleteByIDs(ctx, tx, []uuid.UUID{bookmark.InteractionID}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *interactionService) targetExists(ctx context.Context, input RecordInteractionInput) error {
	switch {
	case input.ResourceID != nil:
		rows, err := s.resources.GetByIDs(ctx, nil, []uuid.UUID{*input.ResourceID})
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return fmt.Errorf("resource %s: %w", *input.ResourceID, pkgerrors.ErrNotFound)
		}
	case input.ModuleID != nil:
		rows, err := s.modules.GetByIDs(ctx, nil, []uuid.UUID{*input.ModuleID})
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return fmt.Errorf("module %s: %w", *input.ModuleID, pkgerrors.ErrNotFound)
		}
	case input.LearningPathID != nil:
		rows, err := s.paths.GetByIDs(ctx, nil, []uuid.UUID{*input.LearningPathID})
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return fmt.Errorf("learning path %s: %w", *input.LearningPathID, pkgerrors.ErrNotFound)
		}
	}
	return nil
}
