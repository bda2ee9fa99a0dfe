package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnloop/learnloop-backend/internal/domain"
	"github.com/learnloop/learnloop-backend/internal/platform/logger"
)

type InteractionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, interactions []*domain.Interaction) ([]*domain.Interaction, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.Interaction, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*domain.Interaction, error)
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type interactionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInteractionRepo(db *gorm.DB, baseLog *logger.Logger) InteractionRepo {
	return &interactionRepo{db: db, log: baseLog.With("repo", "InteractionRepo")}
}

func (r *interactionRepo) Create(ctx context.Context, tx *gorm.DB, interactions []*domain.Interaction) ([]*domain.Interaction, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(interactions) == 0 {
		return []*domain.Interaction{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&interactions).Error; err != nil {
		return nil, err
	}
	return interactions, nil
}

func (r *interactionRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.Interaction, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Interaction
	if userID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("occurred_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *interactionRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*domain.Interaction, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Interaction
	if err := transaction.WithContext(ctx).
		Order("occurred_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *interactionRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&domain.Interaction{}).Error; err != nil {
		return err
	}
	return nil
}
