package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnloop/learnloop-backend/internal/domain"
	"github.com/learnloop/learnloop-backend/internal/platform/logger"
)

type BookmarkRepo interface {
	Create(ctx context.Context, tx *gorm.DB, bookmark *domain.Bookmark) (*domain.Bookmark, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.Bookmark, error)
	GetByUserAndResource(ctx context.Context, tx *gorm.DB, userID, resourceID uuid.UUID) (*domain.Bookmark, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*domain.Bookmark, error)
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type bookmarkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBookmarkRepo(db *gorm.DB, baseLog *logger.Logger) BookmarkRepo {
	return &bookmarkRepo{db: db, log: baseLog.With("repo", "BookmarkRepo")}
}

func (r *bookmarkRepo) Create(ctx context.Context, tx *gorm.DB, bookmark *domain.Bookmark) (*domain.Bookmark, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(bookmark).Error; err != nil {
		return nil, err
	}
	return bookmark, nil
}

func (r *bookmarkRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.Bookmark, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Bookmark
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *bookmarkRepo) GetByUserAndResource(ctx context.Context, tx *gorm.DB, userID, resourceID uuid.UUID) (*domain.Bookmark, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Bookmark
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND resource_id = ?", userID, resourceID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *bookmarkRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*domain.Bookmark, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Bookmark
	if err := transaction.WithContext(ctx).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *bookmarkRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Unscoped().
		Where("id IN ?", ids).
		Delete(&domain.Bookmark{}).Error; err != nil {
		return err
	}
	return nil
}
