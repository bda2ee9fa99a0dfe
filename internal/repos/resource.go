package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnloop/learnloop-backend/internal/domain"
	"github.com/learnloop/learnloop-backend/internal/platform/logger"
)

type ResourceRepo interface {
	Create(ctx context.Context, tx *gorm.DB, resources []*domain.Resource) ([]*domain.Resource, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.Resource, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*domain.Resource, error)
	ListPublic(ctx context.Context, tx *gorm.DB) ([]*domain.Resource, error)
}

type resourceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewResourceRepo(db *gorm.DB, baseLog *logger.Logger) ResourceRepo {
	return &resourceRepo{db: db, log: baseLog.With("repo", "ResourceRepo")}
}

func (r *resourceRepo) Create(ctx context.Context, tx *gorm.DB, resources []*domain.Resource) ([]*domain.Resource, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(resources) == 0 {
		return []*domain.Resource{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&resources).Error; err != nil {
		return nil, err
	}
	return resources, nil
}

func (r *resourceRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.Resource, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Resource
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

func (r *resourceRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*domain.Resource, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Resource
	if err := transaction.WithContext(ctx).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *resourceRepo) ListPublic(ctx context.Context, tx *gorm.DB) ([]*domain.Resource, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Resource
	if err := transaction.WithContext(ctx).
		Where("visibility = ?", domain.VisibilityPublic).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
