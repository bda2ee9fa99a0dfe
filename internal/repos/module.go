package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnloop/learnloop-backend/internal/domain"
	"github.com/learnloop/learnloop-backend/internal/platform/logger"
)

type ModuleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, modules []*domain.Module) ([]*domain.Module, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.Module, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*domain.Module, error)
	AttachResource(ctx context.Context, tx *gorm.DB, link *domain.ModuleResource) (*domain.ModuleResource, error)
	ListResources(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) ([]*domain.ModuleResource, error)
	ListAllResourceLinks(ctx context.Context, tx *gorm.DB) ([]*domain.ModuleResource, error)
}

type moduleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewModuleRepo(db *gorm.DB, baseLog *logger.Logger) ModuleRepo {
	return &moduleRepo{db: db, log: baseLog.With("repo", "ModuleRepo")}
}

func (r *moduleRepo) Create(ctx context.Context, tx *gorm.DB, modules []*domain.Module) ([]*domain.Module, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(modules) == 0 {
		return []*domain.Module{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}

func (r *moduleRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.Module, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Module
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

func (r *moduleRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*domain.Module, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Module
	if err := transaction.WithContext(ctx).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *moduleRepo) AttachResource(ctx context.Context, tx *gorm.DB, link *domain.ModuleResource) (*domain.ModuleResource, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(link).Error; err != nil {
		return nil, err
	}
	return link, nil
}

func (r *moduleRepo) ListResources(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) ([]*domain.ModuleResource, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.ModuleResource
	if moduleID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("module_id = ?", moduleID).
		Order("position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *moduleRepo) ListAllResourceLinks(ctx context.Context, tx *gorm.DB) ([]*domain.ModuleResource, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.ModuleResource
	if err := transaction.WithContext(ctx).
		Order("module_id ASC, position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
