package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnloop/learnloop-backend/internal/domain"
	"github.com/learnloop/learnloop-backend/internal/platform/logger"
)

type LearningPathRepo interface {
	Create(ctx context.Context, tx *gorm.DB, paths []*domain.LearningPath) ([]*domain.LearningPath, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.LearningPath, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*domain.LearningPath, error)
	AttachModule(ctx context.Context, tx *gorm.DB, link *domain.LearningPathModule) (*domain.LearningPathModule, error)
	ListModules(ctx context.Context, tx *gorm.DB, pathID uuid.UUID) ([]*domain.LearningPathModule, error)
	ListAllModuleLinks(ctx context.Context, tx *gorm.DB) ([]*domain.LearningPathModule, error)
}

type learningPathRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLearningPathRepo(db *gorm.DB, baseLog *logger.Logger) LearningPathRepo {
	return &learningPathRepo{db: db, log: baseLog.With("repo", "LearningPathRepo")}
}

func (r *learningPathRepo) Create(ctx context.Context, tx *gorm.DB, paths []*domain.LearningPath) ([]*domain.LearningPath, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(paths) == 0 {
		return []*domain.LearningPath{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&paths).Error; err != nil {
		return nil, err
	}
	return paths, nil
}

func (r *learningPathRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.LearningPath, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.LearningPath
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

func (r *learningPathRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*domain.LearningPath, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.LearningPath
	if err := transaction.WithContext(ctx).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *learningPathRepo) AttachModule(ctx context.Context, tx *gorm.DB, link *domain.LearningPathModule) (*domain.LearningPathModule, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(link).Error; err != nil {
		return nil, err
	}
	return link, nil
}

// ListModules returns the path membership in declared order.
func (r *learningPathRepo) ListModules(ctx context.Context, tx *gorm.DB, pathID uuid.UUID) ([]*domain.LearningPathModule, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.LearningPathModule
	if pathID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("learning_path_id = ?", pathID).
		Order("position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *learningPathRepo) ListAllModuleLinks(ctx context.Context, tx *gorm.DB) ([]*domain.LearningPathModule, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.LearningPathModule
	if err := transaction.WithContext(ctx).
		Order("learning_path_id ASC, position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
