package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnloop/learnloop-backend/internal/domain"
	"github.com/learnloop/learnloop-backend/internal/platform/logger"
)

type AssessmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, assessments []*domain.Assessment) ([]*domain.Assessment, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.Assessment, error)
	GetByModuleIDs(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) ([]*domain.Assessment, error)
}

type assessmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssessmentRepo(db *gorm.DB, baseLog *logger.Logger) AssessmentRepo {
	return &assessmentRepo{db: db, log: baseLog.With("repo", "AssessmentRepo")}
}

func (r *assessmentRepo) Create(ctx context.Context, tx *gorm.DB, assessments []*domain.Assessment) ([]*domain.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(assessments) == 0 {
		return []*domain.Assessment{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&assessments).Error; err != nil {
		return nil, err
	}
	return assessments, nil
}

func (r *assessmentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Assessment
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

func (r *assessmentRepo) GetByModuleIDs(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) ([]*domain.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Assessment
	if len(moduleIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("module_id IN ?", moduleIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
