package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnloop/learnloop-backend/internal/domain"
	"github.com/learnloop/learnloop-backend/internal/platform/logger"
)

type AssessmentResultRepo interface {
	Create(ctx context.Context, tx *gorm.DB, results []*domain.AssessmentResult) ([]*domain.AssessmentResult, error)
	CountAttempts(ctx context.Context, tx *gorm.DB, userID, assessmentID, moduleID uuid.UUID) (int64, error)
	GetLatest(ctx context.Context, tx *gorm.DB, userID, assessmentID uuid.UUID) (*domain.AssessmentResult, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.AssessmentResult, error)
}

type assessmentResultRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssessmentResultRepo(db *gorm.DB, baseLog *logger.Logger) AssessmentResultRepo {
	return &assessmentResultRepo{db: db, log: baseLog.With("repo", "AssessmentResultRepo")}
}

func (r *assessmentResultRepo) Create(ctx context.Context, tx *gorm.DB, results []*domain.AssessmentResult) ([]*domain.AssessmentResult, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(results) == 0 {
		return []*domain.AssessmentResult{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *assessmentResultRepo) CountAttempts(ctx context.Context, tx *gorm.DB, userID, assessmentID, moduleID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&domain.AssessmentResult{}).
		Where("user_id = ? AND assessment_id = ? AND module_id = ?", userID, assessmentID, moduleID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GetLatest returns the most recent result by submission time, nil when the
// user has never attempted the assessment.
func (r *assessmentResultRepo) GetLatest(ctx context.Context, tx *gorm.DB, userID, assessmentID uuid.UUID) (*domain.AssessmentResult, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.AssessmentResult
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND assessment_id = ?", userID, assessmentID).
		Order("submitted_at DESC, attempt DESC").
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *assessmentResultRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.AssessmentResult, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.AssessmentResult
	if userID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("submitted_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
