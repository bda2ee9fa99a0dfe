package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnloop/learnloop-backend/internal/domain"
	"github.com/learnloop/learnloop-backend/internal/platform/logger"
)

type SearchAuditRepo interface {
	Create(ctx context.Context, tx *gorm.DB, audit *domain.SearchAudit) (*domain.SearchAudit, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.SearchAudit, error)
}

type searchAuditRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSearchAuditRepo(db *gorm.DB, baseLog *logger.Logger) SearchAuditRepo {
	return &searchAuditRepo{db: db, log: baseLog.With("repo", "SearchAuditRepo")}
}

func (r *searchAuditRepo) Create(ctx context.Context, tx *gorm.DB, audit *domain.SearchAudit) (*domain.SearchAudit, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(audit).Error; err != nil {
		return nil, err
	}
	return audit, nil
}

func (r *searchAuditRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.SearchAudit, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.SearchAudit
	if userID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
