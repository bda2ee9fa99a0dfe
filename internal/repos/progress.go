package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/learnloop/learnloop-backend/internal/domain"
	"github.com/learnloop/learnloop-backend/internal/platform/logger"
)

type ProgressRepo interface {
	GetPathProgress(ctx context.Context, tx *gorm.DB, userID, pathID uuid.UUID) (*domain.LearningPathProgress, error)
	// GetPathProgressForUpdate takes a row lock; only valid inside a
	// transaction. Serializes racing submissions for the same (user, path).
	GetPathProgressForUpdate(ctx context.Context, tx *gorm.DB, userID, pathID uuid.UUID) (*domain.LearningPathProgress, error)
	CreatePathProgress(ctx context.Context, tx *gorm.DB, progress *domain.LearningPathProgress) (*domain.LearningPathProgress, error)
	SavePathProgress(ctx context.Context, tx *gorm.DB, progress *domain.LearningPathProgress) error
	ListPathProgressByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.LearningPathProgress, error)

	CreateModuleProgress(ctx context.Context, tx *gorm.DB, rows []*domain.ModuleProgress) ([]*domain.ModuleProgress, error)
	GetModuleProgress(ctx context.Context, tx *gorm.DB, userID, pathID, moduleID uuid.UUID) (*domain.ModuleProgress, error)
	ListModuleProgress(ctx context.Context, tx *gorm.DB, userID, pathID uuid.UUID) ([]*domain.ModuleProgress, error)
	ListModuleProgressByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.ModuleProgress, error)
	SaveModuleProgress(ctx context.Context, tx *gorm.DB, row *domain.ModuleProgress) error
}

type progressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgressRepo(db *gorm.DB, baseLog *logger.Logger) ProgressRepo {
	return &progressRepo{db: db, log: baseLog.With("repo", "ProgressRepo")}
}

func (r *progressRepo) GetPathProgress(ctx context.Context, tx *gorm.DB, userID, pathID uuid.UUID) (*domain.LearningPathProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.LearningPathProgress
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND learning_path_id = ?", userID, pathID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *progressRepo) GetPathProgressForUpdate(ctx context.Context, tx *gorm.DB, userID, pathID uuid.UUID) (*domain.LearningPathProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.LearningPathProgress
	if err := transaction.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND learning_path_id = ?", userID, pathID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *progressRepo) CreatePathProgress(ctx context.Context, tx *gorm.DB, progress *domain.LearningPathProgress) (*domain.LearningPathProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(progress).Error; err != nil {
		return nil, err
	}
	return progress, nil
}

func (r *progressRepo) SavePathProgress(ctx context.Context, tx *gorm.DB, progress *domain.LearningPathProgress) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).Save(progress).Error
}

func (r *progressRepo) ListPathProgressByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.LearningPathProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.LearningPathProgress
	if userID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *progressRepo) CreateModuleProgress(ctx context.Context, tx *gorm.DB, rows []*domain.ModuleProgress) ([]*domain.ModuleProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*domain.ModuleProgress{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *progressRepo) GetModuleProgress(ctx context.Context, tx *gorm.DB, userID, pathID, moduleID uuid.UUID) (*domain.ModuleProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.ModuleProgress
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND learning_path_id = ? AND module_id = ?", userID, pathID, moduleID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *progressRepo) ListModuleProgress(ctx context.Context, tx *gorm.DB, userID, pathID uuid.UUID) ([]*domain.ModuleProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.ModuleProgress
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND learning_path_id = ?", userID, pathID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *progressRepo) ListModuleProgressByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.ModuleProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.ModuleProgress
	if userID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *progressRepo) SaveModuleProgress(ctx context.Context, tx *gorm.DB, row *domain.ModuleProgress) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).Save(row).Error
}
