package postgres

import (
	"context"
	"fmt"
	"shopRecs/domain"

	"gorm.io/gorm"
)

type RecommendationLogRepository struct {
	DB *gorm.DB
}

func NewRecommendationLogRepository(db *gorm.DB) *RecommendationLogRepository {
	return &RecommendationLogRepository{
		DB: db,
	}
}

// Append inserts one decision row. The table is append-only; there is no
// update or delete method on purpose.
func (r *RecommendationLogRepository) Append(ctx context.Context, rec *domain.RecommendationLog) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to append recommendation log: %w: %v", domain.ErrStoreUnavailable, err)
	}

	return nil
}

func (r *RecommendationLogRepository) FindAll(ctx context.Context) ([]domain.RecommendationLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var logs []domain.RecommendationLog
	err := r.DB.WithContext(ctx).Order("created_at ASC").Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recommendation logs: %w: %v", domain.ErrStoreUnavailable, err)
	}

	return logs, nil
}
