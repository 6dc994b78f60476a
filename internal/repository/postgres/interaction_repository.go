package postgres

import (
	"context"
	"fmt"
	"shopRecs/domain"

	"gorm.io/gorm"
)

type InteractionRepository struct {
	DB *gorm.DB
}

func NewInteractionRepository(db *gorm.DB) *InteractionRepository {
	return &InteractionRepository{
		DB: db,
	}
}

func (r *InteractionRepository) Create(ctx context.Context, interaction *domain.Interaction) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(interaction).Error; err != nil {
		return fmt.Errorf("failed to create interaction: %w: %v", domain.ErrStoreUnavailable, err)
	}

	return nil
}

// PurchasedProductIDs returns the distinct products the user purchased.
func (r *InteractionRepository) PurchasedProductIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var ids []uint64
	err := r.DB.WithContext(ctx).
		Model(&domain.Interaction{}).
		Distinct("product_id").
		Where("user_id = ?", userID).
		Where("kind = ?", domain.InteractionPurchase).
		Pluck("product_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load purchased product ids: %w: %v", domain.ErrStoreUnavailable, err)
	}

	return ids, nil
}

// UsersByPurchasedCategories ranks other users by how many purchases they
// made inside the given categories.
func (r *InteractionRepository) UsersByPurchasedCategories(ctx context.Context, categoryIDs []uint64, excludeUserID uint64, limit int) ([]domain.UserCategoryCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if len(categoryIDs) == 0 {
		return []domain.UserCategoryCount{}, nil
	}
	if limit <= 0 {
		limit = 20
	}

	var rows []domain.UserCategoryCount
	err := r.DB.WithContext(ctx).
		Model(&domain.Interaction{}).
		Select("interactions.user_id AS user_id, COUNT(*) AS match_count").
		Joins("JOIN products ON products.id = interactions.product_id").
		Where("interactions.kind = ?", domain.InteractionPurchase).
		Where("interactions.user_id <> ?", excludeUserID).
		Where("products.category_id IN ?", categoryIDs).
		Group("interactions.user_id").
		Order("match_count DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find similar users: %w: %v", domain.ErrStoreUnavailable, err)
	}

	return rows, nil
}

// PurchasedProductsByUsers returns the distinct products purchased by any of
// the given users.
func (r *InteractionRepository) PurchasedProductsByUsers(ctx context.Context, userIDs []uint64) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if len(userIDs) == 0 {
		return []domain.Product{}, nil
	}

	var products []domain.Product
	err := r.DB.WithContext(ctx).
		Model(&domain.Product{}).
		Distinct("products.*").
		Joins("JOIN interactions ON interactions.product_id = products.id").
		Where("interactions.kind = ?", domain.InteractionPurchase).
		Where("interactions.user_id IN ?", userIDs).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load purchases of similar users: %w: %v", domain.ErrStoreUnavailable, err)
	}

	return products, nil
}
