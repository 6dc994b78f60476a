package postgres

import (
	"context"
	"errors"
	"fmt"
	"shopRecs/domain"

	"gorm.io/gorm"
)

type ProductRepository struct {
	DB *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{
		DB: db,
	}
}

func (r *ProductRepository) FindByID(ctx context.Context, id uint64) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("context error: %w", err)
	}

	var product domain.Product

	err := r.DB.WithContext(ctx).First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Product{}, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
		}
		return domain.Product{}, fmt.Errorf("failed to find product: %w: %v", domain.ErrStoreUnavailable, err)
	}

	return product, nil
}

func (r *ProductRepository) FindByIDs(ctx context.Context, ids []uint64) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	var products []domain.Product
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find products by ids: %w: %v", domain.ErrStoreUnavailable, err)
	}

	return products, nil
}

func (r *ProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var products []domain.Product
	err := r.DB.WithContext(ctx).Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w: %v", domain.ErrStoreUnavailable, err)
	}

	return products, nil
}

// FindByCategories returns products inside the category set ordered best
// sellers first, excluding the given ids.
func (r *ProductRepository) FindByCategories(ctx context.Context, categoryIDs []uint64, excludeIDs []uint64, limit int) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if len(categoryIDs) == 0 {
		return []domain.Product{}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	q := r.DB.WithContext(ctx).
		Where("category_id IN ?", categoryIDs).
		Order("sales_count DESC").
		Order("rating DESC").
		Limit(limit)
	if len(excludeIDs) > 0 {
		q = q.Where("id NOT IN ?", excludeIDs)
	}

	var products []domain.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find products by categories: %w: %v", domain.ErrStoreUnavailable, err)
	}

	return products, nil
}

func (r *ProductRepository) FindTrending(ctx context.Context, excludeIDs []uint64, limit int) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if limit <= 0 {
		limit = 10
	}

	q := r.DB.WithContext(ctx).
		Order("sales_count DESC").
		Order("rating DESC").
		Order("created_at DESC").
		Limit(limit)
	if len(excludeIDs) > 0 {
		q = q.Where("id NOT IN ?", excludeIDs)
	}

	var products []domain.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find trending products: %w: %v", domain.ErrStoreUnavailable, err)
	}

	return products, nil
}

func (r *ProductRepository) FindNewest(ctx context.Context, limit int) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if limit <= 0 {
		limit = 10
	}

	var products []domain.Product
	err := r.DB.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find newest products: %w: %v", domain.ErrStoreUnavailable, err)
	}

	return products, nil
}

func (r *ProductRepository) Count(ctx context.Context, categoryIDs []uint64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	q := r.DB.WithContext(ctx).Model(&domain.Product{})
	if len(categoryIDs) > 0 {
		q = q.Where("category_id IN ?", categoryIDs)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w: %v", domain.ErrStoreUnavailable, err)
	}

	return count, nil
}
