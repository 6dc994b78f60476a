package recommend

import (
	"context"
	"math/rand"
	"sort"

	"shopRecs/domain"
)

// In-memory repository fakes shared by the package tests.

type fakeProductRepo struct {
	products []domain.Product

	findAllErr error
}

func (f *fakeProductRepo) byID(id uint64) (domain.Product, bool) {
	for _, p := range f.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

func (f *fakeProductRepo) FindByID(_ context.Context, id uint64) (domain.Product, error) {
	if p, ok := f.byID(id); ok {
		return p, nil
	}
	return domain.Product{}, domain.ErrNotFound
}

func (f *fakeProductRepo) FindByIDs(_ context.Context, ids []uint64) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := f.byID(id); ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) FindAll(_ context.Context) ([]domain.Product, error) {
	if f.findAllErr != nil {
		return nil, f.findAllErr
	}
	return append([]domain.Product(nil), f.products...), nil
}

func (f *fakeProductRepo) FindByCategories(_ context.Context, categoryIDs []uint64, excludeIDs []uint64, limit int) ([]domain.Product, error) {
	cats := toSet(categoryIDs)
	excluded := toSet(excludeIDs)

	out := make([]domain.Product, 0)
	for _, p := range f.products {
		if _, ok := cats[p.CategoryID]; !ok {
			continue
		}
		if _, ok := excluded[p.ID]; ok {
			continue
		}
		out = append(out, p)
	}
	sortBySales(out)
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeProductRepo) FindTrending(_ context.Context, excludeIDs []uint64, limit int) ([]domain.Product, error) {
	excluded := toSet(excludeIDs)

	out := make([]domain.Product, 0)
	for _, p := range f.products {
		if _, ok := excluded[p.ID]; ok {
			continue
		}
		out = append(out, p)
	}
	sortBySales(out)
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeProductRepo) FindNewest(_ context.Context, limit int) ([]domain.Product, error) {
	out := append([]domain.Product(nil), f.products...)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

type fakeInteractionRepo struct {
	purchases    map[uint64][]uint64
	similarUsers []domain.UserCategoryCount
	userProducts []domain.Product
}

func (f *fakeInteractionRepo) PurchasedProductIDs(_ context.Context, userID uint64) ([]uint64, error) {
	return f.purchases[userID], nil
}

func (f *fakeInteractionRepo) UsersByPurchasedCategories(_ context.Context, _ []uint64, excludeUserID uint64, limit int) ([]domain.UserCategoryCount, error) {
	out := make([]domain.UserCategoryCount, 0, len(f.similarUsers))
	for _, u := range f.similarUsers {
		if u.UserID == excludeUserID {
			continue
		}
		out = append(out, u)
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeInteractionRepo) PurchasedProductsByUsers(_ context.Context, _ []uint64) ([]domain.Product, error) {
	return f.userProducts, nil
}

type fakeCategoryRepo struct {
	categories []domain.Category
}

func (f *fakeCategoryRepo) FindAll(_ context.Context) ([]domain.Category, error) {
	return f.categories, nil
}

type fakeLogRepo struct {
	appended []domain.RecommendationLog
	failures int
}

func (f *fakeLogRepo) Append(_ context.Context, rec *domain.RecommendationLog) error {
	if f.failures > 0 {
		f.failures--
		return domain.ErrStoreUnavailable
	}
	f.appended = append(f.appended, *rec)
	return nil
}

func toSet(ids []uint64) map[uint64]struct{} {
	set := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func sortBySales(products []domain.Product) {
	sort.Slice(products, func(i, j int) bool {
		if products[i].SalesCount != products[j].SalesCount {
			return products[i].SalesCount > products[j].SalesCount
		}
		if products[i].Rating != products[j].Rating {
			return products[i].Rating > products[j].Rating
		}
		return products[i].ID < products[j].ID
	})
}

func newTestService(products *fakeProductRepo, interactions *fakeInteractionRepo, categories *fakeCategoryRepo, logs *fakeLogRepo) *Service {
	if interactions == nil {
		interactions = &fakeInteractionRepo{purchases: map[uint64][]uint64{}}
	}
	if categories == nil {
		categories = &fakeCategoryRepo{}
	}
	if logs == nil {
		logs = &fakeLogRepo{}
	}

	cfg := DefaultConfig()
	cfg.Rand = func() *rand.Rand { return rand.New(rand.NewSource(42)) }

	return NewService(products, interactions, categories, logs, cfg)
}
