package recommend

import (
	"context"
	"errors"
	"math/rand"
	"sync/atomic"
	"time"

	"shopRecs/domain"
)

// ---- Repository interfaces ----

type ProductRepository interface {
	FindByID(ctx context.Context, id uint64) (domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
	// FindByCategories returns products inside the given categories, skipping
	// excludeIDs, ordered by sales count then rating descending.
	FindByCategories(ctx context.Context, categoryIDs []uint64, excludeIDs []uint64, limit int) ([]domain.Product, error)
	// FindTrending returns products ordered by sales count, rating and
	// recency descending, skipping excludeIDs.
	FindTrending(ctx context.Context, excludeIDs []uint64, limit int) ([]domain.Product, error)
	FindNewest(ctx context.Context, limit int) ([]domain.Product, error)
}

type InteractionRepository interface {
	// PurchasedProductIDs returns the distinct product ids the user has
	// purchased, the user's seed set.
	PurchasedProductIDs(ctx context.Context, userID uint64) ([]uint64, error)
	// UsersByPurchasedCategories returns other users ranked by how many
	// purchases they made inside the given categories.
	UsersByPurchasedCategories(ctx context.Context, categoryIDs []uint64, excludeUserID uint64, limit int) ([]domain.UserCategoryCount, error)
	// PurchasedProductsByUsers returns the distinct products purchased by any
	// of the given users.
	PurchasedProductsByUsers(ctx context.Context, userIDs []uint64) ([]domain.Product, error)
}

type CategoryRepository interface {
	FindAll(ctx context.Context) ([]domain.Category, error)
}

type LogRepository interface {
	Append(ctx context.Context, rec *domain.RecommendationLog) error
}

// ---- Usecase / Service ----

type Service struct {
	productRepo     ProductRepository
	interactionRepo InteractionRepository
	categoryRepo    CategoryRepository
	logRepo         LogRepository
	cfg             Config

	seq uint64
}

func NewService(
	productRepo ProductRepository,
	interactionRepo InteractionRepository,
	categoryRepo CategoryRepository,
	logRepo LogRepository,
	cfg Config,
) *Service {
	return &Service{
		productRepo:     productRepo,
		interactionRepo: interactionRepo,
		categoryRepo:    categoryRepo,
		logRepo:         logRepo,
		cfg:             cfg,
	}
}

// rng hands out a fresh random source per logical call so parallel requests
// never share random state. Tests inject a deterministic factory via
// Config.Rand.
func (s *Service) rng() *rand.Rand {
	if s.cfg.Rand != nil {
		return s.cfg.Rand()
	}

	seed := time.Now().UnixNano() + int64(atomic.AddUint64(&s.seq, 1))
	return rand.New(rand.NewSource(seed))
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
