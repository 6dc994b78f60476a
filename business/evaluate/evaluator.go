package evaluate

import (
	"context"
	"fmt"
	"sort"
	"time"

	"shopRecs/domain"
	"shopRecs/pkg/logger"
)

// ---- Repository interfaces ----

type LogRepository interface {
	FindAll(ctx context.Context) ([]domain.RecommendationLog, error)
}

type ProductRepository interface {
	FindByID(ctx context.Context, id uint64) (domain.Product, error)
	FindByIDs(ctx context.Context, ids []uint64) ([]domain.Product, error)
}

type InteractionRepository interface {
	PurchasedProductIDs(ctx context.Context, userID uint64) ([]uint64, error)
}

// ---- Evaluator ----

const (
	// DefaultK is the rank cutoff for all metrics.
	DefaultK = 5
	// DefaultTitleThreshold marks two titles as matching.
	DefaultTitleThreshold = 0.7
)

type Evaluator struct {
	logRepo         LogRepository
	productRepo     ProductRepository
	interactionRepo InteractionRepository

	k              int
	titleThreshold float64
}

func New(logRepo LogRepository, productRepo ProductRepository, interactionRepo InteractionRepository) *Evaluator {
	return &Evaluator{
		logRepo:         logRepo,
		productRepo:     productRepo,
		interactionRepo: interactionRepo,
		k:               DefaultK,
		titleThreshold:  DefaultTitleThreshold,
	}
}

// Row is one evaluated RecommendationLog event.
type Row struct {
	UserID          string
	IsAnonymous     bool
	ProductID       string
	PredictionCount int
	PurchasedCount  int
	MatchedRelevant int
	PrecisionAt5    float64
	RecallAt5       float64
	NDCGAt5         float64
	MAPAt5          float64
	F1ScoreAt5      float64
	CreatedAt       time.Time
}

type Report struct {
	Rows    []Row
	Skipped int
}

// Run replays every logged recommendation against the user's purchase
// history. Relevance uses the current full history, so purchases made before
// the recommendation count too; a known measurement caveat, kept as-is.
// A failing event is logged and skipped, never fatal to the batch.
func (e *Evaluator) Run(ctx context.Context) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, fmt.Errorf("context error: %w", err)
	}

	logs, err := e.logRepo.FindAll(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("load recommendation logs: %w", err)
	}

	report := Report{Rows: make([]Row, 0, len(logs))}
	for _, rec := range logs {
		row, ok, err := e.evaluateEvent(ctx, rec)
		if err != nil {
			if ctx.Err() != nil {
				return Report{}, fmt.Errorf("context error: %w", ctx.Err())
			}
			logger.Warn("skipping recommendation log event", "log_id", rec.ID, "error", err)
			report.Skipped++
			continue
		}
		if !ok {
			continue
		}
		report.Rows = append(report.Rows, row)
	}

	sort.Slice(report.Rows, func(i, j int) bool {
		return report.Rows[i].CreatedAt.Before(report.Rows[j].CreatedAt)
	})

	logger.Info("evaluation finished", "events", len(report.Rows), "skipped", report.Skipped)

	return report, nil
}

func (e *Evaluator) evaluateEvent(ctx context.Context, rec domain.RecommendationLog) (Row, bool, error) {
	predictions, err := rec.PredictionIDs()
	if err != nil {
		return Row{}, false, err
	}
	if len(predictions) == 0 {
		return Row{}, false, nil
	}

	isAnonymous := rec.UserID == nil

	var purchasedIDs []uint64
	if !isAnonymous {
		purchasedIDs, err = e.interactionRepo.PurchasedProductIDs(ctx, *rec.UserID)
		if err != nil {
			return Row{}, false, fmt.Errorf("resolve purchase history: %w", err)
		}
	}

	purchased, err := e.productRepo.FindByIDs(ctx, purchasedIDs)
	if err != nil {
		return Row{}, false, fmt.Errorf("load purchased products: %w", err)
	}

	var anchor *domain.Product
	if rec.ProductID != nil {
		p, err := e.productRepo.FindByID(ctx, *rec.ProductID)
		if err == nil {
			anchor = &p
		}
		// a deleted anchor just drops the anchor-match rule
	}

	predicted, err := e.productRepo.FindByIDs(ctx, predictions)
	if err != nil {
		return Row{}, false, fmt.Errorf("load predicted products: %w", err)
	}

	relevant := e.relevantSet(predicted, purchased, anchor)

	precision := PrecisionAtK(predictions, relevant, e.k)
	recall := RecallAtK(predictions, relevant, e.k)

	row := Row{
		UserID:          "anonymous",
		IsAnonymous:     isAnonymous,
		PredictionCount: len(predictions),
		PurchasedCount:  len(purchasedIDs),
		MatchedRelevant: len(relevant),
		PrecisionAt5:    precision,
		RecallAt5:       recall,
		NDCGAt5:         NDCGAtK(predictions, relevant, e.k),
		MAPAt5:          MAPAtK(predictions, relevant, e.k),
		F1ScoreAt5:      F1Score(precision, recall),
		CreatedAt:       rec.CreatedAt,
	}
	if !isAnonymous {
		row.UserID = fmt.Sprintf("%d", *rec.UserID)
	}
	if rec.ProductID != nil {
		row.ProductID = fmt.Sprintf("%d", *rec.ProductID)
	}

	return row, true, nil
}

// relevantSet marks a predicted product relevant when it shares a category
// with any purchase, its title resembles a purchased title, or it matches the
// anchor product by category or title.
func (e *Evaluator) relevantSet(predicted, purchased []domain.Product, anchor *domain.Product) map[uint64]struct{} {
	purchasedCategories := make(map[uint64]struct{}, len(purchased))
	purchasedTitles := make([]string, 0, len(purchased))
	for _, p := range purchased {
		if p.CategoryID != 0 {
			purchasedCategories[p.CategoryID] = struct{}{}
		}
		purchasedTitles = append(purchasedTitles, p.Title)
	}

	relevant := make(map[uint64]struct{})
	for _, p := range predicted {
		if e.isRelevant(p, purchasedCategories, purchasedTitles, anchor) {
			relevant[p.ID] = struct{}{}
		}
	}

	return relevant
}

func (e *Evaluator) isRelevant(p domain.Product, purchasedCategories map[uint64]struct{}, purchasedTitles []string, anchor *domain.Product) bool {
	if p.CategoryID != 0 {
		if _, ok := purchasedCategories[p.CategoryID]; ok {
			return true
		}
	}

	for _, title := range purchasedTitles {
		if TitleSimilarity(title, p.Title) > e.titleThreshold {
			return true
		}
	}

	if anchor != nil {
		if p.CategoryID != 0 && p.CategoryID == anchor.CategoryID {
			return true
		}
		if TitleSimilarity(anchor.Title, p.Title) > e.titleThreshold {
			return true
		}
	}

	return false
}
