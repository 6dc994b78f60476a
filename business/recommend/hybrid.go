package recommend

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"shopRecs/business/catalog"
	"shopRecs/domain"
	"shopRecs/pkg/logger"
)

// Source tags for explainability.
const (
	SourceContent       = "content"
	SourceComplementary = "complementary"
	SourceCollaborative = "collaborative"
	SourceTrending      = "trending"
	SourceRelated       = "related"
)

// Decision is the outcome of one ranking invocation: the ordered id list plus
// enough context to log and explain it. Logging is a separate call so a log
// write failure can never fail the ranking response.
type Decision struct {
	UserID    uint64
	ProductID uint64
	Items     []uint64
	Sources   map[uint64]string
	Meta      Meta
}

type Meta struct {
	ContentCount       int `json:"content_count"`
	ComplementaryCount int `json:"complementary_count"`
	CollaborativeCount int `json:"collaborative_count"`
	TrendingCount      int `json:"trending_count"`
	Limit              int `json:"limit"`
}

// GetRecommendations runs the four-stage hybrid pipeline. A zero userID or
// productID means that input is absent; each stage only runs while slots
// remain and its required input is present. Stage composition is
// deterministic, the final order of entries past the pinned prefix is not.
func (s *Service) GetRecommendations(ctx context.Context, userID, productID uint64, limit int) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return Decision{}, fmt.Errorf("context error: %w", err)
	}
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}

	logger.Debug("hybrid_recommend",
		"trace_id", TraceIDFromContext(ctx),
		"user_id", userID,
		"product_id", productID,
		"limit", limit,
	)

	d := Decision{
		UserID:    userID,
		ProductID: productID,
		Items:     make([]uint64, 0, limit),
		Sources:   make(map[uint64]string),
		Meta:      Meta{Limit: limit},
	}
	seen := map[uint64]struct{}{}
	if productID != 0 {
		// anchor must never recommend itself
		seen[productID] = struct{}{}
	}

	// 1) content stage
	if productID != 0 && len(d.Items) < limit {
		pool := limit
		if pool < s.cfg.ContentPoolMin {
			pool = s.cfg.ContentPoolMin
		}

		contentIDs, err := s.RecommendByContent(ctx, productID, pool)
		switch {
		case err == nil:
			for _, id := range contentIDs {
				if d.Meta.ContentCount >= s.cfg.ContentTake {
					break
				}
				if s.add(&d, seen, id, SourceContent) {
					d.Meta.ContentCount++
				}
			}
		case isNotFound(err):
			logger.Warn("content stage skipped, anchor not found", "product_id", productID)
		default:
			return Decision{}, err
		}
	}

	// 2) complementary stage: same category family, best sellers first
	if productID != 0 && len(d.Items) < limit {
		added, err := s.complementaryStage(ctx, &d, seen, productID)
		if err != nil {
			return Decision{}, err
		}
		d.Meta.ComplementaryCount = added
	}

	// 3) collaborative stage
	if userID != 0 && len(d.Items) < limit {
		collab, err := s.RecommendCollaborative(ctx, userID, limit)
		if err != nil {
			if !isNotFound(err) {
				return Decision{}, err
			}
			logger.Warn("collaborative stage skipped, user not found", "user_id", userID)
		}

		take := s.cfg.CollaborativeTake
		if remaining := limit - len(d.Items); remaining < take {
			take = remaining
		}
		for _, rec := range collab {
			if d.Meta.CollaborativeCount >= take {
				break
			}
			if s.add(&d, seen, rec.ProductID, SourceCollaborative) {
				d.Meta.CollaborativeCount++
			}
		}
	}

	// 4) trending fallback fills whatever is left
	if len(d.Items) < limit {
		exclude := make([]uint64, 0, len(seen))
		for id := range seen {
			exclude = append(exclude, id)
		}

		trending, err := s.productRepo.FindTrending(ctx, exclude, limit-len(d.Items))
		if err != nil {
			return Decision{}, fmt.Errorf("load trending products: %w", err)
		}
		for _, p := range trending {
			if len(d.Items) >= limit {
				break
			}
			if s.add(&d, seen, p.ID, SourceTrending) {
				d.Meta.TrendingCount++
			}
		}
	}

	if len(d.Items) > s.cfg.ShufflePinned {
		s.smartShuffle(d.Items[s.cfg.ShufflePinned:], s.rng())
	}
	if len(d.Items) > limit {
		d.Items = d.Items[:limit]
	}

	recommendationsServed.WithLabelValues(stageLabel(d)).Inc()

	return d, nil
}

func (s *Service) add(d *Decision, seen map[uint64]struct{}, id uint64, source string) bool {
	if _, dup := seen[id]; dup {
		return false
	}
	seen[id] = struct{}{}
	d.Items = append(d.Items, id)
	d.Sources[id] = source
	return true
}

func (s *Service) complementaryStage(ctx context.Context, d *Decision, seen map[uint64]struct{}, productID uint64) (int, error) {
	anchor, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if isNotFound(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("find anchor product %d: %w", productID, err)
	}
	if anchor.CategoryID == 0 {
		return 0, nil
	}

	categoryIDs := []uint64{anchor.CategoryID}
	if categories, err := s.categoryRepo.FindAll(ctx); err == nil {
		categoryIDs = catalog.NewTree(categories).DescendantsAndSelf(anchor.CategoryID)
	} else {
		logger.Warn("category tree unavailable, using anchor category only", "error", err)
	}

	exclude := make([]uint64, 0, len(seen))
	for id := range seen {
		exclude = append(exclude, id)
	}

	complementary, err := s.productRepo.FindByCategories(ctx, categoryIDs, exclude, s.cfg.ComplementaryScan)
	if err != nil {
		return 0, fmt.Errorf("load complementary products: %w", err)
	}

	added := 0
	for _, p := range complementary {
		if added >= s.cfg.ComplementaryTake || len(d.Items) >= d.Meta.Limit {
			break
		}
		if s.add(d, seen, p.ID, SourceComplementary) {
			added++
		}
	}

	return added, nil
}

// smartShuffle reorders in place with a bias toward preserving earlier rank:
// each element gets key rng.Float64() * (n - i) and the slice is sorted by key
// descending.
func (s *Service) smartShuffle(items []uint64, rng *rand.Rand) {
	n := len(items)
	if n < 2 {
		return
	}

	type keyed struct {
		id  uint64
		key float64
	}

	keys := make([]keyed, n)
	for i, id := range items {
		keys[i] = keyed{id: id, key: rng.Float64() * float64(n-i)}
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i].key > keys[j].key })

	for i, k := range keys {
		items[i] = k.id
	}
}

func stageLabel(d Decision) string {
	switch {
	case d.ProductID != 0 && d.UserID != 0:
		return "hybrid"
	case d.ProductID != 0:
		return "product"
	case d.UserID != 0:
		return "user"
	default:
		return "trending"
	}
}

// ---- user-history hybrid ----

type UserRecParams struct {
	UserID uint64
	// PurchaseHistory may be pre-resolved by the caller; when empty it is
	// loaded from the interaction store.
	PurchaseHistory []uint64
	Limit           int
	Page            int
}

// GetUserRecommendations expands content similarity across the user's whole
// purchase history, merges collaborative scores and related products, jitters
// and paginates. Returns the page's scored pairs plus the Decision to log.
func (s *Service) GetUserRecommendations(ctx context.Context, p UserRecParams) ([]domain.Recommendation, Decision, error) {
	if err := ctx.Err(); err != nil {
		return nil, Decision{}, fmt.Errorf("context error: %w", err)
	}
	if p.Limit <= 0 {
		p.Limit = s.cfg.DefaultLimit
	}
	if p.Page <= 0 {
		p.Page = 1
	}

	history := p.PurchaseHistory
	if len(history) == 0 {
		var err error
		history, err = s.interactionRepo.PurchasedProductIDs(ctx, p.UserID)
		if err != nil {
			return nil, Decision{}, fmt.Errorf("load purchase history for user %d: %w", p.UserID, err)
		}
	}
	historySet := make(map[uint64]struct{}, len(history))
	for _, id := range history {
		historySet[id] = struct{}{}
	}

	scores := make(map[uint64]float64)
	sources := make(map[uint64]string)
	seenCategories := make(map[uint64]struct{})
	seenTitles := make([]map[string]struct{}, 0, len(history))

	// 1) content expansion per purchased item
	for _, purchasedID := range history {
		product, err := s.productRepo.FindByID(ctx, purchasedID)
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return nil, Decision{}, fmt.Errorf("load purchased product %d: %w", purchasedID, err)
		}
		if product.CategoryID != 0 {
			seenCategories[product.CategoryID] = struct{}{}
		}
		seenTitles = append(seenTitles, tokenizeTitle(product.Title))

		contentIDs, err := s.RecommendByContent(ctx, purchasedID, p.Limit*2)
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return nil, Decision{}, err
		}
		for _, id := range contentIDs {
			if _, owned := historySet[id]; owned {
				continue
			}
			scores[id] += s.cfg.HistoryWeight
			if _, ok := sources[id]; !ok {
				sources[id] = SourceContent
			}
		}
	}

	// 2) collaborative scores
	collab, err := s.RecommendCollaborative(ctx, p.UserID, p.Limit*2)
	if err != nil {
		return nil, Decision{}, err
	}
	for _, rec := range collab {
		if _, owned := historySet[rec.ProductID]; owned {
			continue
		}
		scores[rec.ProductID] += rec.Score
		if _, ok := sources[rec.ProductID]; !ok {
			sources[rec.ProductID] = SourceCollaborative
		}
	}

	rng := s.rng()

	// 3) related products keep the result set from collapsing to history lookalikes
	if err := s.addRelated(ctx, scores, sources, historySet, seenCategories, seenTitles, p.Limit, rng); err != nil {
		return nil, Decision{}, err
	}

	// 4) jitter, sort, paginate
	recs := make([]domain.Recommendation, 0, len(scores))
	for id, score := range scores {
		recs = append(recs, domain.Recommendation{
			ProductID: id,
			Score:     score * (1 + rng.Float64()*s.cfg.JitterSpread),
		})
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].ProductID < recs[j].ProductID
	})

	start := (p.Page - 1) * p.Limit
	if start > len(recs) {
		start = len(recs)
	}
	end := start + p.Limit
	if end > len(recs) {
		end = len(recs)
	}
	page := recs[start:end]

	d := Decision{
		UserID:  p.UserID,
		Items:   make([]uint64, 0, len(page)),
		Sources: make(map[uint64]string, len(page)),
		Meta:    Meta{Limit: p.Limit},
	}
	for _, rec := range page {
		d.Items = append(d.Items, rec.ProductID)
		d.Sources[rec.ProductID] = sources[rec.ProductID]
	}

	recommendationsServed.WithLabelValues("user").Inc()

	return page, d, nil
}

// addRelated pulls same-category or title-overlapping products not already
// scored and assigns each a score in [RelatedScoreFloor, 2*RelatedScoreFloor).
func (s *Service) addRelated(
	ctx context.Context,
	scores map[uint64]float64,
	sources map[uint64]string,
	historySet map[uint64]struct{},
	seenCategories map[uint64]struct{},
	seenTitles []map[string]struct{},
	limit int,
	rng *rand.Rand,
) error {
	if len(seenCategories) == 0 && len(seenTitles) == 0 {
		return nil
	}

	categoryIDs := make([]uint64, 0, len(seenCategories))
	for id := range seenCategories {
		categoryIDs = append(categoryIDs, id)
	}
	sort.Slice(categoryIDs, func(i, j int) bool { return categoryIDs[i] < categoryIDs[j] })

	exclude := make([]uint64, 0, len(historySet)+len(scores))
	for id := range historySet {
		exclude = append(exclude, id)
	}
	for id := range scores {
		exclude = append(exclude, id)
	}

	related, err := s.productRepo.FindByCategories(ctx, categoryIDs, exclude, limit)
	if err != nil {
		return fmt.Errorf("load related products: %w", err)
	}

	// title-overlap candidates outside the seen categories
	if len(related) < limit && len(seenTitles) > 0 {
		all, err := s.productRepo.FindTrending(ctx, exclude, limit*2)
		if err != nil {
			return fmt.Errorf("load title-overlap candidates: %w", err)
		}
	scan:
		for _, p := range all {
			if len(related) >= limit {
				break
			}
			if _, ok := seenCategories[p.CategoryID]; ok {
				continue
			}
			tokens := tokenizeTitle(p.Title)
			for _, seedTokens := range seenTitles {
				if jaccard(tokens, seedTokens) > 0 {
					related = append(related, p)
					continue scan
				}
			}
		}
	}

	for _, p := range related {
		if _, ok := scores[p.ID]; ok {
			continue
		}
		if _, owned := historySet[p.ID]; owned {
			continue
		}
		scores[p.ID] = s.cfg.RelatedScoreFloor + rng.Float64()*s.cfg.RelatedScoreFloor
		sources[p.ID] = SourceRelated
	}

	return nil
}

// HomeRecommendations is the anchorless home feed: the newest and the best
// selling products, deduplicated and fully shuffled.
func (s *Service) HomeRecommendations(ctx context.Context, limit int) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}

	newest, err := s.productRepo.FindNewest(ctx, limit*2)
	if err != nil {
		return nil, fmt.Errorf("load newest products: %w", err)
	}
	popular, err := s.productRepo.FindTrending(ctx, nil, limit*2)
	if err != nil {
		return nil, fmt.Errorf("load popular products: %w", err)
	}

	seen := make(map[uint64]struct{}, len(newest)+len(popular))
	combined := make([]domain.Product, 0, len(newest)+len(popular))
	for _, p := range append(newest, popular...) {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		combined = append(combined, p)
	}

	rng := s.rng()
	rng.Shuffle(len(combined), func(i, j int) {
		combined[i], combined[j] = combined[j], combined[i]
	})

	if limit < len(combined) {
		combined = combined[:limit]
	}

	recommendationsServed.WithLabelValues("home").Inc()

	return combined, nil
}
