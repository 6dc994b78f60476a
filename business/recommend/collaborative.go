package recommend

import (
	"context"
	"fmt"
	"sort"

	"shopRecs/domain"
	"shopRecs/pkg/logger"
)

// RecommendCollaborative derives candidates from users with overlapping
// purchase history. Scores carry a small random jitter for diversity, so two
// calls may order candidates differently; the seed (already purchased) set is
// always excluded.
func (s *Service) RecommendCollaborative(ctx context.Context, userID uint64, limit int) ([]domain.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}

	// 1) seed set: what the user already bought, and in which categories
	seedIDs, err := s.interactionRepo.PurchasedProductIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load purchase history for user %d: %w", userID, err)
	}
	if len(seedIDs) == 0 {
		return []domain.Recommendation{}, nil
	}

	seedProducts, err := s.loadProducts(ctx, seedIDs)
	if err != nil {
		return nil, err
	}

	seedSet := make(map[uint64]struct{}, len(seedProducts))
	seedCategories := make(map[uint64]struct{})
	seedTitles := make([]map[string]struct{}, 0, len(seedProducts))
	for _, p := range seedProducts {
		seedSet[p.ID] = struct{}{}
		if p.CategoryID != 0 {
			seedCategories[p.CategoryID] = struct{}{}
		}
		seedTitles = append(seedTitles, tokenizeTitle(p.Title))
	}

	categoryIDs := make([]uint64, 0, len(seedCategories))
	for id := range seedCategories {
		categoryIDs = append(categoryIDs, id)
	}
	sort.Slice(categoryIDs, func(i, j int) bool { return categoryIDs[i] < categoryIDs[j] })

	rng := s.rng()
	scores := make(map[uint64]float64)

	// 2) similar users: ranked by purchases inside the seed categories
	similarUsers, err := s.interactionRepo.UsersByPurchasedCategories(ctx, categoryIDs, userID, s.cfg.SimilarUserLimit)
	if err != nil {
		return nil, fmt.Errorf("find similar users: %w", err)
	}

	if len(similarUsers) > 0 {
		userIDs := make([]uint64, 0, len(similarUsers))
		for _, u := range similarUsers {
			userIDs = append(userIDs, u.UserID)
		}

		candidates, err := s.interactionRepo.PurchasedProductsByUsers(ctx, userIDs)
		if err != nil {
			return nil, fmt.Errorf("load similar user purchases: %w", err)
		}

		// 3) score candidates outside the seed set
		for _, p := range candidates {
			if _, owned := seedSet[p.ID]; owned {
				continue
			}

			score := 0.0
			if _, ok := seedCategories[p.CategoryID]; ok {
				score += s.cfg.CategoryBonus
			}

			tokens := tokenizeTitle(p.Title)
			for _, seedTokens := range seedTitles {
				score += jaccard(tokens, seedTokens)
			}

			score *= 1 + rng.Float64()*s.cfg.JitterSpread

			scores[p.ID] += score
		}
	}

	// 4) fallback: random seed-category products with placeholder scores
	if len(scores) == 0 {
		excluded := make([]uint64, 0, len(seedSet))
		for id := range seedSet {
			excluded = append(excluded, id)
		}

		fallback, err := s.productRepo.FindByCategories(ctx, categoryIDs, excluded, limit)
		if err != nil {
			return nil, fmt.Errorf("load fallback candidates: %w", err)
		}

		for _, p := range fallback {
			scores[p.ID] = rng.Float64()
		}

		logger.Debug("collaborative fallback used",
			"user_id", userID,
			"seed_categories", len(categoryIDs),
			"candidates", len(fallback),
		)
	}

	recs := make([]domain.Recommendation, 0, len(scores))
	for id, score := range scores {
		recs = append(recs, domain.Recommendation{ProductID: id, Score: score})
	}

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].ProductID < recs[j].ProductID
	})

	if limit < len(recs) {
		recs = recs[:limit]
	}

	return recs, nil
}

// loadProducts resolves ids one by one through the repository, dropping ids
// that no longer resolve.
func (s *Service) loadProducts(ctx context.Context, ids []uint64) ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		p, err := s.productRepo.FindByID(ctx, id)
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return nil, fmt.Errorf("load product %d: %w", id, err)
		}
		products = append(products, p)
	}

	return products, nil
}
