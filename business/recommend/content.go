package recommend

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"
)

// Similarity blends category match, title token overlap and attribute overlap
// into [0, 1]. Deterministic and symmetric. The attribute term only counts
// when both products carry attributes.
func (s *Service) Similarity(a, b FeatureVector) float64 {
	categoryMatch := 0.0
	if a.CategoryID != 0 && a.CategoryID == b.CategoryID {
		categoryMatch = 1.0
	}

	titleSim := jaccard(a.TitleTokens, b.TitleTokens)

	attrSim := 0.0
	if len(a.Attributes) > 0 && len(b.Attributes) > 0 {
		attrSim = jaccard(a.Attributes, b.Attributes)
	}

	return s.cfg.CategoryWeight*categoryMatch +
		s.cfg.TitleWeight*titleSim +
		s.cfg.AttributeWeight*attrSim
}

type contentCandidate struct {
	id         uint64
	similarity float64
	salesCount int64
	createdAt  time.Time
}

// RecommendByContent ranks every other catalog product by similarity to the
// anchor and returns the top limit ids. The anchor itself never appears.
func (s *Service) RecommendByContent(ctx context.Context, productID uint64, limit int) ([]uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}

	anchor, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("find anchor product %d: %w", productID, err)
	}
	target := NewFeatureVector(anchor)

	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	candidates := make([]contentCandidate, 0, len(products))
	vectors := make([]FeatureVector, 0, len(products))
	for _, p := range products {
		if p.ID == productID {
			continue
		}
		candidates = append(candidates, contentCandidate{
			id:         p.ID,
			salesCount: p.SalesCount,
			createdAt:  p.CreatedAt,
		})
		vectors = append(vectors, NewFeatureVector(p))
	}

	if len(candidates) == 0 {
		return []uint64{}, nil
	}

	s.scoreAgainst(target, vectors, candidates)

	sortContentCandidates(candidates)

	if limit > len(candidates) {
		limit = len(candidates)
	}
	ids := make([]uint64, 0, limit)
	for _, c := range candidates[:limit] {
		ids = append(ids, c.id)
	}

	return ids, nil
}

// scoreAgainst fills candidate similarities, sharding the pairwise work across
// CPUs. Each shard writes a disjoint index range, so no locking is needed and
// the merge is free.
func (s *Service) scoreAgainst(target FeatureVector, vectors []FeatureVector, candidates []contentCandidate) {
	const minForSharding = 256

	shards := runtime.GOMAXPROCS(0)
	if len(vectors) < minForSharding || shards <= 1 {
		for i := range vectors {
			candidates[i].similarity = s.Similarity(target, vectors[i])
		}
		return
	}

	chunk := (len(vectors) + shards - 1) / shards

	var wg sync.WaitGroup
	for start := 0; start < len(vectors); start += chunk {
		end := start + chunk
		if end > len(vectors) {
			end = len(vectors)
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				candidates[i].similarity = s.Similarity(target, vectors[i])
			}
		}(start, end)
	}
	wg.Wait()
}

// Order: similarity desc, sales count desc, created asc, id asc. The total
// order keeps content ranking deterministic regardless of shard merge order.
func sortContentCandidates(candidates []contentCandidate) {
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.similarity != b.similarity {
			return a.similarity > b.similarity
		}
		if a.salesCount != b.salesCount {
			return a.salesCount > b.salesCount
		}
		if !a.createdAt.Equal(b.createdAt) {
			return a.createdAt.Before(b.createdAt)
		}
		return a.id < b.id
	})
}
