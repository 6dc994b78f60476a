package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"shopRecs/domain"
	"shopRecs/pkg/logger"
)

// RecommendationCache keeps recently served user recommendation pages for a
// short TTL. It is strictly best-effort: any Redis problem is a cache miss
// plus a warning, never an error for the caller.
type RecommendationCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRecommendationCache(client *redis.Client, ttl time.Duration) *RecommendationCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RecommendationCache{
		client: client,
		ttl:    ttl,
	}
}

func pageKey(userID uint64, limit, page int) string {
	// key format: "reco:user:{user_id}:{limit}:{page}"
	return fmt.Sprintf("reco:user:%d:%d:%d", userID, limit, page)
}

func (c *RecommendationCache) GetPage(ctx context.Context, userID uint64, limit, page int) ([]domain.Recommendation, bool) {
	val, err := c.client.Get(ctx, pageKey(userID, limit, page)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("recommendation cache read failed", "user_id", userID, "error", err)
		}
		return nil, false
	}

	var recs []domain.Recommendation
	if err := json.Unmarshal([]byte(val), &recs); err != nil {
		logger.Warn("recommendation cache entry corrupt", "user_id", userID, "error", err)
		return nil, false
	}

	return recs, true
}

func (c *RecommendationCache) SetPage(ctx context.Context, userID uint64, limit, page int, recs []domain.Recommendation) {
	raw, err := json.Marshal(recs)
	if err != nil {
		logger.Warn("failed to marshal recommendation page", "user_id", userID, "error", err)
		return
	}

	if err := c.client.Set(ctx, pageKey(userID, limit, page), raw, c.ttl).Err(); err != nil {
		logger.Warn("recommendation cache write failed", "user_id", userID, "error", err)
	}
}
