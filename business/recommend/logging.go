package recommend

import (
	"context"

	"shopRecs/domain"
	"shopRecs/pkg/logger"
)

const logAppendAttempts = 2

// LogDecision persists a ranking decision for offline evaluation. The write
// is best-effort with one bounded retry: a failing log store degrades to a
// warning, never to a failed recommendation response.
func (s *Service) LogDecision(ctx context.Context, d Decision) {
	if len(d.Items) == 0 {
		return
	}

	rec, err := domain.NewRecommendationLog(d.UserID, d.ProductID, d.Items)
	if err != nil {
		logger.Warn("failed to build recommendation log", "error", err)
		return
	}

	for attempt := 1; attempt <= logAppendAttempts; attempt++ {
		err = s.logRepo.Append(ctx, &rec)
		if err == nil {
			logger.Debug("recommendation decision logged",
				"user_id", d.UserID,
				"product_id", d.ProductID,
				"predictions", len(d.Items),
			)
			return
		}
	}

	recommendationLogFailures.Inc()
	logger.Warn("failed to log recommendation decision",
		"user_id", d.UserID,
		"product_id", d.ProductID,
		"error", err,
	)
}
