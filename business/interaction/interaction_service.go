package interaction

import (
	"context"
	"errors"
	"fmt"

	"shopRecs/domain"
	"shopRecs/pkg/logger"
)

// InteractionRepository contract interface
type InteractionRepository interface {
	Create(ctx context.Context, interaction *domain.Interaction) error
}

type interactionService struct {
	interactionRepo InteractionRepository
}

func NewInteractionService(interactionRepo InteractionRepository) *interactionService {
	return &interactionService{
		interactionRepo: interactionRepo,
	}
}

// Record appends one interaction. The stream is append-only; there is no
// update or delete path.
func (s *interactionService) Record(ctx context.Context, interaction *domain.Interaction) error {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when recording interaction")
		return fmt.Errorf("context error: %w", err)
	}

	// Validation
	if interaction.UserID == 0 {
		logger.Error("Invalid interaction data: user id is required")
		return errors.New("user id is required")
	}

	if interaction.ProductID == 0 {
		logger.Error("Invalid interaction data: product id is required")
		return errors.New("product id is required")
	}

	switch interaction.Kind {
	case domain.InteractionView, domain.InteractionPurchase, domain.InteractionCart:
	case domain.InteractionRating:
		if interaction.Value == nil || *interaction.Value < 1 || *interaction.Value > 5 {
			logger.Error("Invalid interaction data: rating value must be 1-5")
			return errors.New("rating value must be between 1 and 5")
		}
	default:
		logger.Error("Invalid interaction data: unknown kind", "kind", interaction.Kind)
		return fmt.Errorf("unknown interaction kind: %s", interaction.Kind)
	}

	if err := s.interactionRepo.Create(ctx, interaction); err != nil {
		logger.Error("failed to record interaction", "error", err)
		return fmt.Errorf("failed to record interaction: %w", err)
	}

	return nil
}
