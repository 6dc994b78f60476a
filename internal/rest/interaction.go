package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"shopRecs/domain"
)

type (
	InteractionService interface {
		Record(ctx context.Context, it *domain.Interaction) error
	}

	InteractionHandler struct {
		validate *validator.Validate
		service  InteractionService
		timeout  time.Duration
	}

	RecordInteractionRequest struct {
		UserID    uint64   `json:"user_id" validate:"required"`
		ProductID uint64   `json:"product_id" validate:"required"`
		Kind      string   `json:"kind" validate:"required,oneof=view purchase cart rating"`
		Value     *float64 `json:"value"`
		SessionID string   `json:"session_id"`
	}
)

func NewInteractionHandler(service InteractionService) *InteractionHandler {
	return &InteractionHandler{
		validate: validator.New(),
		service:  service,
		timeout:  10 * time.Second,
	}
}

// POST /api/v1/interactions
func (h *InteractionHandler) Record(c echo.Context) error {
	var req RecordInteractionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	it := domain.Interaction{
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Kind:      req.Kind,
		Value:     req.Value,
		SessionID: req.SessionID,
	}
	if err := h.service.Record(ctx, &it); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(map[string]interface{}{
		"id": it.ID,
	}))
}
