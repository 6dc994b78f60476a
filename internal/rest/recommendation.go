package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"shopRecs/business/recommend"
	"shopRecs/domain"
	"shopRecs/pkg/logger"
)

type ResponseError struct {
	Message string `json:"message"`
}

type (
	RecommendationService interface {
		GetRecommendations(ctx context.Context, userID, productID uint64, limit int) (recommend.Decision, error)
		GetUserRecommendations(ctx context.Context, p recommend.UserRecParams) ([]domain.Recommendation, recommend.Decision, error)
		HomeRecommendations(ctx context.Context, limit int) ([]domain.Product, error)
		LogDecision(ctx context.Context, d recommend.Decision)
	}

	// PageCache is the optional Redis-backed page cache; nil disables it.
	PageCache interface {
		GetPage(ctx context.Context, userID uint64, limit, page int) ([]domain.Recommendation, bool)
		SetPage(ctx context.Context, userID uint64, limit, page int, recs []domain.Recommendation)
	}

	RecommendationHandler struct {
		validate *validator.Validate
		service  RecommendationService
		cache    PageCache
		timeout  time.Duration
	}

	RecommendQuery struct {
		UserID    uint64 `query:"user_id"`
		ProductID uint64 `query:"product_id"`
		Limit     int    `query:"limit" validate:"omitempty,gte=1,lte=100"`
		Page      int    `query:"page" validate:"omitempty,gte=1"`
	}
)

func NewRecommendationHandler(service RecommendationService, cache PageCache) *RecommendationHandler {
	return &RecommendationHandler{
		validate: validator.New(),
		service:  service,
		cache:    cache,
		timeout:  10 * time.Second,
	}
}

// GET /api/v1/recommendations?user_id=&product_id=&limit=&page=
func (h *RecommendationHandler) Recommend(c echo.Context) error {
	start := time.Now()
	defer func() {
		recommend.RecommendLatency.Observe(time.Since(start).Seconds())
	}()

	var q RecommendQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	// user-only requests go through the paginated history flow; anything with
	// an anchor product runs the staged pipeline
	var decision recommend.Decision
	if q.ProductID == 0 && q.UserID != 0 {
		if q.Page <= 0 {
			q.Page = 1
		}
		_, d, err := h.service.GetUserRecommendations(ctx, recommend.UserRecParams{
			UserID: q.UserID,
			Limit:  q.Limit,
			Page:   q.Page,
		})
		if err != nil {
			return h.rankingError(c, err)
		}
		decision = d
	} else {
		d, err := h.service.GetRecommendations(ctx, q.UserID, q.ProductID, q.Limit)
		if err != nil {
			return h.rankingError(c, err)
		}
		decision = d
	}

	// logging is a separate call so a failing log store cannot fail this response
	h.service.LogDecision(ctx, decision)

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"items": decision.Items,
		"meta":  decision.Meta,
	}))
}

// GET /api/v1/recommendations/product/:id?limit=
func (h *RecommendationHandler) RecommendForProduct(c echo.Context) error {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || productID == 0 {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid product id"})
	}

	limit, err := parseLimit(c.QueryParam("limit"), 10)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	decision, err := h.service.GetRecommendations(ctx, 0, productID, limit)
	if err != nil {
		return h.rankingError(c, err)
	}

	h.service.LogDecision(ctx, decision)

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"items": decision.Items,
		"meta":  decision.Meta,
	}))
}

// GET /api/v1/recommendations/user/:id?limit=&page=
func (h *RecommendationHandler) RecommendForUser(c echo.Context) error {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || userID == 0 {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid user id"})
	}

	limit, err := parseLimit(c.QueryParam("limit"), 15)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	page, err := parsePage(c.QueryParam("page"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if h.cache != nil {
		if cached, ok := h.cache.GetPage(ctx, userID, limit, page); ok {
			return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
				"items":  cached,
				"cached": true,
				"meta":   map[string]interface{}{"limit": limit, "page": page},
			}))
		}
	}

	recs, decision, err := h.service.GetUserRecommendations(ctx, recommend.UserRecParams{
		UserID: userID,
		Limit:  limit,
		Page:   page,
	})
	if err != nil {
		return h.rankingError(c, err)
	}

	h.service.LogDecision(ctx, decision)

	if h.cache != nil {
		h.cache.SetPage(ctx, userID, limit, page, recs)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"items": recs,
		"meta":  map[string]interface{}{"limit": limit, "page": page},
	}))
}

// GET /api/v1/recommendations/home?limit=
func (h *RecommendationHandler) Home(c echo.Context) error {
	limit, err := parseLimit(c.QueryParam("limit"), 20)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products, err := h.service.HomeRecommendations(ctx, limit)
	if err != nil {
		return h.rankingError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"count": len(products),
		"items": products,
	}))
}

func (h *RecommendationHandler) rankingError(c echo.Context, err error) error {
	logger.Error("recommendation request failed", "error", err)

	if errors.Is(err, domain.ErrStoreUnavailable) {
		return c.JSON(http.StatusServiceUnavailable, ResponseError{Message: "store unavailable, retry later"})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
}

func parseLimit(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > 100 {
		return 0, errors.New("limit must be between 1 and 100")
	}
	return limit, nil
}

func parsePage(raw string) (int, error) {
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, errors.New("page must be a positive integer")
	}
	return page, nil
}
