package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"shopRecs/domain"
	"shopRecs/pkg/logger"
	"shopRecs/pkg/response"
)

// ErrorHandler is the echo HTTPErrorHandler for errors that escape the
// handlers (panics recovered by middleware, routing errors, unhandled
// service errors).
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "internal server error"

	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		code = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}
	case errors.Is(err, domain.ErrNotFound):
		code = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, domain.ErrStoreUnavailable):
		code = http.StatusServiceUnavailable
		message = "store unavailable, retry later"
	}

	if code >= http.StatusInternalServerError {
		logger.Error("Unhandled request error", "method", c.Request().Method, "path", c.Path(), "error", err)
	}

	if err := c.JSON(code, response.Error(code, message, nil)); err != nil {
		logger.Error("Failed to write error response", "error", err)
	}
}
