package middleware

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"shopRecs/business/recommend"
)

const TraceIDHeader = "X-Trace-Id"

// TraceID attaches a trace id to the request context so service-layer
// logs can be correlated with the response. An incoming X-Trace-Id is
// reused, otherwise one is generated.
func TraceID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			traceID := c.Request().Header.Get(TraceIDHeader)
			if traceID == "" {
				traceID = uuid.NewString()
			}

			ctx := context.WithValue(c.Request().Context(), recommend.TraceIDKey, traceID)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Response().Header().Set(TraceIDHeader, traceID)

			return next(c)
		}
	}
}
