package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/moviequotes/quote-service/internal/platform/logging"
)

const (
	// HeaderCorrelationID spans a whole user action, e.g. the page load and
	// every "Next Quote" call it makes, while X-Request-ID is per call.
	HeaderCorrelationID = "X-Correlation-ID"

	// ContextKeyCorrelationID is the gin context key for the correlation ID.
	ContextKeyCorrelationID = "correlation_id"
)

// CorrelationID returns middleware that propagates X-Correlation-ID, or starts
// a new one, and attaches it to the request-scoped logger.
func CorrelationID() gin.HandlerFunc {
	return createIDMiddleware(idMiddlewareConfig{
		headerName: HeaderCorrelationID,
		contextKey: ContextKeyCorrelationID,
		enrichers: []func(context.Context, string) context.Context{
			ContextWithCorrelationID,
			logging.WithCorrelationID,
		},
	})
}

// GetCorrelationID extracts the correlation ID from the gin.Context.
func GetCorrelationID(c *gin.Context) string {
	return getIDFromContext(c, ContextKeyCorrelationID)
}
