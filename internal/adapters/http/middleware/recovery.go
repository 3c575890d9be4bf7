package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/moviequotes/quote-service/internal/adapters/http/dto"
	"github.com/moviequotes/quote-service/internal/platform/logging"
)

// Recovery returns middleware that turns a panic into the generic 500 error
// body. The panic value and stack are logged, never returned. Apply it first
// so it covers every later handler.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			traceID := dto.GetTraceID(c)

			logging.FromContext(c.Request.Context()).Error("panic recovered",
				slog.Any("error", r),
				slog.String("stack", string(debug.Stack())),
				slog.String("path", c.Request.URL.Path),
				slog.String("method", c.Request.Method),
				slog.String("trace_id", traceID),
			)

			if c.Writer.Written() {
				c.Abort()
				return
			}

			if traceID != "" {
				c.Header(dto.HeaderTraceID, traceID)
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.MessageInternal))
		}()

		c.Next()
	}
}
