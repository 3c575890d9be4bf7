package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/moviequotes/quote-service/internal/adapters/http/handlers"
	"github.com/moviequotes/quote-service/internal/adapters/http/middleware"
	"github.com/moviequotes/quote-service/internal/platform/config"
	"github.com/moviequotes/quote-service/internal/platform/telemetry"
)

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// Logger seeds every request's context logger.
	Logger *slog.Logger

	// AppConfig names the service for tracing.
	AppConfig *config.AppConfig

	// HealthHandler serves the /-/ operational endpoints.
	HealthHandler *handlers.HealthHandler

	// QuoteHandler serves /api/quotes/random.
	QuoteHandler *handlers.QuoteHandler

	// PageHandler serves the quote viewer at /.
	PageHandler *handlers.PageHandler
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery - catch panics first
//  2. Context logger - seed the request logger
//  3. Request ID - generate/extract request ID
//  4. Correlation ID - per user action
//  5. OpenTelemetry - tracing span, then request metrics
//  6. Logging - request logging (skips /-/ endpoints)
//
// Route groups:
//   - /-/ (internal): health, build info and metrics
//   - /api/ (public API): random quote
//   - / : quote viewer page
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	serviceName := ""
	if cfg.AppConfig != nil {
		serviceName = cfg.AppConfig.Name
	}

	engine.HandleMethodNotAllowed = true
	engine.NoRoute(noRoute)
	engine.NoMethod(noMethod)

	engine.Use(
		middleware.Recovery(),
		middleware.ContextLogger(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.TracingMiddleware(serviceName),
		telemetry.Middleware(),
		middleware.Logging(),
	)

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	api := engine.Group("/api")
	if cfg.QuoteHandler != nil {
		cfg.QuoteHandler.RegisterQuoteRoutes(api)
	}

	if cfg.PageHandler != nil {
		cfg.PageHandler.RegisterPageRoutes(engine)
	}
}
