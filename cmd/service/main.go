// Command service serves random movie quotes from a SQLite store.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/moviequotes/quote-service/internal/adapters/http"
	"github.com/moviequotes/quote-service/internal/adapters/http/handlers"
	"github.com/moviequotes/quote-service/internal/adapters/storage/sqlite"
	"github.com/moviequotes/quote-service/internal/app"
	"github.com/moviequotes/quote-service/internal/platform/config"
	"github.com/moviequotes/quote-service/internal/platform/logging"
	"github.com/moviequotes/quote-service/internal/platform/telemetry"
	"github.com/moviequotes/quote-service/internal/ports"
)

// Set with -ldflags "-X main.Version=... -X main.Commit=... -X main.BuildTime=...".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	logging.SetDefault(logger)
	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	tel, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer func() {
		// ctx is cancelled by then.
		if err := tel.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Error("telemetry shutdown failed", slog.Any("error", err))
		}
	}()

	// A store that cannot be opened aborts startup.
	store, err := sqlite.Open(ctx, sqlite.Config{
		Path:            cfg.Store.Path,
		MaxOpenConns:    cfg.Store.MaxOpenConns,
		MaxIdleConns:    cfg.Store.MaxIdleConns,
		ConnMaxLifetime: cfg.Store.ConnMaxLifetime,
		BusyTimeout:     cfg.Store.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening quote store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("closing quote store failed", slog.Any("error", err))
		}
	}()
	logger.Info("quote store opened", slog.String("driver", cfg.Store.Driver), slog.String("path", cfg.Store.Path))

	server, err := newServer(cfg, logger, store)
	if err != nil {
		return err
	}

	return serve(ctx, logger, server, cfg.Server.ShutdownTimeout)
}

// loadConfig reads the profile named by APP_ENVIRONMENT, "local" by default.
func loadConfig() (*config.Config, error) {
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
}

// newServer wires the store into the quote service, the handlers and the router.
func newServer(cfg *config.Config, logger *slog.Logger, store *sqlite.Store) (*http.Server, error) {
	registry := ports.NewHealthRegistry()
	if err := registry.Register(store); err != nil {
		return nil, fmt.Errorf("registering quote store health check: %w", err)
	}

	metrics, err := app.NewSelectionMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return nil, fmt.Errorf("registering selection metrics: %w", err)
	}

	quotes := app.NewQuoteService(app.QuoteServiceConfig{
		Repository: store,
		Metrics:    metrics,
		Logger:     logger,
	})

	server := http.New(&cfg.Server, logger)
	http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:    logger,
		AppConfig: &cfg.App,
		HealthHandler: handlers.NewHealthHandler(registry,
			handlers.NewBuildInfo(Version, Commit, BuildTime),
			handlers.WithGatherer(prometheus.DefaultGatherer),
		),
		QuoteHandler: handlers.NewQuoteHandler(quotes),
		PageHandler:  handlers.NewPageHandler(""),
	})

	return server, nil
}

// serve runs server until ctx is cancelled or serving fails, then drains
// in-flight requests for at most grace. The store and telemetry close in
// run's deferred calls after this returns.
func serve(ctx context.Context, logger *slog.Logger, server *http.Server, grace time.Duration) error {
	serverErr := server.Start()

	select {
	case err, ok := <-serverErr:
		if ok && err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received", slog.Duration("grace", grace))
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), grace)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
