//go:build integration

package integration

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	httpadapter "github.com/moviequotes/quote-service/internal/adapters/http"
	"github.com/moviequotes/quote-service/internal/adapters/http/handlers"
	"github.com/moviequotes/quote-service/internal/adapters/storage/sqlite"
	"github.com/moviequotes/quote-service/internal/app"
	"github.com/moviequotes/quote-service/internal/platform/config"
	"github.com/moviequotes/quote-service/internal/ports"
)

const insertQuote = `INSERT INTO quotes (quote, movie, "character", poster_url, character_url) VALUES (?, ?, ?, ?, ?)`

// service is a fully wired quote service listening on a loopback port,
// backed by its own SQLite file.
type service struct {
	dir    string
	store  *sqlite.Store
	db     *sql.DB
	server *httptest.Server
}

// startService opens a fresh store under a temp dir and serves the full router.
func startService() (*service, error) {
	gin.SetMode(gin.TestMode)

	dir, err := os.MkdirTemp("", "movie-quotes-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}

	path := filepath.Join(dir, "quotes.db")

	store, err := sqlite.Open(context.Background(), sqlite.Config{Path: path, MaxOpenConns: 8})
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("open store: %w", err)
	}

	// A second handle plays the operator loading or pruning the table.
	db, err := sql.Open("sqlite", path)
	if err != nil {
		_ = store.Close()
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("open admin handle: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()

	metrics, err := app.NewSelectionMetrics(reg)
	if err != nil {
		return nil, err
	}

	registry := ports.NewHealthRegistry()
	if err := registry.Register(store); err != nil {
		return nil, err
	}

	engine := gin.New()
	httpadapter.SetupRouter(engine, httpadapter.RouterConfig{
		Logger:    logger,
		AppConfig: &config.AppConfig{Name: "movie-quotes", Version: "integration", Environment: "test"},
		HealthHandler: handlers.NewHealthHandler(registry, handlers.NewBuildInfo("integration", "none", ""),
			handlers.WithGatherer(reg)),
		QuoteHandler: handlers.NewQuoteHandler(app.NewQuoteService(app.QuoteServiceConfig{
			Repository: store,
			Metrics:    metrics,
			Logger:     logger,
		})),
		PageHandler: handlers.NewPageHandler(""),
	})

	return &service{
		dir:    dir,
		store:  store,
		db:     db,
		server: httptest.NewServer(engine),
	}, nil
}

// URL returns the service base URL.
func (s *service) URL() string {
	return s.server.URL
}

// insert adds one row. Empty URLs are stored as NULL.
func (s *service) insert(quote, movie, character, posterURL, characterURL string) error {
	_, err := s.db.Exec(insertQuote, quote, movie, character, nullable(posterURL), nullable(characterURL))
	return err
}

// deleteAll empties the table.
func (s *service) deleteAll() error {
	_, err := s.db.Exec(`DELETE FROM quotes`)
	return err
}

// stop shuts the server down and removes the store file.
func (s *service) stop() {
	if s == nil {
		return
	}

	s.server.Close()
	_ = s.db.Close()
	_ = s.store.Close()
	_ = os.RemoveAll(s.dir)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}

	return s
}
