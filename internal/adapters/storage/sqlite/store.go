// Package sqlite provides the SQLite-backed quote store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/moviequotes/quote-service/internal/adapters/storage/sqlite/migrations"
	"github.com/moviequotes/quote-service/internal/domain"
)

// checkerName identifies the store in readiness responses.
const checkerName = "quote-store"

const (
	countQuery = `SELECT COUNT(*) FROM quotes`

	// No ORDER BY: the offset walks the store's natural order.
	quoteAtQuery = `SELECT id, quote, movie, "character", poster_url, character_url
FROM quotes
LIMIT 1 OFFSET ?`
)

var rowValidator = newRowValidator()

func newRowValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("image_url", isImageURL); err != nil {
		panic(err)
	}

	return v
}

// Config describes how to open the store.
type Config struct {
	// Path is the database file. ":memory:" is not supported because every
	// pooled connection would see its own empty database.
	Path string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	BusyTimeout     time.Duration
}

// Store reads quotes from SQLite. It is safe for concurrent use.
type Store struct {
	sqlDB *sql.DB
}

// Open opens the database, verifies the connection and applies embedded migrations.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(filepath.Clean(strings.TrimSpace(cfg.Path))), 0o750); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := applyMigrations(ctx, sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

func buildDSN(cfg Config) (string, error) {
	p := strings.TrimSpace(cfg.Path)
	if p == "" {
		return "", errors.New("storage path is required")
	}
	if p == ":memory:" {
		return "", errors.New("in-memory storage is not supported")
	}

	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}

	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busy.Milliseconds()))
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "synchronous(NORMAL)")

	return "file:" + filepath.ToSlash(filepath.Clean(p)) + "?" + q.Encode(), nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}

	return s.sqlDB.Close()
}

// Count returns the number of stored quotes.
func (s *Store) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, domain.NewStoreError("count", err)
	}
	if s == nil || s.sqlDB == nil {
		return 0, domain.NewStoreError("count", errors.New("storage is not configured"))
	}

	var n int64
	if err := s.sqlDB.QueryRowContext(ctx, countQuery).Scan(&n); err != nil {
		return 0, domain.NewStoreError("count", err)
	}

	return n, nil
}

// QuoteAt returns the quote at offset in natural order, or (nil, nil) if there is none.
func (s *Store) QuoteAt(ctx context.Context, offset int64) (*domain.Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStoreError("fetch", err)
	}
	if s == nil || s.sqlDB == nil {
		return nil, domain.NewStoreError("fetch", errors.New("storage is not configured"))
	}
	if offset < 0 {
		return nil, nil
	}

	var r quoteRow
	err := s.sqlDB.QueryRowContext(ctx, quoteAtQuery, offset).Scan(
		&r.ID,
		&r.Quote,
		&r.Movie,
		&r.Character,
		&r.PosterURL,
		&r.CharacterURL,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewStoreError("fetch", err)
	}

	quote, err := r.toDomain()
	if err != nil {
		return nil, domain.NewStoreError("decode", err)
	}

	return quote, nil
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string {
	return checkerName
}

// Check implements ports.HealthChecker by pinging the database.
func (s *Store) Check(ctx context.Context) error {
	if s == nil || s.sqlDB == nil {
		return domain.NewUnavailableError(checkerName, "storage is not configured")
	}

	if err := s.sqlDB.PingContext(ctx); err != nil {
		return domain.NewUnavailableError(checkerName, err.Error())
	}

	return nil
}
