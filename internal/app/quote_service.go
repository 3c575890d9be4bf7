// Package app contains application services that orchestrate use cases.
package app

import (
	"context"
	"log/slog"
	"math"
	"math/rand/v2"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/moviequotes/quote-service/internal/domain"
	"github.com/moviequotes/quote-service/internal/ports"
)

const (
	instrumentationName = "github.com/moviequotes/quote-service/app"

	// quoteEntity names quotes in domain errors.
	quoteEntity = "quote"
)

// QuoteService selects a uniformly random quote from the store.
// It holds no per-request state; concurrent calls are independent.
type QuoteService struct {
	repo    ports.QuoteRepository
	random  ports.RandomSource
	metrics *SelectionMetrics
	tracer  trace.Tracer
	logger  *slog.Logger
}

// QuoteServiceConfig contains configuration for the quote service.
type QuoteServiceConfig struct {
	// Repository is the quote store. Required.
	Repository ports.QuoteRepository

	// Random supplies offsets. Defaults to the goroutine-safe math/rand/v2 source.
	Random ports.RandomSource

	// Metrics records selection outcomes. Optional.
	Metrics *SelectionMetrics

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// NewQuoteService creates a new quote service with the provided dependencies.
// It panics if no repository is given, since the service cannot do anything without one.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Repository == nil {
		panic("app: QuoteServiceConfig.Repository is required")
	}

	random := cfg.Random
	if random == nil {
		random = globalRandom{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteService{
		repo:    cfg.Repository,
		random:  random,
		metrics: cfg.Metrics,
		tracer:  otel.Tracer(instrumentationName),
		logger:  logger.With(slog.String("component", "app.QuoteService")),
	}
}

// GetRandomQuote counts the stored quotes, picks a uniform offset in [0, N)
// and returns the quote at that offset.
//
// Errors:
//   - domain.ErrNotFound when the store is empty
//   - domain.ErrFetchMiss when nothing exists at the chosen offset
//   - domain.ErrStoreFailure when either query fails
//
// Count and fetch are separate statements. If rows are deleted in between,
// the offset can point past the end; that is reported as a fetch miss.
func (s *QuoteService) GetRandomQuote(ctx context.Context) (*domain.Quote, error) {
	ctx, span := s.tracer.Start(ctx, "QuoteService.GetRandomQuote")
	defer span.End()

	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, OutcomeStoreFailure, asStoreError("count", err))
	}

	span.SetAttributes(attribute.Int64("quotes.count", count))

	if count <= 0 {
		return nil, s.fail(ctx, span, OutcomeEmpty, domain.NewNotFoundError(quoteEntity+"s", ""))
	}

	offset := pickOffset(s.random.Float64(), count)
	span.SetAttributes(attribute.Int64("quotes.offset", offset))

	quote, err := s.repo.QuoteAt(ctx, offset)
	if err != nil {
		return nil, s.fail(ctx, span, OutcomeStoreFailure, asStoreError("fetch", err))
	}

	if quote == nil {
		return nil, s.fail(ctx, span, OutcomeFetchMiss, domain.NewFetchMissError(quoteEntity, offset, count))
	}

	s.metrics.observe(OutcomeServed)
	span.SetAttributes(
		attribute.String("selection.outcome", string(OutcomeServed)),
		attribute.Int64("quote.id", quote.ID),
	)

	s.logger.DebugContext(ctx, "selected random quote",
		slog.Int64("quote_id", quote.ID),
		slog.Int64("offset", offset),
		slog.Int64("count", count),
	)

	return quote, nil
}

// fail records the outcome on the span and metrics and returns err unchanged.
func (s *QuoteService) fail(ctx context.Context, span trace.Span, outcome Outcome, err error) error {
	s.metrics.observe(outcome)
	span.SetAttributes(attribute.String("selection.outcome", string(outcome)))

	switch outcome {
	case OutcomeEmpty:
		s.logger.InfoContext(ctx, "quote store is empty")
	case OutcomeFetchMiss:
		s.logger.WarnContext(ctx, "no quote at selected offset", slog.Any("error", err))
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, "store failure")
		s.logger.ErrorContext(ctx, "failed to select random quote", slog.Any("error", err))
	}

	return err
}

// pickOffset maps u in [0, 1) to floor(u*count), clamped into [0, count-1].
func pickOffset(u float64, count int64) int64 {
	offset := int64(math.Floor(u * float64(count)))

	if offset < 0 {
		return 0
	}

	if offset >= count {
		return count - 1
	}

	return offset
}

// asStoreError keeps adapter-produced store errors and wraps anything else.
func asStoreError(op string, err error) error {
	if domain.IsStoreFailure(err) {
		return err
	}

	return domain.NewStoreError(op, err)
}

// globalRandom reads the package-level math/rand/v2 source, which is safe for concurrent use.
type globalRandom struct{}

func (globalRandom) Float64() float64 {
	return rand.Float64()
}
