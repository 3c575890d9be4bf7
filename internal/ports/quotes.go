// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never driver rows or infrastructure types
//   - Error returns use domain error types (ErrStoreFailure, etc.)
//   - Keep interfaces small and focused
package ports

import (
	"context"

	"github.com/moviequotes/quote-service/internal/domain"
)

// QuoteRepository is the read-only view of the quote store.
// The selector needs exactly two queries: a row count and a single-row
// fetch by position in the store's natural order.
type QuoteRepository interface {
	// Count returns the number of stored quotes.
	// Returns domain.ErrStoreFailure if the query fails.
	Count(ctx context.Context) (int64, error)

	// QuoteAt returns the quote at the zero-based offset.
	// Returns (nil, nil) when no row exists at that offset.
	// Returns domain.ErrStoreFailure if the query fails or the row is malformed.
	QuoteAt(ctx context.Context, offset int64) (*domain.Quote, error)
}

// RandomSource yields uniform values in [0, 1).
// *math/rand/v2.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}
