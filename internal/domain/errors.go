// Package domain holds the quote model and the failures a random selection
// can end in. Adapters decide how each failure is presented.
package domain

import (
	"errors"
	"fmt"
)

// Kinds of failure. Each typed error below unwraps to one of them.
var (
	ErrNotFound     = errors.New("not found")     // empty store
	ErrFetchMiss    = errors.New("fetch miss")    // counted rows, none at the offset
	ErrStoreFailure = errors.New("store failure") // driver error or malformed row
	ErrUnavailable  = errors.New("unavailable")   // store not open or shut down
)

// NotFoundError names what was missing. With no ID it means the whole
// collection is empty.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s with id %q not found", e.Entity, e.ID)
	}

	return "no " + e.Entity + " found"
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// FetchMissError reports an offset that no longer points at a row.
// The store is counted and then read in two statements, so a collection that
// shrinks between them produces this error.
type FetchMissError struct {
	Entity string
	Offset int64
	Count  int64
}

func (e *FetchMissError) Error() string {
	return fmt.Sprintf("could not fetch random %s: no row at offset %d of %d", e.Entity, e.Offset, e.Count)
}

func (e *FetchMissError) Unwrap() error {
	return ErrFetchMiss
}

func NewFetchMissError(entity string, offset, count int64) error {
	return &FetchMissError{Entity: entity, Offset: offset, Count: count}
}

// StoreError wraps a failure from the underlying store.
// Op names the store operation, Cause keeps the driver error for logging.
type StoreError struct {
	Op    string
	Cause error
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("store %s: %v", e.Op, e.Cause)
	}

	return "store " + e.Op + " failed"
}

// Unwrap exposes both the sentinel and the driver cause.
func (e *StoreError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrStoreFailure}
	}

	return []error{ErrStoreFailure, e.Cause}
}

func NewStoreError(op string, cause error) error {
	return &StoreError{Op: op, Cause: cause}
}

// UnavailableError reports a dependency that cannot serve at all.
type UnavailableError struct {
	Service string
	Reason  string
}

func (e *UnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("service %q unavailable: %s", e.Service, e.Reason)
	}

	return fmt.Sprintf("service %q unavailable", e.Service)
}

func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}

func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsFetchMiss(err error) bool {
	return errors.Is(err, ErrFetchMiss)
}

func IsStoreFailure(err error) bool {
	return errors.Is(err, ErrStoreFailure)
}

func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
