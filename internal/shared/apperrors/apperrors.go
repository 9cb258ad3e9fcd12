// Package apperrors defines the error kinds shared by every bounded context.
// Application services wrap their domain errors with one of these sentinels so
// adapters can classify failures with errors.Is without knowing the context.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the referenced product, order, or user does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput means a request value is malformed.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnavailable means the product is inactive or out of stock.
	ErrUnavailable = errors.New("product unavailable")
	// ErrInsufficientStock means the requested quantity exceeds current stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidTransition means the requested order status change is not on the lifecycle graph.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrForbidden means the actor has no authority over the target record.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized means no identity could be established for the caller.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict means the request collides with previously stored state.
	ErrConflict = errors.New("conflict")
	// ErrPersistence means the underlying store call failed.
	ErrPersistence = errors.New("persistence failure")
)

// kinds is ordered by precedence: a store failure that happened while
// handling a business rejection is still reported as a store failure.
var kinds = []error{
	ErrPersistence,
	ErrNotFound,
	ErrInvalidInput,
	ErrUnavailable,
	ErrInsufficientStock,
	ErrInvalidTransition,
	ErrForbidden,
	ErrUnauthorized,
	ErrConflict,
}

// Wrap tags cause with kind unless it already carries a kind.
func Wrap(kind error, cause error) error {
	if cause == nil {
		return nil
	}
	if Kind(cause) != nil {
		return cause
	}
	return fmt.Errorf("%w: %w", kind, cause)
}

// Persistence tags cause as ErrPersistence, keeping any kind it already carries
// reachable through errors.Is.
func Persistence(cause error) error {
	if cause == nil {
		return nil
	}
	if errors.Is(cause, ErrPersistence) {
		return cause
	}
	return fmt.Errorf("%w: %w", ErrPersistence, cause)
}

// Kind returns the sentinel carried by err, or nil when err is unclassified.
func Kind(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// KindName returns a stable identifier for the kind carried by err.
func KindName(err error) string {
	switch Kind(err) {
	case ErrNotFound:
		return "NotFound"
	case ErrInvalidInput:
		return "InvalidInput"
	case ErrUnavailable:
		return "Unavailable"
	case ErrInsufficientStock:
		return "InsufficientStock"
	case ErrInvalidTransition:
		return "InvalidTransition"
	case ErrForbidden:
		return "Forbidden"
	case ErrUnauthorized:
		return "Unauthorized"
	case ErrConflict:
		return "Conflict"
	case ErrPersistence:
		return "PersistenceFailure"
	default:
		return ""
	}
}

// FromKindName is the inverse of KindName. Unknown names yield nil.
func FromKindName(name string) error {
	for _, kind := range kinds {
		if KindName(kind) == name {
			return kind
		}
	}
	return nil
}
