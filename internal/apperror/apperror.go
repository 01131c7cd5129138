// Package apperror defines the application's error taxonomy. Each layer
// returns these domain errors; callers classify them with errors.Is and
// decide how to surface them (the HTTP layer maps them to status codes).
package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means an operation targeted an id that does not exist.
	// Expected and benign — deleting an already-deleted row is a no-op,
	// not a crash.
	ErrNotFound = errors.New("not found")
	// ErrValidation means caller-supplied data violates an invariant.
	// Never retried automatically.
	ErrValidation = errors.New("validation error")
	// ErrStorage means the underlying persistence failed.
	ErrStorage = errors.New("storage error")
	// ErrGeocode means the reverse-geocoding side channel failed. Always
	// recovered locally into a fallback display string, never a hard
	// failure of a read.
	ErrGeocode = errors.New("geocode error")
)

type AppError struct {
	Err     error  // underlying sentinel
	Message string // human-readable error message
	Field   string // optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource string, id int64) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %d", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Storage(op string, err error) *AppError {
	return &AppError{
		Err:     ErrStorage,
		Message: fmt.Sprintf("storage failure during %s: %v", op, err),
	}
}

func Geocode(message string) *AppError {
	return &AppError{
		Err:     ErrGeocode,
		Message: message,
	}
}
