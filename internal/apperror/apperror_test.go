package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("bookmark", 42),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("title", "title cannot be empty"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Storage wraps ErrStorage",
			err:       Storage("insert", errors.New("disk full")),
			target:    ErrStorage,
			wantMatch: true,
		},
		{
			name:      "Geocode wraps ErrGeocode",
			err:       Geocode("reverse lookup timed out"),
			target:    ErrGeocode,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("bookmark", 42),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "ValidationFailed does NOT match ErrNotFound",
			err:       ValidationFailed("title", "title cannot be empty"),
			target:    ErrNotFound,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

// Wrapping with %w must preserve the sentinel through intermediate layers.
func TestWrappedChain(t *testing.T) {
	inner := NotFound("bookmark", 7)
	outer := fmt.Errorf("loading bookmark: %w", inner)

	if !errors.Is(outer, ErrNotFound) {
		t.Errorf("errors.Is through a wrapped chain = false, want true")
	}
}

func TestErrorMessages(t *testing.T) {
	err := NotFound("bookmark", 42)
	if err.Error() != "bookmark not found with id 42" {
		t.Errorf("Error() = %q", err.Error())
	}

	verr := ValidationFailed("title", "title cannot be empty")
	if verr.Field != "title" {
		t.Errorf("Field = %q, want %q", verr.Field, "title")
	}
	if verr.Error() != "title cannot be empty" {
		t.Errorf("Error() = %q", verr.Error())
	}
}
