// Package geocode turns stored coordinate pairs into human-readable
// addresses for display. The Enricher is a pure function of its input plus
// an injected Resolver; every failure degrades to a textual fallback, so
// the read path of the repository is never aborted by the geocoding side
// channel.
package geocode

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/eei4369/markio/internal/model"
)

// Address is a resolved postal address, one display line per element.
type Address struct {
	Lines []string
}

// Resolver is the reverse-geocoding capability the enricher depends on.
// A nil result with a nil error means the service answered but knows no
// address for the coordinates.
type Resolver interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (*Address, error)
}

// DefaultTimeout bounds a single reverse lookup. A slow resolver degrades
// to the network-error fallback instead of hanging the caller.
const DefaultTimeout = 5 * time.Second

// NotSelected is the display string for bookmarks without a location.
const NotSelected = "Location: Not selected"

// Enricher formats readable addresses with deterministic fallbacks.
type Enricher struct {
	resolver Resolver
	timeout  time.Duration
	logger   *slog.Logger
}

// NewEnricher creates an Enricher around the given resolver. A
// non-positive timeout falls back to DefaultTimeout.
func NewEnricher(resolver Resolver, timeout time.Duration, logger *slog.Logger) *Enricher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Enricher{
		resolver: resolver,
		timeout:  timeout,
		logger:   logger,
	}
}

// ReadableAddress produces the display string for a stored
// geographic_location value. It never fails: malformed input, a resolver
// error, and an empty result each map to a distinct fallback string.
func (e *Enricher) ReadableAddress(ctx context.Context, geographicLocation string) string {
	if geographicLocation == "" || geographicLocation == model.UnsetLocation {
		return NotSelected
	}

	lat, lon, err := model.ParseCoordinates(geographicLocation)
	if err != nil {
		return fmt.Sprintf("Location: %s (Error)", geographicLocation)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	addr, err := e.resolver.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		e.logger.Warn("reverse geocode failed",
			slog.String("location", geographicLocation),
			slog.String("error", err.Error()),
		)
		return fmt.Sprintf("Location: %s (Network error)", geographicLocation)
	}
	if addr == nil || len(addr.Lines) == 0 {
		return fmt.Sprintf("Location: %s (No address found)", geographicLocation)
	}

	joined := strings.TrimSpace(strings.Join(addr.Lines, "\n"))
	if joined == "" {
		return fmt.Sprintf("Location: %s (No address found)", geographicLocation)
	}

	// A result with no comma structure is a low-confidence single-line
	// answer; append the raw coordinates for disambiguation.
	if len(strings.Split(joined, ",")) <= 1 {
		return fmt.Sprintf("Location: %s (%s)", joined, geographicLocation)
	}
	return "Location: " + joined
}
