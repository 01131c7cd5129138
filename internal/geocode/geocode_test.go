package geocode

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eei4369/markio/internal/model"
)

// stubResolver returns a canned answer, simulating the external geocoding
// capability without any network.
type stubResolver struct {
	addr *Address
	err  error
}

func (s *stubResolver) ReverseGeocode(_ context.Context, _, _ float64) (*Address, error) {
	return s.addr, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReadableAddress_EmptyAndSentinel(t *testing.T) {
	e := NewEnricher(&stubResolver{addr: &Address{Lines: []string{"should not be used"}}}, 0, discardLogger())

	// Neither the empty string nor the unset sentinel may ever reach the
	// resolver.
	assert.Equal(t, NotSelected, e.ReadableAddress(context.Background(), ""))
	assert.Equal(t, NotSelected, e.ReadableAddress(context.Background(), model.UnsetLocation))
}

func TestReadableAddress_Resolved(t *testing.T) {
	e := NewEnricher(&stubResolver{
		addr: &Address{Lines: []string{"10 Downing Street, Westminster, London"}},
	}, 0, discardLogger())

	got := e.ReadableAddress(context.Background(), "51.503400,-0.127600")
	assert.Equal(t, "Location: 10 Downing Street, Westminster, London", got)
}

func TestReadableAddress_SingleLineLowConfidence(t *testing.T) {
	// An answer with no comma structure gets the raw coordinates appended
	// for disambiguation.
	e := NewEnricher(&stubResolver{addr: &Address{Lines: []string{"Atlantis"}}}, 0, discardLogger())

	got := e.ReadableAddress(context.Background(), "31.000000,-24.000000")
	assert.Equal(t, "Location: Atlantis (31.000000,-24.000000)", got)
}

func TestReadableAddress_NoResult(t *testing.T) {
	e := NewEnricher(&stubResolver{addr: nil}, 0, discardLogger())

	got := e.ReadableAddress(context.Background(), "0.000000,-160.000000")
	assert.Equal(t, "Location: 0.000000,-160.000000 (No address found)", got)
}

func TestReadableAddress_ResolverError(t *testing.T) {
	e := NewEnricher(&stubResolver{err: errors.New("connection refused")}, 0, discardLogger())

	got := e.ReadableAddress(context.Background(), "51.503400,-0.127600")
	assert.Equal(t, "Location: 51.503400,-0.127600 (Network error)", got)
}

func TestReadableAddress_MalformedCoordinates(t *testing.T) {
	e := NewEnricher(&stubResolver{}, 0, discardLogger())

	got := e.ReadableAddress(context.Background(), "not-a-pair")
	assert.Equal(t, "Location: not-a-pair (Error)", got)
}

// slowResolver blocks until its context is cancelled.
type slowResolver struct{}

func (slowResolver) ReverseGeocode(ctx context.Context, _, _ float64) (*Address, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestReadableAddress_TimeoutDegrades(t *testing.T) {
	e := NewEnricher(slowResolver{}, 10*time.Millisecond, discardLogger())

	got := e.ReadableAddress(context.Background(), "51.503400,-0.127600")
	assert.Equal(t, "Location: 51.503400,-0.127600 (Network error)", got)
}

func TestNominatimResolver_ReverseGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "jsonv2", r.URL.Query().Get("format"))
		assert.Equal(t, "51.503400", r.URL.Query().Get("lat"))
		assert.Equal(t, "markio-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"display_name": "10 Downing Street, Westminster, London"}`)
	}))
	defer srv.Close()

	r := NewNominatimResolver(srv.URL, "markio-test", srv.Client())
	addr, err := r.ReverseGeocode(context.Background(), 51.5034, -0.1276)
	require.NoError(t, err)
	require.NotNil(t, addr)
	assert.Equal(t, []string{"10 Downing Street, Westminster, London"}, addr.Lines)
}

func TestNominatimResolver_UnknownLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Nominatim reports "nothing here" as a 200 with an error field.
		io.WriteString(w, `{"error": "Unable to geocode"}`)
	}))
	defer srv.Close()

	r := NewNominatimResolver(srv.URL, "markio-test", srv.Client())
	addr, err := r.ReverseGeocode(context.Background(), 0, -160)
	require.NoError(t, err)
	assert.Nil(t, addr)
}

func TestNominatimResolver_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	r := NewNominatimResolver(srv.URL, "markio-test", srv.Client())
	_, err := r.ReverseGeocode(context.Background(), 51.5034, -0.1276)
	assert.Error(t, err)
}
