package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/eei4369/markio/internal/apperror"
)

// NominatimResolver resolves coordinates against a Nominatim-compatible
// reverse-geocoding endpoint. Public Nominatim instances require an
// identifying User-Agent per their usage policy.
type NominatimResolver struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// DefaultBaseURL is the public OpenStreetMap Nominatim instance.
const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// NewNominatimResolver creates a resolver for the given endpoint. An empty
// baseURL selects the public OpenStreetMap instance; a nil client uses
// http.DefaultClient. Per-lookup deadlines come from the caller's context.
func NewNominatimResolver(baseURL, userAgent string, client *http.Client) *NominatimResolver {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &NominatimResolver{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		client:    client,
	}
}

// reverseResponse is the subset of the Nominatim reverse payload we use.
// An unknown location answers 200 with an "error" field rather than a
// non-2xx status.
type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

// ReverseGeocode looks up the address for a coordinate pair. A location the
// service knows no address for yields (nil, nil); transport and protocol
// failures yield a geocode error.
func (r *NominatimResolver) ReverseGeocode(ctx context.Context, lat, lon float64) (*Address, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", fmt.Sprintf("%.6f", lat))
	q.Set("lon", fmt.Sprintf("%.6f", lon))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		r.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("geocode: building reverse request: %w", err)
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode: reverse request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperror.Geocode(fmt.Sprintf("reverse geocode returned status %d", resp.StatusCode))
	}

	var payload reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("geocode: decoding reverse response: %w", err)
	}
	if payload.Error != "" || payload.DisplayName == "" {
		return nil, nil
	}

	// display_name is one comma-separated line; keep it whole so the
	// enricher can judge its structure.
	return &Address{Lines: []string{payload.DisplayName}}, nil
}
