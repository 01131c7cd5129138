// Package model defines the data structures used throughout the application,
// together with the pure derivation rules that keep them consistent:
// content-type classification, link URL normalization, and the string
// encoding of geographic coordinates. Nothing in this package performs I/O.
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// ContentType classifies what a bookmark points at. It is always derived
// from the attached content or link at write time, never supplied directly.
type ContentType string

const (
	TypeNote     ContentType = "note"
	TypeLink     ContentType = "link"
	TypeImage    ContentType = "image"
	TypeVideo    ContentType = "video"
	TypeAudio    ContentType = "audio"
	TypeDocument ContentType = "document"
	TypeFile     ContentType = "file"
)

// UnsetLocation is the sentinel a map picker produces when the user never
// moved the pin. It must be treated as "no location" everywhere.
const UnsetLocation = "0.000000,0.000000"

// Bookmark represents a single saved entry with all its details.
//
// ID is zero until the bookmark has been persisted; the repository assigns
// it on insert. Timestamp is epoch milliseconds and doubles as creation and
// modification time — it is refreshed on every insert and update.
// ReadableAddress is derived from GeographicLocation at read time and is
// never written back to storage.
type Bookmark struct {
	ID                 int64       `json:"id"`
	Title              string      `json:"title"`
	Notes              string      `json:"notes"`
	ContentType        ContentType `json:"contentType"`
	ContentURI         string      `json:"contentUri"`
	LinkURL            string      `json:"linkUrl"`
	GeographicLocation string      `json:"geographicLocation"`
	ReadableAddress    string      `json:"readableAddress,omitempty"`
	Timestamp          int64       `json:"timestamp"`
	Tags               string      `json:"tags"`
}

// HasLocation reports whether the bookmark carries a real coordinate pair,
// i.e. the location is neither empty nor the unset sentinel.
func (b *Bookmark) HasLocation() bool {
	return b.GeographicLocation != "" && b.GeographicLocation != UnsetLocation
}

// DeriveContentType classifies a bookmark from whichever reference it
// carries. An attached content URI wins over a link URL, classified by MIME
// prefix; a content URI without a known MIME type is a generic file. With no
// attachment and no link the bookmark is a plain note.
func DeriveContentType(contentURI, mimeType, linkURL string) ContentType {
	if contentURI != "" {
		switch {
		case strings.HasPrefix(mimeType, "image/"):
			return TypeImage
		case strings.HasPrefix(mimeType, "video/"):
			return TypeVideo
		case strings.HasPrefix(mimeType, "audio/"):
			return TypeAudio
		case strings.Contains(mimeType, "pdf"):
			return TypeDocument
		default:
			return TypeFile
		}
	}
	if linkURL != "" {
		return TypeLink
	}
	return TypeNote
}

// NormalizeURL ensures a link URL carries an explicit scheme, prepending
// "http://" when none is present. Empty input stays empty.
func NormalizeURL(raw string) string {
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return "http://" + raw
	}
	return raw
}

// FormatCoordinates encodes a coordinate pair as "<lat>,<lon>" with six
// decimal digits. The decimal separator is always a point, regardless of
// locale.
func FormatCoordinates(lat, lon float64) string {
	return fmt.Sprintf("%.6f,%.6f", lat, lon)
}

// ParseCoordinates decodes a "<lat>,<lon>" pair produced by
// FormatCoordinates. It fails on anything that is not exactly two
// comma-separated floating-point numbers.
func ParseCoordinates(s string) (lat, lon float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("model: coordinates %q: want 2 comma-separated parts, got %d", s, len(parts))
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("model: parsing latitude of %q: %w", s, err)
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("model: parsing longitude of %q: %w", s, err)
	}
	return lat, lon, nil
}

// SplitTags breaks a flat comma-separated tags string into normalized
// (trimmed, lower-cased) labels, dropping empties. The storage format stays
// flat; this is only for enumeration and display.
func SplitTags(tags string) []string {
	if tags == "" {
		return nil
	}
	var out []string
	for _, t := range strings.Split(tags, ",") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
