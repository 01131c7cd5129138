// Package service contains the business layer: it validates caller input,
// applies the entity derivation rules, and orchestrates the repository and
// the location enricher. It knows nothing about HTTP or SQL.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/eei4369/markio/internal/apperror"
	"github.com/eei4369/markio/internal/geocode"
	"github.com/eei4369/markio/internal/model"
	"github.com/eei4369/markio/internal/repository"
)

// BookmarkInput is the caller-supplied shape of a bookmark. ContentType is
// deliberately absent — it is always derived from ContentURI/MimeType or
// LinkURL, never accepted from the caller.
type BookmarkInput struct {
	Title              string `json:"title"`
	Notes              string `json:"notes"`
	ContentURI         string `json:"contentUri"`
	MimeType           string `json:"mimeType"`
	LinkURL            string `json:"linkUrl"`
	GeographicLocation string `json:"geographicLocation"`
	Tags               string `json:"tags"`
}

// BookmarkService handles business logic for bookmarks. The enricher may be
// nil, in which case read paths return rows with ReadableAddress unset and
// address resolution is left to the caller.
type BookmarkService struct {
	repo     repository.BookmarkRepository
	enricher *geocode.Enricher
	logger   *slog.Logger
}

func NewBookmarkService(repo repository.BookmarkRepository, enricher *geocode.Enricher, logger *slog.Logger) *BookmarkService {
	return &BookmarkService{
		repo:     repo,
		enricher: enricher,
		logger:   logger,
	}
}

// validate checks the write-time invariants and returns the derived fields
// applied to a fresh model. The title must be non-empty; a non-empty,
// non-sentinel location must parse as a coordinate pair.
func (s *BookmarkService) validate(in BookmarkInput) (*model.Bookmark, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "title cannot be empty")
	}

	location := strings.TrimSpace(in.GeographicLocation)
	if location != "" && location != model.UnsetLocation {
		if _, _, err := model.ParseCoordinates(location); err != nil {
			return nil, apperror.ValidationFailed("geographicLocation",
				fmt.Sprintf("malformed coordinates %q", location))
		}
	}

	linkURL := model.NormalizeURL(strings.TrimSpace(in.LinkURL))

	return &model.Bookmark{
		Title:              title,
		Notes:              strings.TrimSpace(in.Notes),
		ContentType:        model.DeriveContentType(in.ContentURI, in.MimeType, linkURL),
		ContentURI:         in.ContentURI,
		LinkURL:            linkURL,
		GeographicLocation: location,
		Tags:               strings.TrimSpace(in.Tags),
	}, nil
}

// Create validates and persists a new bookmark, returning it with the
// storage-assigned id and timestamp.
func (s *BookmarkService) Create(ctx context.Context, in BookmarkInput) (*model.Bookmark, error) {
	b, err := s.validate(in)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, b); err != nil {
		s.logger.Error("failed to create bookmark",
			slog.String("title", b.Title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating bookmark: %w", err)
	}

	s.logger.Info("bookmark created",
		slog.Int64("id", b.ID),
		slog.String("contentType", string(b.ContentType)),
	)
	return b, nil
}

// Update validates the input and overwrites every field of the bookmark
// with the given id, refreshing its timestamp. Returns NotFound if the id
// does not exist.
func (s *BookmarkService) Update(ctx context.Context, id int64, in BookmarkInput) (*model.Bookmark, error) {
	if id <= 0 {
		return nil, apperror.ValidationFailed("id", "bookmark id is required")
	}

	b, err := s.validate(in)
	if err != nil {
		return nil, err
	}
	b.ID = id

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("bookmark updated", slog.Int64("id", id))
	return b, nil
}

// Delete removes a bookmark by id. A missing id reports NotFound, which
// callers treat as a benign no-op rather than a fault.
func (s *BookmarkService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperror.ValidationFailed("id", "bookmark id is required")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("bookmark deleted", slog.Int64("id", id))
	return nil
}

// GetByID retrieves a single bookmark, with its readable address resolved
// when an enricher is configured.
func (s *BookmarkService) GetByID(ctx context.Context, id int64) (*model.Bookmark, error) {
	if id <= 0 {
		return nil, apperror.ValidationFailed("id", "bookmark id is required")
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.enrich(ctx, b)
	return b, nil
}

// Query returns bookmarks matching the given facets, newest first, each
// with its readable address resolved when an enricher is configured.
// Enrichment failures degrade to fallback strings and never fail the query.
func (s *BookmarkService) Query(ctx context.Context, opts repository.QueryOptions) ([]model.Bookmark, error) {
	bookmarks, err := s.repo.Query(ctx, opts)
	if err != nil {
		s.logger.Error("failed to query bookmarks", slog.String("error", err.Error()))
		return nil, fmt.Errorf("querying bookmarks: %w", err)
	}

	for i := range bookmarks {
		s.enrich(ctx, &bookmarks[i])
	}
	return bookmarks, nil
}

// DistinctTags enumerates all tags in use, normalized and sorted.
func (s *BookmarkService) DistinctTags(ctx context.Context) ([]string, error) {
	tags, err := s.repo.DistinctTags(ctx)
	if err != nil {
		s.logger.Error("failed to list tags", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	return tags, nil
}

func (s *BookmarkService) enrich(ctx context.Context, b *model.Bookmark) {
	if s.enricher == nil {
		return
	}
	b.ReadableAddress = s.enricher.ReadableAddress(ctx, b.GeographicLocation)
}
