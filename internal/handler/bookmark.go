// Package handler exposes the bookmark core over JSON/HTTP. Handlers parse
// requests, delegate to the service layer, and translate domain errors to
// status codes — no business logic lives here.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/eei4369/markio/internal/apperror"
	"github.com/eei4369/markio/internal/repository"
	"github.com/eei4369/markio/internal/service"
)

// BookmarkHandler manages CRUD and query operations for bookmarks.
type BookmarkHandler struct {
	service *service.BookmarkService
	logger  *slog.Logger
}

func NewBookmarkHandler(service *service.BookmarkService, logger *slog.Logger) *BookmarkHandler {
	return &BookmarkHandler{service: service, logger: logger}
}

// idParam parses the {id} route parameter.
func idParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperror.ValidationFailed("id", "bookmark id must be an integer")
	}
	return id, nil
}

// HandleQuery returns bookmarks matching the optional facets, newest first.
//
// HTTP: GET /api/bookmarks?type=image|link|document&tag=...&q=...
func (h *BookmarkHandler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	opts := repository.QueryOptions{
		Type:   repository.TypeFilter(r.URL.Query().Get("type")),
		Tag:    r.URL.Query().Get("tag"),
		Search: r.URL.Query().Get("q"),
	}

	switch opts.Type {
	case "", repository.FilterImage, repository.FilterLink, repository.FilterDocument:
	default:
		writeError(w, apperror.ValidationFailed("type",
			"type filter must be one of image, link, document"))
		return
	}

	bookmarks, err := h.service.Query(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookmarks)
}

// HandleGetByID returns a single bookmark.
//
// HTTP: GET /api/bookmarks/{id}
func (h *BookmarkHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	b, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// HandleCreate saves a new bookmark.
//
// HTTP: POST /api/bookmarks
// BODY: service.BookmarkInput JSON
func (h *BookmarkHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.BookmarkInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Warn("invalid bookmark JSON", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	b, err := h.service.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// HandleUpdate overwrites an existing bookmark.
//
// HTTP: PUT /api/bookmarks/{id}
func (h *BookmarkHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var in service.BookmarkInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Warn("invalid bookmark JSON", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	b, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// HandleDelete removes a bookmark.
//
// HTTP: DELETE /api/bookmarks/{id}
func (h *BookmarkHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleTags enumerates all distinct normalized tags.
//
// HTTP: GET /api/tags
func (h *BookmarkHandler) HandleTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.service.DistinctTags(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}
