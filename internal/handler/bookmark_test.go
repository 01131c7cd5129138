package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eei4369/markio/internal/model"
	"github.com/eei4369/markio/internal/repository/sqlite"
	"github.com/eei4369/markio/internal/service"
)

// newTestRouter wires the handler against a real in-memory database, so
// these tests cover the whole stack below HTTP.
func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewBookmarkHandler(service.NewBookmarkService(db, nil, logger), logger)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/bookmarks", h.HandleQuery)
		r.Get("/bookmarks/{id}", h.HandleGetByID)
		r.Post("/bookmarks", h.HandleCreate)
		r.Put("/bookmarks/{id}", h.HandleUpdate)
		r.Delete("/bookmarks/{id}", h.HandleDelete)
		r.Get("/tags", h.HandleTags)
	})
	return r
}

func doJSON(t *testing.T, r chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestHandleCreate(t *testing.T) {
	r := newTestRouter(t)

	rr := doJSON(t, r, http.MethodPost, "/api/bookmarks", service.BookmarkInput{
		Title:   "Go blog",
		LinkURL: "go.dev/blog",
		Tags:    "go,reading",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	var b model.Bookmark
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &b))
	assert.NotZero(t, b.ID)
	assert.Equal(t, model.TypeLink, b.ContentType)
	assert.Equal(t, "http://go.dev/blog", b.LinkURL)
}

func TestHandleCreate_EmptyTitle(t *testing.T) {
	r := newTestRouter(t)

	rr := doJSON(t, r, http.MethodPost, "/api/bookmarks", service.BookmarkInput{Title: ""})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "validation_error", resp.Error)
}

func TestHandleCreate_InvalidJSON(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/bookmarks", bytes.NewBufferString("{nope"))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleGetByID_NotFound(t *testing.T) {
	r := newTestRouter(t)

	rr := doJSON(t, r, http.MethodGet, "/api/bookmarks/999", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandleGetByID_BadID(t *testing.T) {
	r := newTestRouter(t)

	rr := doJSON(t, r, http.MethodGet, "/api/bookmarks/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleQuery_Facets(t *testing.T) {
	r := newTestRouter(t)

	for _, in := range []service.BookmarkInput{
		{Title: "Street food map", LinkURL: "http://food.example.com", Tags: "trip,food"},
		{Title: "Whiteboard photo", ContentURI: "content://media/77", MimeType: "image/jpeg", Tags: "work"},
		{Title: "Packing list", Tags: "roadtrip"},
	} {
		rr := doJSON(t, r, http.MethodPost, "/api/bookmarks", in)
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	var got []model.Bookmark

	rr := doJSON(t, r, http.MethodGet, "/api/bookmarks?tag=trip", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Len(t, got, 2) // "trip,food" and "roadtrip"

	rr = doJSON(t, r, http.MethodGet, "/api/bookmarks?type=document", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Packing list", got[0].Title)

	rr = doJSON(t, r, http.MethodGet, "/api/bookmarks?q=work", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Whiteboard photo", got[0].Title)
}

func TestHandleQuery_UnknownTypeFilter(t *testing.T) {
	r := newTestRouter(t)

	rr := doJSON(t, r, http.MethodGet, "/api/bookmarks?type=banana", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleUpdateAndDelete(t *testing.T) {
	r := newTestRouter(t)

	rr := doJSON(t, r, http.MethodPost, "/api/bookmarks", service.BookmarkInput{Title: "v1"})
	require.Equal(t, http.StatusCreated, rr.Code)
	var b model.Bookmark
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &b))

	rr = doJSON(t, r, http.MethodPut, "/api/bookmarks/1", service.BookmarkInput{Title: "v2"})
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &b))
	assert.Equal(t, "v2", b.Title)

	rr = doJSON(t, r, http.MethodDelete, "/api/bookmarks/1", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	// Deleting again reports not found rather than crashing.
	rr = doJSON(t, r, http.MethodDelete, "/api/bookmarks/1", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandleTags(t *testing.T) {
	r := newTestRouter(t)

	rr := doJSON(t, r, http.MethodPost, "/api/bookmarks", service.BookmarkInput{
		Title: "tagged", Tags: "Trip, Food",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, r, http.MethodGet, "/api/tags", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var tags []string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tags))
	assert.Equal(t, []string{"food", "trip"}, tags)
}
