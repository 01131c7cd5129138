// Package repository declares the storage interfaces the rest of the
// application programs against. Concrete implementations live in
// subpackages (sqlite).
package repository

import (
	"context"

	"github.com/eei4369/markio/internal/model"
)

// TypeFilter narrows a query to a content-type facet. FilterDocument is a
// catch-all meaning "neither image nor link", matching how the list screens
// group everything else.
type TypeFilter string

const (
	FilterImage    TypeFilter = "image"
	FilterLink     TypeFilter = "link"
	FilterDocument TypeFilter = "document"
)

// QueryOptions carries the optional facets of a bookmark query. Zero values
// contribute no constraint; all present facets are combined with AND.
//
// Tag matches as a case-insensitive substring of the flat tags string, so
// "trip" also matches "roadtrip". Search matches as a case-insensitive
// substring of title, notes, or tags.
type QueryOptions struct {
	Type   TypeFilter
	Tag    string
	Search string
}

type BookmarkRepository interface {
	Create(ctx context.Context, b *model.Bookmark) error
	GetByID(ctx context.Context, id int64) (*model.Bookmark, error)
	Query(ctx context.Context, opts QueryOptions) ([]model.Bookmark, error)
	Update(ctx context.Context, b *model.Bookmark) error
	Delete(ctx context.Context, id int64) error
	DistinctTags(ctx context.Context) ([]string, error)
}
