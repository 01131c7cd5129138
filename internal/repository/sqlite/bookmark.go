package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/eei4369/markio/internal/apperror"
	"github.com/eei4369/markio/internal/model"
	"github.com/eei4369/markio/internal/repository"
)

// Compile-time check that *DB satisfies the repository interface.
var _ repository.BookmarkRepository = (*DB)(nil)

// bookmarkColumns is the projection shared by every read path. Nullable
// text columns are coalesced so rows written before a column existed (or by
// older clients) scan cleanly into plain strings.
const bookmarkColumns = `id, title, COALESCE(notes, ''), COALESCE(content_type, ''),
	COALESCE(content_uri, ''), COALESCE(link_url, ''),
	COALESCE(geographic_location, ''), COALESCE(timestamp, 0), COALESCE(tags, '')`

// Create inserts a new bookmark, assigning its id and stamping a fresh
// timestamp in place. Field validation and content-type derivation belong
// to the service layer; the repository persists what it is given.
func (db *DB) Create(ctx context.Context, b *model.Bookmark) error {
	b.Timestamp = db.now().UnixMilli()

	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO bookmarks (title, notes, content_type, content_uri, link_url,
		                        geographic_location, timestamp, tags)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Title,
		b.Notes,
		string(b.ContentType),
		b.ContentURI,
		b.LinkURL,
		b.GeographicLocation,
		b.Timestamp,
		b.Tags,
	)
	if err != nil {
		return apperror.Storage("insert", fmt.Errorf("sqlite: creating bookmark: %w", err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperror.Storage("insert", fmt.Errorf("sqlite: reading inserted id: %w", err))
	}
	b.ID = id

	return nil
}

// GetByID retrieves a single bookmark by its id.
func (db *DB) GetByID(ctx context.Context, id int64) (*model.Bookmark, error) {
	var b model.Bookmark

	err := db.conn.QueryRowContext(ctx,
		`SELECT `+bookmarkColumns+` FROM bookmarks WHERE id = ?`,
		id,
	).Scan(
		&b.ID,
		&b.Title,
		&b.Notes,
		&b.ContentType,
		&b.ContentURI,
		&b.LinkURL,
		&b.GeographicLocation,
		&b.Timestamp,
		&b.Tags,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("bookmark", id)
		}
		return nil, apperror.Storage("select", fmt.Errorf("sqlite: getting bookmark %d: %w", id, err))
	}

	return &b, nil
}

// Query returns bookmarks matching the given facets, newest first. This is
// the only sort order the application supports.
//
// Each present facet contributes one WHERE fragment; fragments are joined
// with AND. Matching is substring-based throughout — a tag facet of "trip"
// matches a stored tag "roadtrip".
func (db *DB) Query(ctx context.Context, opts repository.QueryOptions) ([]model.Bookmark, error) {
	var (
		where []string
		args  []any
	)

	switch opts.Type {
	case repository.FilterImage, repository.FilterLink:
		where = append(where, `content_type = ?`)
		args = append(args, string(opts.Type))
	case repository.FilterDocument:
		// "document" is the catch-all facet: everything that is neither an
		// image nor a link.
		where = append(where, `content_type != ? AND content_type != ?`)
		args = append(args, string(repository.FilterImage), string(repository.FilterLink))
	}

	if opts.Tag != "" {
		where = append(where, `LOWER(tags) LIKE ?`)
		args = append(args, "%"+strings.ToLower(opts.Tag)+"%")
	}

	if opts.Search != "" {
		where = append(where, `(LOWER(title) LIKE ? OR LOWER(notes) LIKE ? OR LOWER(tags) LIKE ?)`)
		pattern := "%" + strings.ToLower(opts.Search) + "%"
		args = append(args, pattern, pattern, pattern)
	}

	query := `SELECT ` + bookmarkColumns + ` FROM bookmarks`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY timestamp DESC`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperror.Storage("select", fmt.Errorf("sqlite: querying bookmarks: %w", err))
	}
	defer rows.Close()

	bookmarks := make([]model.Bookmark, 0, 16)
	for rows.Next() {
		var b model.Bookmark
		if err := rows.Scan(
			&b.ID, &b.Title, &b.Notes, &b.ContentType, &b.ContentURI,
			&b.LinkURL, &b.GeographicLocation, &b.Timestamp, &b.Tags,
		); err != nil {
			return nil, apperror.Storage("select", fmt.Errorf("sqlite: scanning bookmark row: %w", err))
		}
		bookmarks = append(bookmarks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Storage("select", fmt.Errorf("sqlite: iterating bookmarks: %w", err))
	}

	return bookmarks, nil
}

// Update overwrites every column of the row matching b.ID and stamps a
// fresh timestamp (the timestamp doubles as modification time). A zero
// rows-affected count means the id does not exist.
func (db *DB) Update(ctx context.Context, b *model.Bookmark) error {
	b.Timestamp = db.now().UnixMilli()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE bookmarks
		 SET title = ?, notes = ?, content_type = ?, content_uri = ?, link_url = ?,
		     geographic_location = ?, timestamp = ?, tags = ?
		 WHERE id = ?`,
		b.Title,
		b.Notes,
		string(b.ContentType),
		b.ContentURI,
		b.LinkURL,
		b.GeographicLocation,
		b.Timestamp,
		b.Tags,
		b.ID,
	)
	if err != nil {
		return apperror.Storage("update", fmt.Errorf("sqlite: updating bookmark %d: %w", b.ID, err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperror.Storage("update", fmt.Errorf("sqlite: checking rows affected: %w", err))
	}
	if rowsAffected == 0 {
		return apperror.NotFound("bookmark", b.ID)
	}

	return nil
}

// Delete removes the bookmark with the given id. Deleting an id that does
// not exist reports NotFound rather than failing hard.
func (db *DB) Delete(ctx context.Context, id int64) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM bookmarks WHERE id = ?`,
		id,
	)
	if err != nil {
		return apperror.Storage("delete", fmt.Errorf("sqlite: deleting bookmark %d: %w", id, err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperror.Storage("delete", fmt.Errorf("sqlite: checking rows affected: %w", err))
	}
	if rowsAffected == 0 {
		return apperror.NotFound("bookmark", id)
	}

	return nil
}

// DistinctTags enumerates every tag in use, normalized (trimmed,
// lower-cased) and deduplicated, sorted ascending. Tags live in a flat
// comma-separated column, so the split happens here rather than in SQL.
func (db *DB) DistinctTags(ctx context.Context) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT tags FROM bookmarks WHERE tags != ''`,
	)
	if err != nil {
		return nil, apperror.Storage("select", fmt.Errorf("sqlite: listing tags: %w", err))
	}
	defer rows.Close()

	seen := make(map[string]struct{})
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, apperror.Storage("select", fmt.Errorf("sqlite: scanning tags row: %w", err))
		}
		for _, tag := range model.SplitTags(tags) {
			seen[tag] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Storage("select", fmt.Errorf("sqlite: iterating tags: %w", err))
	}

	out := make([]string, 0, len(seen))
	for tag := range seen {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out, nil
}
