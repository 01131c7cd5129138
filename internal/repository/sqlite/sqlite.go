// Package sqlite implements the bookmark repository on an embedded SQLite
// database. A single file (or ":memory:" for tests) holds one table; writes
// go through WAL mode so readers never observe a half-written row.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	// Registers the pure-Go "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// schemaVersion is the schema the code expects, tracked in SQLite's
// user_version pragma. Version 1 is the original table without tags;
// version 2 added the tags column.
const schemaVersion = 2

// DB wraps a sql.DB connection pool and implements
// repository.BookmarkRepository.
type DB struct {
	conn *sql.DB

	// now stamps timestamps on create/update. Overridable in tests.
	now func() time.Time
}

// New opens (creating if necessary) the database at dbPath and migrates it
// to the current schema version. Use ":memory:" for a throwaway database.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Single-writer storage: one pooled connection serializes all access,
	// so a reader never observes a half-written row. This also keeps
	// ":memory:" databases coherent — every handle must see the same DB.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL keeps reads available while a write is in flight.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn, now: time.Now}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate brings the stored schema to schemaVersion.
//
// A fresh database (user_version 0) gets the full current schema directly.
// Version 1 gains the tags column, preserving all existing rows. Any other
// version — including one newer than the code, i.e. a downgrade request —
// is handled the same way: ensure the additive v2 shape and stamp the
// current version. There is no destructive migration path.
func (db *DB) migrate() error {
	var version int
	if err := db.conn.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	if version == 0 {
		_, err := db.conn.Exec(`
			CREATE TABLE IF NOT EXISTS bookmarks (
				id                  INTEGER PRIMARY KEY,
				title               TEXT NOT NULL,
				notes               TEXT,
				content_type        TEXT,
				content_uri         TEXT,
				link_url            TEXT,
				geographic_location TEXT,
				timestamp           INTEGER,
				tags                TEXT NOT NULL DEFAULT ''
			);
			CREATE INDEX IF NOT EXISTS idx_bookmarks_timestamp ON bookmarks(timestamp);
		`)
		if err != nil {
			return fmt.Errorf("creating bookmarks table: %w", err)
		}
	} else {
		// v1 → v2: add the tags column. ALTER TABLE errors if the column
		// already exists, so check pragma_table_info first — this also makes
		// the downgrade-as-upgrade path a no-op on an already-v2 table.
		if err := db.addColumnIfNotExists("bookmarks", "tags", `TEXT NOT NULL DEFAULT ''`); err != nil {
			return fmt.Errorf("adding tags to bookmarks: %w", err)
		}
		if _, err := db.conn.Exec(`
			CREATE INDEX IF NOT EXISTS idx_bookmarks_timestamp ON bookmarks(timestamp);
		`); err != nil {
			return fmt.Errorf("creating bookmarks timestamp index: %w", err)
		}
	}

	if _, err := db.conn.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("stamping schema version: %w", err)
	}
	return nil
}

// addColumnIfNotExists adds a column to a table only if it doesn't already
// exist, making ALTER TABLE migrations idempotent.
func (db *DB) addColumnIfNotExists(table, column, definition string) error {
	var count int
	err := db.conn.QueryRow(
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`,
		table, column,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking column %s.%s: %w", table, column, err)
	}
	if count > 0 {
		return nil
	}
	_, err = db.conn.Exec(fmt.Sprintf(
		`ALTER TABLE %s ADD COLUMN %s %s`, table, column, definition,
	))
	return err
}
