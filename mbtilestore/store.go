// Package mbtilestore persists encoded MVT tiles into an MBTiles-format
// SQLite database: the on-disk sink the tile builder's output is expected to
// flow into once compressed and addressed by (zoom, column, row). Adapted
// from the teacher's mbtiles.go, same driver and PRAGMA tuning, generalized
// from a package-level *sql.DB plus free functions into a Store value the
// caller constructs and owns.
package mbtilestore

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps a single MBTiles SQLite database.
type Store struct {
	db *sql.DB
}

// Open creates (or reopens) the MBTiles database at path, applying the same
// pragmas the teacher's mbtilesOpen used: synchronous writes disabled and an
// exclusive, non-WAL journal, appropriate for a single writer that owns the
// whole file for the duration of a tiling run.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("mbtilestore: open %s: %w", path, err)
	}

	pragmas := []string{
		"PRAGMA synchronous=0",
		"PRAGMA locking_mode=EXCLUSIVE",
		"PRAGMA journal_mode=DELETE",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("mbtilestore: %s: %w", p, err)
		}
	}

	schema := []string{
		"create table if not exists tiles (zoom_level integer, tile_column integer, tile_row integer, tile_data blob);",
		"create table if not exists metadata (name text, value text);",
		"create unique index if not exists name on metadata (name);",
		"create unique index if not exists tile_index on tiles(zoom_level, tile_column, tile_row);",
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("mbtilestore: schema: %w", err)
		}
	}

	return &Store{db: db}, nil
}

// WriteTile inserts one tile's bytes at (zoom, column, row), flipping row
// into the TMS convention MBTiles uses (rows counted northward from the
// bottom rather than southward from the top).
func (s *Store) WriteTile(zoom, column, row int, data []byte) error {
	tmsRow := 1<<uint(zoom) - 1 - row
	_, err := s.db.Exec(
		"insert into tiles (zoom_level, tile_column, tile_row, tile_data) values (?, ?, ?, ?);",
		zoom, column, tmsRow, data,
	)
	if err != nil {
		return fmt.Errorf("mbtilestore: write tile z=%d x=%d y=%d: %w", zoom, column, row, err)
	}
	return nil
}

// WriteMetadata upserts a single metadata key/value pair (name, format,
// bounds, minzoom, maxzoom, etc. per the MBTiles spec).
func (s *Store) WriteMetadata(name, value string) error {
	_, err := s.db.Exec("insert or replace into metadata (name, value) values (?, ?);", name, value)
	if err != nil {
		return fmt.Errorf("mbtilestore: write metadata %q: %w", name, err)
	}
	return nil
}

// Close runs ANALYZE to refresh the query planner's statistics and closes
// the underlying database handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	if _, err := s.db.Exec("ANALYZE;"); err != nil {
		return fmt.Errorf("mbtilestore: analyze: %w", err)
	}
	return s.db.Close()
}
