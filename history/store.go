// CLAUDE:SUMMARY SQLite handle for the parse run log — opens with WAL pragmas and applies schema.
// Package history records completed parse runs in a local SQLite
// database so operators can audit what went through the pipeline.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Schema creates the run log table.
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	filename    TEXT NOT NULL,
	file_type   TEXT NOT NULL,
	parsed_at   TEXT NOT NULL,
	duration_ms INTEGER NOT NULL,
	error_count INTEGER NOT NULL DEFAULT 0,
	output_path TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_runs_parsed_at ON runs(parsed_at DESC);
`

// Store is the run log database handle.
type Store struct {
	DB *sql.DB
}

// Open opens (or creates) the run log database at path with WAL mode and
// a busy timeout, then applies the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{DB: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.DB.Close()
}
