// CLAUDE:SUMMARY Run record type plus insert and recent-runs queries.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run is one completed parse of one input file.
type Run struct {
	ID         string        `json:"id"`
	Filename   string        `json:"filename"`
	FileType   string        `json:"file_type"`
	ParsedAt   time.Time     `json:"parsed_at"`
	Duration   time.Duration `json:"-"`
	DurationMS int64         `json:"duration_ms"`
	ErrorCount int           `json:"error_count"`
	OutputPath string        `json:"output_path,omitempty"`
}

// Record inserts a run. A missing ID gets a fresh UUID.
func (s *Store) Record(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.ParsedAt.IsZero() {
		run.ParsedAt = time.Now().UTC()
	}
	if run.DurationMS == 0 && run.Duration > 0 {
		run.DurationMS = run.Duration.Milliseconds()
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO runs (id, filename, file_type, parsed_at, duration_ms, error_count, output_path)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Filename, run.FileType, run.ParsedAt.Format(time.RFC3339Nano),
		run.DurationMS, run.ErrorCount, run.OutputPath)
	if err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	return run.ID, nil
}

// Recent returns the latest runs, newest first. limit <= 0 means 50.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, filename, file_type, parsed_at, duration_ms, error_count, output_path
		FROM runs ORDER BY parsed_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var parsedAt string
		if err := rows.Scan(&r.ID, &r.Filename, &r.FileType, &parsedAt,
			&r.DurationMS, &r.ErrorCount, &r.OutputPath); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.ParsedAt, _ = time.Parse(time.RFC3339Nano, parsedAt)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
