// internal/db/store.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"modelselector/internal/models"
	"modelselector/internal/submission"
)

// Store journals submission outcomes. It holds no prompt or response text.
type Store struct {
	db *sql.DB
}

// Entry is one journaled outcome.
type Entry struct {
	AttemptID  string
	Model      string
	Endpoint   string
	Phase      string // succeeded, failed
	StatusCode int
	Detail     string
	Fallback   bool
	Timeout    bool
	DurationMS int64
	CreatedAt  time.Time
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS submissions (
		attempt_id TEXT PRIMARY KEY,
		model TEXT NOT NULL,
		endpoint TEXT NOT NULL,
		phase TEXT NOT NULL,
		status_code INTEGER DEFAULT 0,
		detail TEXT,
		fallback INTEGER DEFAULT 0,
		timeout INTEGER DEFAULT 0,
		duration_ms INTEGER DEFAULT 0,
		created_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_submissions_created ON submissions(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a finished attempt. It satisfies submission.Recorder.
func (s *Store) Record(ctx context.Context, o submission.Outcome) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO submissions
		 (attempt_id, model, endpoint, phase, status_code, detail, fallback, timeout, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.AttemptID, o.Model.String(), o.Endpoint, o.Phase.String(), o.StatusCode,
		nullString(o.Detail), o.Fallback, o.Timeout, o.Duration.Milliseconds(), o.StartedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert outcome %s: %w", o.AttemptID, err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT attempt_id, model, endpoint, phase, status_code, detail, fallback, timeout, duration_ms, created_at
		 FROM submissions ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var detail sql.NullString
		if err := rows.Scan(&e.AttemptID, &e.Model, &e.Endpoint, &e.Phase, &e.StatusCode,
			&detail, &e.Fallback, &e.Timeout, &e.DurationMS, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Detail = detail.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Stats counts outcomes per model.
type Stats struct {
	Model     string
	Succeeded int
	Failed    int
}

// StatsByModel aggregates the journal in selector order.
func (s *Store) StatsByModel(ctx context.Context) ([]Stats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT model,
		        SUM(CASE WHEN phase = 'succeeded' THEN 1 ELSE 0 END),
		        SUM(CASE WHEN phase = 'failed' THEN 1 ELSE 0 END)
		 FROM submissions GROUP BY model`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byModel := make(map[string]Stats)
	for rows.Next() {
		var st Stats
		if err := rows.Scan(&st.Model, &st.Succeeded, &st.Failed); err != nil {
			return nil, err
		}
		byModel[st.Model] = st
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stats := make([]Stats, 0, len(byModel))
	for _, id := range models.All() {
		if st, ok := byModel[id.String()]; ok {
			stats = append(stats, st)
		}
	}
	return stats, nil
}

// Prune deletes entries older than cutoff and returns how many were removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM submissions WHERE created_at < ?`, cutoff.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var _ submission.Recorder = (*Store)(nil)
