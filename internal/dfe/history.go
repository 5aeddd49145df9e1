package dfe

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// ScanRecord is a single audit-trail entry for a completed or failed scan.
// It deliberately carries only enough to answer "what ran, when, how many
// hosts did it find" -- the engine itself stays stateless per call and
// does not persist device inventory.
type ScanRecord struct {
	ID         uuid.UUID `json:"id"`
	CIDR       string    `json:"cidr"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	HostCount  int       `json:"host_count"`
	Error      string    `json:"error,omitempty"`
}

// HistoryStore persists ScanRecord audit entries to a narrow SQLite table.
type HistoryStore struct {
	db *sql.DB
}

// OpenHistoryStore opens (or creates) the scan_history database at path
// and ensures the schema exists.
func OpenHistoryStore(path string) (*HistoryStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %q: %w", path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}

	const schema = `
CREATE TABLE IF NOT EXISTS scan_history (
	id          TEXT PRIMARY KEY,
	cidr        TEXT NOT NULL,
	started_at  TIMESTAMP NOT NULL,
	finished_at TIMESTAMP NOT NULL,
	host_count  INTEGER NOT NULL,
	error       TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_scan_history_started_at ON scan_history(started_at DESC);
`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &HistoryStore{db: db}, nil
}

// Close closes the underlying database handle.
func (h *HistoryStore) Close() error {
	return h.db.Close()
}

// Record inserts a completed ScanRecord into the audit table.
func (h *HistoryStore) Record(ctx context.Context, rec ScanRecord) error {
	_, err := h.db.ExecContext(ctx,
		`INSERT INTO scan_history (id, cidr, started_at, finished_at, host_count, error) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID.String(), rec.CIDR, rec.StartedAt, rec.FinishedAt, rec.HostCount, rec.Error,
	)
	if err != nil {
		return fmt.Errorf("insert scan_history: %w", err)
	}
	return nil
}

// List returns the most recent scan records, newest first, bounded by limit.
func (h *HistoryStore) List(ctx context.Context, limit int) ([]ScanRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := h.db.QueryContext(ctx,
		`SELECT id, cidr, started_at, finished_at, host_count, error FROM scan_history ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query scan_history: %w", err)
	}
	defer rows.Close()

	var out []ScanRecord
	for rows.Next() {
		var rec ScanRecord
		var id string
		if err := rows.Scan(&id, &rec.CIDR, &rec.StartedAt, &rec.FinishedAt, &rec.HostCount, &rec.Error); err != nil {
			return nil, fmt.Errorf("scan scan_history row: %w", err)
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse scan id %q: %w", id, err)
		}
		rec.ID = parsed
		out = append(out, rec)
	}
	return out, rows.Err()
}
