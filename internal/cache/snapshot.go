// Package cache persists the last fetched entity collections in a local
// SQLite file, so CLI invocations can list last-known data without a network
// round trip. The backend stays authoritative; snapshots are whole-list
// JSON payloads matching the stores' full-replace semantics.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNoSnapshot indicates no snapshot has been written for the kind.
var ErrNoSnapshot = errors.New("no snapshot available")

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
    kind       TEXT PRIMARY KEY,
    payload    TEXT NOT NULL,
    fetched_at TIMESTAMP NOT NULL
);
`

// Snapshot is a SQLite-backed snapshot store. Use ":memory:" for tests.
type Snapshot struct {
	db *sql.DB
}

// Open opens (and if needed initializes) the snapshot database at path.
func Open(path string) (*Snapshot, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init snapshot schema: %w", err)
	}
	return &Snapshot{db: db}, nil
}

// Close releases the database handle.
func (s *Snapshot) Close() error {
	return s.db.Close()
}

// Save stores v as the snapshot for kind, replacing any previous one.
func (s *Snapshot) Save(ctx context.Context, kind string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s snapshot: %w", kind, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (kind, payload, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(kind) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at
	`, kind, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("write %s snapshot: %w", kind, err)
	}
	return nil
}

// Load decodes the snapshot for kind into out and returns when it was
// fetched. Returns ErrNoSnapshot when none exists.
func (s *Snapshot) Load(ctx context.Context, kind string, out any) (time.Time, error) {
	var payload string
	var fetchedAt time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, fetched_at FROM snapshots WHERE kind = ?`, kind,
	).Scan(&payload, &fetchedAt)
	if err == sql.ErrNoRows {
		return time.Time{}, ErrNoSnapshot
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("read %s snapshot: %w", kind, err)
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return time.Time{}, fmt.Errorf("decode %s snapshot: %w", kind, err)
	}
	return fetchedAt, nil
}
