// Package history records generation and render runs in a SQLite ledger.
//
// The ledger is an append-only audit of invocations per species. It is not a
// changelog of data-product structure; it only answers "what did this tool do
// and when".
package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/datamodeler/internal/foundation/errors"
)

// Action enumerates the operations recorded in the ledger.
type Action string

const (
	ActionGenerate Action = "generate"
	ActionRender   Action = "render"
)

// Event is one recorded run.
type Event struct {
	ID        int64
	Species   string
	Release   string
	Action    Action
	Outcome   string
	Detail    string
	Timestamp time.Time
}

// Store is a SQLite-backed history ledger.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (creating if needed) the ledger database at path.
// Use ":memory:" for an in-memory ledger.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.WrapError(err, errors.CategoryStore, "could not create history directory").
				WithContext("path", path).
				Build()
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryStore, "could not open history database").
			WithContext("path", path).
			Build()
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, errors.WrapError(err, errors.CategoryStore, "could not initialize history schema").
			WithContext("path", path).
			Build()
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		species TEXT NOT NULL,
		release TEXT NOT NULL,
		action TEXT NOT NULL,
		outcome TEXT NOT NULL,
		detail TEXT,
		timestamp INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_species ON runs(species);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append records one run.
func (s *Store) Append(ctx context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO runs (species, release, action, outcome, detail, timestamp) VALUES (?, ?, ?, ?, ?, ?)",
		e.Species, e.Release, string(e.Action), e.Outcome, e.Detail, ts.Unix(),
	)
	if err != nil {
		return errors.WrapError(err, errors.CategoryStore, "could not append history event").
			WithContext("species", e.Species).
			Build()
	}
	return nil
}

// Recent returns the newest events, most recent first. An empty species
// selects all species.
func (s *Store) Recent(ctx context.Context, species string, limit int) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 20
	}

	query := "SELECT id, species, release, action, outcome, detail, timestamp FROM runs"
	args := []any{}
	if species != "" {
		query += " WHERE species = ?"
		args = append(args, species)
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryStore, "could not query history").Build()
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var ts int64
		if err := rows.Scan(&e.ID, &e.Species, &e.Release, (*string)(&e.Action), &e.Outcome, &e.Detail, &ts); err != nil {
			return nil, errors.WrapError(err, errors.CategoryStore, "could not scan history row").Build()
		}
		e.Timestamp = time.Unix(ts, 0)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapError(err, errors.CategoryStore, "could not read history rows").Build()
	}
	return events, nil
}
