package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/randalmurphal/fieldflow/pkg/fieldflow/state"
)

// SQLite persists sessions to SQLite.
// It is suitable for single-process production use.
type SQLite struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLite creates a new SQLite session store.
// The path should be a file path (e.g., "./sessions.db") or ":memory:"
// for testing.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			agent_id TEXT NOT NULL,
			complete INTEGER NOT NULL DEFAULT 0,
			updated_at TEXT NOT NULL,
			data BLOB NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_sessions_agent_id
		ON sessions(agent_id)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Save implements Store.
func (s *SQLite) Save(ctx context.Context, snap state.Snapshot) error {
	data, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (session_id, agent_id, complete, updated_at, data)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			agent_id = excluded.agent_id,
			complete = excluded.complete,
			updated_at = excluded.updated_at,
			data = excluded.data
	`, snap.SessionID, snap.AgentID, boolToInt(snap.IsComplete),
		time.Now().UTC().Format(time.RFC3339Nano), data)

	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Load implements Store.
func (s *SQLite) Load(ctx context.Context, sessionID string) (state.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return state.Snapshot{}, ErrStoreClosed
	}

	var data []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT data FROM sessions
		WHERE session_id = ?
	`, sessionID).Scan(&data)

	if errors.Is(err, sql.ErrNoRows) {
		return state.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return state.Snapshot{}, fmt.Errorf("load session: %w", err)
	}
	return decodeSnapshot(data)
}

// List implements Store.
func (s *SQLite) List(ctx context.Context) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, agent_id, complete, updated_at, LENGTH(data)
		FROM sessions
		ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	infos := []Info{}
	for rows.Next() {
		var info Info
		var complete int
		var updatedAt string
		if err := rows.Scan(&info.SessionID, &info.AgentID, &complete, &updatedAt, &info.Size); err != nil {
			return nil, fmt.Errorf("scan session info: %w", err)
		}
		info.Complete = complete != 0
		info.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return infos, nil
}

// Delete implements Store.
func (s *SQLite) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	_, err := s.db.ExecContext(ctx, `
		DELETE FROM sessions WHERE session_id = ?
	`, sessionID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
