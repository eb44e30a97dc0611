// Package store persists conversation session snapshots between turns.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/randalmurphal/fieldflow/pkg/fieldflow/state"
)

// Store persists session snapshots.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores the snapshot for its session, overwriting any
	// previous snapshot.
	Save(ctx context.Context, snap state.Snapshot) error

	// Load retrieves the snapshot for a session.
	// Returns ErrNotFound if the session has no saved snapshot.
	Load(ctx context.Context, sessionID string) (state.Snapshot, error)

	// List returns metadata for every stored session, most recently
	// updated first. Returns an empty slice (not an error) when the
	// store is empty.
	List(ctx context.Context) ([]Info, error)

	// Delete removes a session.
	// Returns nil if the session doesn't exist.
	Delete(ctx context.Context, sessionID string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Info provides session metadata without loading the full snapshot.
type Info struct {
	SessionID string
	AgentID   string
	Complete  bool
	UpdatedAt time.Time
	Size      int64
}

// Sentinel errors for session storage.
var (
	// ErrNotFound indicates a session has no saved snapshot.
	ErrNotFound = errors.New("session not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("session store closed")
)
