package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/randalmurphal/fieldflow/pkg/fieldflow/state"
)

// Memory is an in-memory session store for testing and single-process
// deployments that don't need persistence. Data is lost when the
// process exits.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]storedSession
	closed   bool
}

// storedSession holds the serialized snapshot with metadata for List().
type storedSession struct {
	data      []byte
	agentID   string
	complete  bool
	updatedAt time.Time
}

// NewMemory creates a new in-memory session store.
func NewMemory() *Memory {
	return &Memory{
		sessions: make(map[string]storedSession),
	}
}

// Save implements Store.
func (m *Memory) Save(ctx context.Context, snap state.Snapshot) error {
	data, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	m.sessions[snap.SessionID] = storedSession{
		data:      data,
		agentID:   snap.AgentID,
		complete:  snap.IsComplete,
		updatedAt: time.Now().UTC(),
	}
	return nil
}

// Load implements Store.
func (m *Memory) Load(ctx context.Context, sessionID string) (state.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return state.Snapshot{}, ErrStoreClosed
	}

	sess, ok := m.sessions[sessionID]
	if !ok {
		return state.Snapshot{}, ErrNotFound
	}
	return decodeSnapshot(sess.data)
}

// List implements Store.
func (m *Memory) List(ctx context.Context) ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	infos := make([]Info, 0, len(m.sessions))
	for id, sess := range m.sessions {
		infos = append(infos, Info{
			SessionID: id,
			AgentID:   sess.agentID,
			Complete:  sess.complete,
			UpdatedAt: sess.updatedAt,
			Size:      int64(len(sess.data)),
		})
	}

	// Most recently updated first
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].UpdatedAt.After(infos[j].UpdatedAt)
	})

	return infos, nil
}

// Delete implements Store.
func (m *Memory) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	delete(m.sessions, sessionID)
	return nil
}

// Close implements Store.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.sessions = nil
	return nil
}

// Len returns the number of stored sessions. Useful for testing.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sessions)
}
