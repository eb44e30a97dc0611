package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/randalmurphal/fieldflow/pkg/fieldflow/state"
)

// Version is the current session record format version.
// Increment when making breaking changes to the record structure.
const Version = 1

// record is the persisted envelope around a snapshot. Both backends
// store the same JSON, so sessions can migrate between them.
type record struct {
	Version   int             `json:"version"`
	SessionID string          `json:"session_id"`
	AgentID   string          `json:"agent_id,omitempty"`
	Complete  bool            `json:"complete,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
	State     json.RawMessage `json:"state"`
}

// encodeSnapshot wraps a snapshot in a versioned record and serializes
// it.
func encodeSnapshot(snap state.Snapshot) ([]byte, error) {
	stateJSON, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	rec := record{
		Version:   Version,
		SessionID: snap.SessionID,
		AgentID:   snap.AgentID,
		Complete:  snap.IsComplete,
		UpdatedAt: time.Now().UTC(),
		State:     stateJSON,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal session record: %w", err)
	}
	return data, nil
}

// decodeSnapshot unwraps a serialized record back into a snapshot.
func decodeSnapshot(data []byte) (state.Snapshot, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return state.Snapshot{}, fmt.Errorf("unmarshal session record: %w", err)
	}
	if rec.Version > Version {
		return state.Snapshot{}, fmt.Errorf("unsupported session record version %d", rec.Version)
	}
	var snap state.Snapshot
	if err := json.Unmarshal(rec.State, &snap); err != nil {
		return state.Snapshot{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snap, nil
}
