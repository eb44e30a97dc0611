package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/randalmurphal/fieldflow/pkg/fieldflow"
	"github.com/randalmurphal/fieldflow/pkg/fieldflow/agent"
	"github.com/randalmurphal/fieldflow/pkg/fieldflow/llm"
	"github.com/randalmurphal/fieldflow/pkg/fieldflow/state"
	"github.com/randalmurphal/fieldflow/pkg/fieldflow/store"
)

// Engine drives multi-turn conversations: it loads the session
// snapshot, runs one graph traversal per user message, and saves the
// result. Graphs are compiled once per agent and cached.
type Engine struct {
	agents   *agent.Registry
	sessions store.Store
	client   llm.Client
	logger   *slog.Logger
	settings Settings
	hooks    *HookRegistry
	httpc    *http.Client

	mu     sync.Mutex
	graphs map[string]*fieldflow.CompiledGraph[state.Snapshot]
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithEngineLogger sets the logger used for turn execution.
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithEngineSettings overrides the default limits for every graph the
// engine builds.
func WithEngineSettings(s Settings) EngineOption {
	return func(e *Engine) {
		e.settings = s
	}
}

// WithEngineHooks supplies custom completion actions.
func WithEngineHooks(h *HookRegistry) EngineOption {
	return func(e *Engine) {
		e.hooks = h
	}
}

// WithEngineHTTPClient overrides the client used for webhook
// completion actions.
func WithEngineHTTPClient(client *http.Client) EngineOption {
	return func(e *Engine) {
		e.httpc = client
	}
}

// NewEngine creates a conversation engine. The client may be nil; see
// Build for how steps degrade without a model.
func NewEngine(agents *agent.Registry, sessions store.Store, client llm.Client, opts ...EngineOption) *Engine {
	e := &Engine{
		agents:   agents,
		sessions: sessions,
		client:   client,
		logger:   slog.Default(),
		settings: DefaultSettings(),
		graphs:   make(map[string]*fieldflow.CompiledGraph[state.Snapshot]),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.hooks == nil {
		e.hooks = NewHookRegistry()
	}
	return e
}

// Turn is one user message addressed to a session.
type Turn struct {
	// SessionID identifies the conversation. New IDs start fresh
	// sessions.
	SessionID string

	// AgentID picks the agent definition for new sessions. Existing
	// sessions keep the agent they started with.
	AgentID string

	// Message is the user's text.
	Message string

	// VoiceMode joins prompts on spaces instead of blank lines.
	// Only honored on the first turn of a session.
	VoiceMode bool
}

// Result is the outcome of one turn.
type Result struct {
	// Reply is the bot message to send back to the user.
	Reply string

	// Complete reports whether the session finished this turn.
	Complete bool

	// State is the snapshot after the turn, already persisted.
	State state.Snapshot
}

// Converse runs one turn of a conversation.
func (e *Engine) Converse(ctx context.Context, turn Turn) (*Result, error) {
	if turn.SessionID == "" {
		return nil, fmt.Errorf("converse: session ID is required")
	}

	snap, err := e.loadOrCreate(ctx, turn)
	if err != nil {
		return nil, err
	}
	if snap.IsComplete {
		return &Result{Reply: snap.LastBotMessage, Complete: true, State: snap}, nil
	}

	def, ok := e.agents.Get(snap.AgentID)
	if !ok {
		return nil, fmt.Errorf("converse: unknown agent %q", snap.AgentID)
	}

	graph, err := e.graphFor(def)
	if err != nil {
		return nil, err
	}

	snap.AddUserMessage(turn.Message)

	runCtx := fieldflow.NewContext(ctx,
		fieldflow.WithLogger(e.logger),
		fieldflow.WithGenerator(e.client),
		fieldflow.WithSessionID(turn.SessionID),
	)
	snap, err = graph.Run(runCtx, snap)
	if err != nil {
		return nil, fmt.Errorf("converse: %w", err)
	}

	if err := e.sessions.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("converse: %w", err)
	}

	return &Result{
		Reply:    snap.LastBotMessage,
		Complete: snap.IsComplete,
		State:    snap,
	}, nil
}

// Reset discards a session so its ID can start over.
func (e *Engine) Reset(ctx context.Context, sessionID string) error {
	return e.sessions.Delete(ctx, sessionID)
}

// Hooks returns the registry used for custom completion actions.
func (e *Engine) Hooks() *HookRegistry {
	return e.hooks
}

func (e *Engine) loadOrCreate(ctx context.Context, turn Turn) (state.Snapshot, error) {
	snap, err := e.sessions.Load(ctx, turn.SessionID)
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return state.Snapshot{}, fmt.Errorf("converse: %w", err)
	}

	def, ok := e.agents.Get(turn.AgentID)
	if !ok {
		return state.Snapshot{}, fmt.Errorf("converse: unknown agent %q", turn.AgentID)
	}
	return state.New(turn.SessionID,
		state.WithAgent(def.ID, def.Name),
		state.WithVoiceMode(turn.VoiceMode),
	), nil
}

func (e *Engine) graphFor(def *agent.Definition) (*fieldflow.CompiledGraph[state.Snapshot], error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if g, ok := e.graphs[def.ID]; ok {
		return g, nil
	}
	g, err := Build(def, e.client,
		WithSettings(e.settings),
		WithHooks(e.hooks),
		WithHTTPClient(e.httpc),
	)
	if err != nil {
		return nil, fmt.Errorf("build graph for agent %q: %w", def.ID, err)
	}
	e.graphs[def.ID] = g
	return g, nil
}
