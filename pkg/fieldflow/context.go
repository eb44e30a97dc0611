package fieldflow

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/randalmurphal/fieldflow/pkg/fieldflow/llm"
)

// Context provides execution context to nodes.
// It extends context.Context with fieldflow-specific services and metadata.
//
// Context is immutable after creation. The executor creates derived contexts
// for each node with updated NodeID and enriched logger.
type Context interface {
	context.Context

	// Services

	// Logger returns the configured logger, enriched with turn and node
	// context. Never returns nil - defaults to slog.Default() if not
	// configured.
	Logger() *slog.Logger

	// Generator returns the text-generation client, or nil if not configured.
	// Nodes must check for nil and fall back to their safe defaults.
	Generator() llm.Client

	// Metadata

	// TurnID returns the unique identifier for this traversal (one user turn).
	// Auto-generated if not configured.
	TurnID() string

	// SessionID returns the conversation session this turn belongs to.
	// Empty string if not configured.
	SessionID() string

	// NodeID returns the current node being executed.
	// Empty string before execution starts.
	NodeID() string
}

// executionContext is the internal implementation of Context.
type executionContext struct {
	context.Context

	logger    *slog.Logger
	generator llm.Client
	turnID    string
	sessionID string
	nodeID    string
}

// Logger returns the configured logger.
func (c *executionContext) Logger() *slog.Logger {
	return c.logger
}

// Generator returns the generation client.
func (c *executionContext) Generator() llm.Client {
	return c.generator
}

// TurnID returns the turn identifier.
func (c *executionContext) TurnID() string {
	return c.turnID
}

// SessionID returns the session identifier.
func (c *executionContext) SessionID() string {
	return c.sessionID
}

// NodeID returns the current node identifier.
func (c *executionContext) NodeID() string {
	return c.nodeID
}

// ContextOption configures a Context.
type ContextOption func(*executionContext)

// WithLogger sets the logger for the context.
// The logger will be enriched with turn_id, session_id, and node_id during
// execution.
func WithLogger(logger *slog.Logger) ContextOption {
	return func(c *executionContext) {
		c.logger = logger
	}
}

// WithGenerator sets the text-generation client for the context.
func WithGenerator(client llm.Client) ContextOption {
	return func(c *executionContext) {
		c.generator = client
	}
}

// WithTurnID sets the turn identifier for the context.
// If not set, a UUID is auto-generated.
func WithTurnID(id string) ContextOption {
	return func(c *executionContext) {
		c.turnID = id
	}
}

// WithSessionID sets the session identifier for the context.
func WithSessionID(id string) ContextOption {
	return func(c *executionContext) {
		c.sessionID = id
	}
}

// NewContext creates an execution context from a standard context.
// The returned Context wraps the provided context.Context and adds
// fieldflow-specific services and metadata.
//
// Example:
//
//	ctx := fieldflow.NewContext(context.Background(),
//	    fieldflow.WithLogger(myLogger),
//	    fieldflow.WithSessionID("sess-123"))
func NewContext(ctx context.Context, opts ...ContextOption) Context {
	ec := &executionContext{
		Context: ctx,
		logger:  slog.Default(),
		turnID:  uuid.New().String(),
	}

	for _, opt := range opts {
		opt(ec)
	}

	return ec
}

// withNodeID returns a new context with the given node ID set.
// Used internally by the executor to enrich the context per-node.
func (c *executionContext) withNodeID(nodeID string) *executionContext {
	logger := c.logger.With("turn_id", c.turnID, "node_id", nodeID)
	if c.sessionID != "" {
		logger = logger.With("session_id", c.sessionID)
	}
	return &executionContext{
		Context:   c.Context,
		logger:    logger,
		generator: c.generator,
		turnID:    c.turnID,
		sessionID: c.sessionID,
		nodeID:    nodeID,
	}
}
