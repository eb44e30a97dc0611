package flow

import (
	"context"

	"github.com/randalmurphal/fieldflow/pkg/fieldflow/registry"
)

// Hook runs a custom completion action. It receives the finished
// session's collected fields and returns data merged into the
// completion result. A hook error is captured in the result rather
// than failing the turn.
type Hook func(ctx context.Context, agentID string, collected map[string]any) (map[string]any, error)

// HookRegistry maps completion action names to hooks. An agent
// definition selects a hook by setting its completion action to the
// registered name.
type HookRegistry struct {
	hooks *registry.Registry[string, Hook]
}

// NewHookRegistry creates an empty hook registry.
func NewHookRegistry() *HookRegistry {
	return &HookRegistry{hooks: registry.New[string, Hook]()}
}

// Register adds a hook under the given action name, replacing any
// previous registration.
func (r *HookRegistry) Register(action string, hook Hook) {
	r.hooks.Register(action, hook)
}

// Get returns the hook for an action name.
func (r *HookRegistry) Get(action string) (Hook, bool) {
	return r.hooks.Get(action)
}

// Names returns the registered action names.
func (r *HookRegistry) Names() []string {
	return r.hooks.Keys()
}
