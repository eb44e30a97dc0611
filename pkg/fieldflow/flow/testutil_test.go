package flow

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/fieldflow/pkg/fieldflow"
	"github.com/randalmurphal/fieldflow/pkg/fieldflow/agent"
	"github.com/randalmurphal/fieldflow/pkg/fieldflow/llm"
	"github.com/randalmurphal/fieldflow/pkg/fieldflow/state"
)

// registrationJSON is the agent definition used across the flow tests:
// three required fields, one conditional on the country, one optional.
const registrationJSON = `{
	"id": "registration",
	"name": "Registration",
	"description": "Collects signup details.",
	"greeting": "Hi! I can get you registered.",
	"fields": [
		{"name": "full_name", "type": "text", "question": "What's your full name?", "validator": "name", "order": 1},
		{"name": "email", "type": "text", "question": "What's your email address?", "validator": "email", "order": 2},
		{"name": "country", "type": "text", "question": "Which country are you in?", "order": 3},
		{"name": "state", "type": "text", "question": "Which state are you in?", "condition": "country == US", "order": 4},
		{"name": "company", "type": "text", "question": "What company do you work for?", "required": false, "order": 5}
	],
	"completion": {"message": "Thanks {full_name}, you're registered!", "action": "log"}
}`

// errModelDown simulates a generation backend outage in fault tests.
var errModelDown = errors.New("model unavailable")

func testDefinition(t *testing.T) *agent.Definition {
	t.Helper()
	def, err := agent.Parse([]byte(registrationJSON))
	require.NoError(t, err)
	return def
}

// newTestNodes builds the step set against the registration definition.
// A nil client exercises the degraded, regex-only paths.
func newTestNodes(t *testing.T, client llm.Client) *nodes {
	t.Helper()
	return newNodes(testDefinition(t), client, DefaultSettings(), nil, nil)
}

func newTestContext(client llm.Client) fieldflow.Context {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return fieldflow.NewContext(context.Background(),
		fieldflow.WithLogger(logger),
		fieldflow.WithGenerator(client),
	)
}

// loadedSnapshot returns a mid-conversation snapshot with the field
// roadmap already initialized and the greeting behind it.
func loadedSnapshot() state.Snapshot {
	s := state.New("sess-test", state.WithAgent("registration", "Registration"))
	s.RequiredFields = []string{"full_name", "email", "country"}
	s.OptionalFields = []string{"company"}
	s.ConditionalFields = []string{"state"}
	s.FirstTurn = false
	return s
}

// userSays appends a user message the way the engine does before a
// traversal.
func userSays(s state.Snapshot, text string) state.Snapshot {
	s.AddUserMessage(text)
	return s
}
