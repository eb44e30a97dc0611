package flow

import (
	"strings"

	"github.com/randalmurphal/fieldflow/pkg/fieldflow"
	"github.com/randalmurphal/fieldflow/pkg/fieldflow/state"
)

// fieldInitialization loads the agent's field roadmap into the
// snapshot. Runs once per session, on the first turn that reaches the
// collection flow.
func (n *nodes) fieldInitialization(ctx fieldflow.Context, s state.Snapshot) (state.Snapshot, error) {
	var required, optional, conditional []string
	for _, f := range n.def.RequiredFields() {
		required = append(required, f.Name)
	}
	for _, f := range n.def.OptionalFields() {
		optional = append(optional, f.Name)
	}
	for _, f := range n.def.ConditionalFields() {
		conditional = append(conditional, f.Name)
	}
	s.RequiredFields = required
	s.OptionalFields = optional
	s.ConditionalFields = conditional
	s.Missing = n.missingRequired(s)
	if n.settings.MaxRetries > 0 {
		s.MaxRetries = n.settings.MaxRetries
	}

	ctx.Logger().Info("fields initialized",
		"agent_id", n.def.ID,
		"required", len(required),
		"optional", len(optional),
		"conditional", len(conditional),
	)
	return s, nil
}

// greeting sends the agent's greeting plus the first question. When
// the greeting itself already asks something, the question is not
// appended a second time.
func (n *nodes) greeting(ctx fieldflow.Context, s state.Snapshot) (state.Snapshot, error) {
	message := n.def.Greeting

	if field := n.firstUnansweredRequired(s); field != "" {
		question := n.def.Question(field)
		s.ExpectedField = field
		if !strings.HasSuffix(strings.TrimSpace(message), "?") && !strings.Contains(message, question) {
			message = message + "\n\n" + question
		}
	}

	s.AddBotMessage(message)
	s.FirstTurn = false
	return s, nil
}

// firstUnansweredRequired returns the first required field, by order,
// still missing from the collected set.
func (n *nodes) firstUnansweredRequired(s state.Snapshot) string {
	missing := n.missingRequired(s)
	if len(missing) == 0 {
		return ""
	}
	return missing[0]
}
