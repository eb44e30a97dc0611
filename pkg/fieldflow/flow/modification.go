package flow

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/randalmurphal/fieldflow/pkg/fieldflow"
	"github.com/randalmurphal/fieldflow/pkg/fieldflow/state"
)

// Patterns that carry the replacement value inline, as in
// "change email to jo@example.com" or "actually it's Boston".
var (
	modifyToPattern     = regexp.MustCompile(`(?i)(?:change|update|set|make)\s+[\w ]+?\s+to\s+(.+)`)
	modifyInlinePattern = regexp.MustCompile(`(?i)(?:actually|should be|it'?s)\s+(.+)`)
)

// fieldModification applies a requested change to a collected field.
//
// When the message already carries the new value, the field is updated
// and the conversation returns to the summary. Otherwise the old value
// is cleared and the field is re-asked, which hands the reply to the
// normal extraction path next turn.
func (n *nodes) fieldModification(ctx fieldflow.Context, s state.Snapshot) (state.Snapshot, error) {
	field := s.ModifyField
	message := s.LastUserMessage

	if value := inlineValue(message); value != "" {
		if err := n.validateField(field, value); err != nil {
			// Invalid replacement: fall through to re-asking so the
			// validator message reaches the user on the next turn.
			ctx.Logger().Info("inline modification rejected", "field", field, "error", err.Error())
		} else {
			s.SetCollected(field, value)
			s.ModifyField = ""
			s.AwaitingConfirmation = true
			ctx.Logger().Info("field modified", "field", field)
			return s, nil
		}
	}

	old := s.Collected[field]
	s.ClearCollected(field)
	s.ModifyField = ""
	s.ExpectedField = field
	s.AwaitingConfirmation = false

	s.AddBotMessage(fmt.Sprintf("Sure, I'll update your %s. The current value is '%v'. %s",
		displayName(field), old, n.def.Question(field)))
	ctx.Logger().Info("field cleared for re-ask", "field", field)
	return s, nil
}

// inlineValue extracts a replacement value embedded in the
// modification request, or empty when the message only names the field.
func inlineValue(message string) string {
	for _, pattern := range []*regexp.Regexp{modifyToPattern, modifyInlinePattern} {
		if m := pattern.FindStringSubmatch(message); m != nil {
			value := strings.TrimSpace(m[1])
			return strings.TrimSuffix(value, ".")
		}
	}
	return ""
}
