package flow

import (
	"fmt"
	"strings"

	"github.com/randalmurphal/fieldflow/pkg/fieldflow"
	"github.com/randalmurphal/fieldflow/pkg/fieldflow/parse"
	"github.com/randalmurphal/fieldflow/pkg/fieldflow/state"
)

// approvalPhrases confirm the summary as-is. Matching is substring
// based on the lowercased message, so "yes, looks good" approves.
var approvalPhrases = []string{
	"yes", "y", "yeah", "yep", "correct", "confirm", "looks good",
	"that's right", "perfect", "good", "ok", "okay", "sure",
	"approved", "all good", "go ahead",
}

// changeVerbs gate the generation-backed disambiguation of which field
// the user wants to modify.
var changeVerbs = []string{"change", "update", "modify", "fix", "correct", "wrong"}

// confirmationSummary presents everything collected and asks the user
// to approve or name a change.
func (n *nodes) confirmationSummary(ctx fieldflow.Context, s state.Snapshot) (state.Snapshot, error) {
	var b strings.Builder
	b.WriteString("Here's a summary of the information you've provided:\n")
	for _, f := range n.def.Fields {
		value, ok := s.Collected[f.Name]
		if !ok {
			continue
		}
		b.WriteString(fmt.Sprintf("  - **%s**: %s\n", displayName(f.Name), formatValue(value)))
	}
	b.WriteString("\nDoes everything look correct? (yes to confirm, or tell me what to change)")

	s.AddBotMessage(b.String())
	s.AwaitingConfirmation = true
	s.ConfirmationAttempts++
	return s, nil
}

// confirmationResponse interprets the user's reply to the summary.
// Approval clears AwaitingConfirmation so the edge routes to
// completion. A named field sets ModifyField for the modification
// step. Anything else re-prompts, auto-approving once the attempt
// limit is reached so the conversation cannot stall forever.
func (n *nodes) confirmationResponse(ctx fieldflow.Context, s state.Snapshot) (state.Snapshot, error) {
	message := strings.ToLower(strings.TrimSpace(s.LastUserMessage))

	// The strict parser resolves unambiguous yes/no replies first. An
	// explicit "no" must not fall through to phrase matching, where a
	// fragment like "correct" inside "no, that's not correct" would
	// read as approval.
	approved, rejected := false, false
	if idx, ok := parse.SelectionIndex(message, 2); ok {
		approved = idx == 0
		rejected = idx == 1
	}
	if !approved && !rejected {
		approved = isApproval(message)
	}

	if approved {
		s.AwaitingConfirmation = false
		ctx.Logger().Info("confirmation approved")
		return s, nil
	}

	if field := n.modificationTarget(ctx, message, s); field != "" {
		s.ModifyField = field
		ctx.Logger().Info("modification requested", "field", field)
		return s, nil
	}

	if s.ConfirmationAttempts >= n.settings.MaxConfirmationAttempts {
		s.AwaitingConfirmation = false
		ctx.Logger().Info("confirmation auto-approved", "attempts", s.ConfirmationAttempts)
		return s, nil
	}

	s.AddBotMessage("I didn't quite catch that. Could you confirm if everything looks correct? (yes/no)")
	s.ConfirmationAttempts++
	return s, nil
}

// modificationTarget finds which collected field the user wants to
// change: a literal field name first, then generation-backed
// disambiguation when the message carries a change verb.
func (n *nodes) modificationTarget(ctx fieldflow.Context, message string, s state.Snapshot) string {
	names := make([]string, 0, len(s.Collected))
	for _, f := range n.def.Fields {
		if _, ok := s.Collected[f.Name]; ok {
			names = append(names, f.Name)
		}
	}

	for _, name := range names {
		if strings.Contains(message, name) || strings.Contains(message, strings.ReplaceAll(name, "_", " ")) {
			return name
		}
	}

	for _, verb := range changeVerbs {
		if strings.Contains(message, verb) {
			return n.classifier.DetectModificationField(ctx, message, names)
		}
	}
	return ""
}

func isApproval(message string) bool {
	// Negated phrasing never approves, even when it contains an
	// approval fragment ("that's not correct").
	if strings.Contains(message, "not ") || strings.HasPrefix(message, "no ") || strings.HasPrefix(message, "no,") {
		return false
	}
	for _, phrase := range approvalPhrases {
		if phrase == "y" || phrase == "yes" || phrase == "ok" {
			// Short phrases need a word match, not a substring, or
			// "not okay" would approve.
			for _, word := range strings.Fields(message) {
				if strings.Trim(word, ".,!") == phrase {
					return true
				}
			}
			continue
		}
		if strings.Contains(message, phrase) {
			return true
		}
	}
	return false
}

// formatValue renders a collected value for the summary. Booleans read
// as Yes/No because they usually answer a yes-or-no question.
func formatValue(v any) string {
	if b, ok := v.(bool); ok {
		if b {
			return "Yes"
		}
		return "No"
	}
	return fmt.Sprintf("%v", v)
}
