package flow

import (
	"fmt"
	"strings"

	"github.com/randalmurphal/fieldflow/pkg/fieldflow"
	"github.com/randalmurphal/fieldflow/pkg/fieldflow/state"
)

// fieldRouter decides what the conversation needs next: another
// required field, an active conditional field, an optional field, or
// the confirmation summary. It updates Missing and ExpectedField; the
// conditional edge after it reads those to pick the next step.
func (n *nodes) fieldRouter(ctx fieldflow.Context, s state.Snapshot) (state.Snapshot, error) {
	missing := append(n.missingRequired(s), n.missingConditionals(ctx, s)...)
	s.Missing = missing

	if len(missing) > 0 {
		s.ExpectedField = missing[0]
		ctx.Logger().Info("next field selected", "field", s.ExpectedField, "missing", len(missing))
		return s, nil
	}

	// OptionalMode latches on the first transition into the optional
	// phase and never reverts, even when a late conditional pulls the
	// conversation back to a required question.
	if opt := n.nextOptional(s); opt != "" {
		s.OptionalMode = true
		s.ExpectedField = opt
		ctx.Logger().Info("optional field selected", "field", opt)
		return s, nil
	}

	// Nothing left to ask. The edge routes to the confirmation summary.
	s.ExpectedField = ""
	ctx.Logger().Info("all fields collected", "collected", len(s.Collected))
	return s, nil
}

// questionGeneration composes the bot's next prompt. A validation
// error from this turn takes priority over asking a new question, so
// the user hears what was wrong before being asked again.
func (n *nodes) questionGeneration(ctx fieldflow.Context, s state.Snapshot) (state.Snapshot, error) {
	var message string

	if field := sortedErrorField(s); field != "" {
		message = fmt.Sprintf("I'm sorry, that doesn't seem right: %s. %s",
			strings.TrimSuffix(s.ValidationErrors[field], "."), n.def.Question(field))
		s.ExpectedField = field
	} else {
		question := n.def.Question(s.ExpectedField)
		ack := acknowledgment(len(s.ExtractedThisTurn))
		if ack == "" {
			message = question
		} else if s.VoiceMode {
			message = ack + " " + question
		} else {
			message = ack + "\n\n" + question
		}
	}

	if s.ExpectedField != "" && n.isOptionalField(s.ExpectedField) && !mentionsSkip(message) {
		message += " (You can say 'skip' if you'd prefer not to answer.)"
	}

	s.AddBotMessage(message)
	return s, nil
}

// acknowledgment returns a short lead-in when the previous message
// produced usable values.
func acknowledgment(extracted int) string {
	switch {
	case extracted == 1:
		return "Got it, thanks!"
	case extracted > 1:
		return "Great, I've noted that down."
	default:
		return ""
	}
}

// mentionsSkip reports whether the prompt already tells the user the
// field can be skipped.
func mentionsSkip(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "optional") || strings.Contains(lower, "skip")
}
