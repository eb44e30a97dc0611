package flow

import (
	"github.com/randalmurphal/fieldflow/pkg/fieldflow"
	"github.com/randalmurphal/fieldflow/pkg/fieldflow/classify"
	"github.com/randalmurphal/fieldflow/pkg/fieldflow/state"
)

// entry is the dispatch node. It does nothing itself; its conditional
// edge picks the step this turn resumes at.
func (n *nodes) entry(ctx fieldflow.Context, s state.Snapshot) (state.Snapshot, error) {
	return s, nil
}

// routeEntry resumes the conversation where it paused. Pending
// confirmation outranks an active detour, which outranks ordinary
// collection, so a session never answers the wrong question.
func (n *nodes) routeEntry(ctx fieldflow.Context, s state.Snapshot) string {
	switch {
	case s.AwaitingConfirmation:
		return StepConfirmationResponse
	case s.QAActive:
		return StepContinuationDetection
	case !fieldsLoaded(s):
		return StepFieldInitialization
	case classify.HasQuestionIndicators(s.LastUserMessage):
		return StepIntentDetection
	default:
		return StepFieldExtraction
	}
}

// routeAfterIntent enters the detour for questions and falls back to
// extraction for anything task-shaped.
func (n *nodes) routeAfterIntent(ctx fieldflow.Context, s state.Snapshot) string {
	if isQuestionIntent(s) {
		return StepSaveQAPosition
	}
	if s.QAActive {
		return StepRestoreQAPosition
	}
	return StepFieldExtraction
}

// routeAfterContinuation keeps answering while the user keeps asking,
// and restores collection the moment they return to the task. The
// restore path handles provide_info too, since the restored extraction
// step sees the same message.
func (n *nodes) routeAfterContinuation(ctx fieldflow.Context, s state.Snapshot) string {
	if s.ContinuationIntent == string(classify.ContinuationAskMore) {
		return StepQuestionAnswering
	}
	return StepRestoreQAPosition
}

// routeAfterExtraction greets on the very first turn, otherwise moves
// on to deciding the next field.
func (n *nodes) routeAfterExtraction(ctx fieldflow.Context, s state.Snapshot) string {
	if s.FirstTurn {
		return StepGreeting
	}
	return StepFieldRouter
}

// routeAfterFieldRouter asks the next question, or presents the
// summary when nothing is left to ask.
func (n *nodes) routeAfterFieldRouter(ctx fieldflow.Context, s state.Snapshot) string {
	if s.ExpectedField == "" && len(s.Missing) == 0 {
		return StepConfirmationSummary
	}
	return StepQuestionGeneration
}

// routeAfterConfirmation dispatches on what the response step decided:
// approval completes, a named field goes to modification, and an
// unclear reply suspends until the user answers the re-prompt.
func (n *nodes) routeAfterConfirmation(ctx fieldflow.Context, s state.Snapshot) string {
	switch {
	case s.ModifyField != "":
		return StepFieldModification
	case !s.AwaitingConfirmation:
		return StepCompletion
	default:
		return fieldflow.END
	}
}

// routeAfterModification returns to the summary after an inline
// update, or suspends when the field was cleared for re-asking.
func (n *nodes) routeAfterModification(ctx fieldflow.Context, s state.Snapshot) string {
	if s.AwaitingConfirmation {
		return StepConfirmationSummary
	}
	return fieldflow.END
}
