package flow

import (
	"context"
	"fmt"
	"strings"

	"github.com/randalmurphal/fieldflow/pkg/fieldflow"
	"github.com/randalmurphal/fieldflow/pkg/fieldflow/classify"
	"github.com/randalmurphal/fieldflow/pkg/fieldflow/llm"
	"github.com/randalmurphal/fieldflow/pkg/fieldflow/state"
)

// qaFallbackAnswer is used when the generation client is unavailable
// or faults while answering a detour question.
const qaFallbackAnswer = "I'm not sure about that. Feel free to ask something else, or we can continue where we left off."

// intentDetection classifies whether the user is asking a question or
// carrying on with the task. The result steers the conditional edge
// into or around the question-and-answer detour.
func (n *nodes) intentDetection(ctx fieldflow.Context, s state.Snapshot) (state.Snapshot, error) {
	taskInProgress := len(s.Collected) > 0 || s.ExpectedField != ""
	intent := n.classifier.DetectIntent(ctx, s.LastUserMessage, n.def.Name, taskInProgress)
	s.DetectedIntent = string(intent)
	ctx.Logger().Info("intent detected", "intent", s.DetectedIntent)
	return s, nil
}

// saveQAPosition records where collection paused before the detour.
// A nested question keeps the first saved position so the eventual
// restore returns to the original field.
func (n *nodes) saveQAPosition(ctx fieldflow.Context, s state.Snapshot) (state.Snapshot, error) {
	if s.SavedPosition == "" {
		if s.ExpectedField != "" {
			s.SavedPosition = s.ExpectedField
		} else {
			s.SavedPosition = StepFieldExtraction
		}
	}
	s.QAActive = true
	ctx.Logger().Info("collection paused", "saved_position", s.SavedPosition)
	return s, nil
}

// questionAnswering answers the user's side question in the agent's
// persona, keeping the detour transcript separate from the collection
// transcript.
func (n *nodes) questionAnswering(ctx fieldflow.Context, s state.Snapshot) (state.Snapshot, error) {
	question := s.LastUserMessage
	answer := qaFallbackAnswer

	if gen := ctx.Generator(); gen != nil {
		genCtx, cancel := context.WithTimeout(ctx, n.settings.ExtractionTimeout)
		resp, err := gen.Generate(genCtx, llm.GenerateRequest{
			Prompt:      n.qaPrompt(question, s),
			MaxTokens:   n.settings.QAAnswerTokens,
			Temperature: 0.7,
		})
		cancel()
		if err != nil {
			ctx.Logger().Warn("question answering failed", "error", err)
		} else if text := strings.TrimSpace(resp.Text); text != "" {
			answer = text
		}
	}

	s.AddQAMessage(state.RoleUser, question)
	s.AddQAMessage(state.RoleAssistant, answer)
	s.ConsecutiveQuestions++
	s.AddBotMessage(answer)
	return s, nil
}

// qaPrompt frames the detour question with the agent's persona and
// recent detour history for follow-ups.
func (n *nodes) qaPrompt(question string, s state.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a helpful %s. %s\n\n", n.def.Name, n.def.Persona)
	b.WriteString("Answer the user's question concisely, in 2-3 sentences at most.\n")
	if len(s.QAHistory) > 0 {
		b.WriteString("\nRecent conversation:\n")
		history := s.QAHistory
		if len(history) > 6 {
			history = history[len(history)-6:]
		}
		for _, m := range history {
			fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
		}
	}
	fmt.Fprintf(&b, "\nQuestion: %s\nAnswer:", question)
	return b.String()
}

// continuationDetection decides whether a message arriving mid-detour
// is another question or a return to the task.
func (n *nodes) continuationDetection(ctx fieldflow.Context, s state.Snapshot) (state.Snapshot, error) {
	cont := n.classifier.DetectContinuation(ctx, s.LastUserMessage, n.def.Name)
	s.ContinuationIntent = string(cont)
	ctx.Logger().Info("continuation detected", "intent", s.ContinuationIntent)
	return s, nil
}

// restoreQAPosition ends the detour and resumes collection at the
// field that was being asked when the detour began.
func (n *nodes) restoreQAPosition(ctx fieldflow.Context, s state.Snapshot) (state.Snapshot, error) {
	if s.SavedPosition != "" && s.SavedPosition != StepFieldExtraction {
		s.ExpectedField = s.SavedPosition
	}
	ctx.Logger().Info("collection resumed", "restored_field", s.ExpectedField)
	s.ClearQA()
	return s, nil
}

// isQuestionIntent reports whether the detected intent enters the
// detour.
func isQuestionIntent(s state.Snapshot) bool {
	return s.DetectedIntent == string(classify.IntentQuestion)
}
