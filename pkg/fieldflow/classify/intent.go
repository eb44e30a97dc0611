package classify

import (
	"context"
	"fmt"
	"strings"
)

// Intent is the purpose of a user message at the start of a turn.
type Intent string

const (
	// IntentQuestion means the user is asking an informational
	// question and should be routed into the Q&A detour.
	IntentQuestion Intent = "question"

	// IntentTask means the user wants to start or continue the
	// agent's task.
	IntentTask Intent = "agent_task"

	// IntentResponse means the user is answering a question the
	// agent asked.
	IntentResponse Intent = "response"
)

// Continuation is the user's direction after a Q&A answer: keep
// asking, or get back to the task.
type Continuation string

const (
	// ContinuationAskMore means the user has another question.
	ContinuationAskMore Continuation = "ask_more"

	// ContinuationTask means the user wants to resume the task.
	ContinuationTask Continuation = "continue_task"

	// ContinuationProvideInfo means the user's message carries
	// task information and should be re-processed as an answer.
	ContinuationProvideInfo Continuation = "provide_info"
)

// DetectIntent classifies what the user wants this turn. agentName
// labels the assistant in the prompt; taskInProgress notes whether a
// collection task has started. Faults default to IntentTask so a
// classifier outage never strands the conversation.
func (c *Classifier) DetectIntent(ctx context.Context, message, agentName string, taskInProgress bool) Intent {
	if strings.TrimSpace(message) == "" {
		return IntentTask
	}
	if agentName == "" {
		agentName = "assistant"
	}

	progress := "No task has started yet."
	if taskInProgress {
		progress = "A task is already in progress."
	}

	prompt := fmt.Sprintf(`Classify the user's intent into exactly one category.

Categories:
- "question": User is asking an informational question (e.g., "What do you do?", "How does this work?")
- "agent_task": User wants to start or continue a task (e.g., providing information, requesting action)
- "response": User is responding to a previous question with information

Context: The user is interacting with a %s. %s

User message: %q

Respond with ONLY one word: question, agent_task, or response`, agentName, progress, message)

	result, err := c.generate(ctx, prompt, 10)
	if err != nil {
		c.logger.Error("intent detection failed, defaulting to task",
			"error", err)
		return IntentTask
	}

	lower := strings.ToLower(result)
	switch {
	case strings.Contains(lower, "question"):
		return IntentQuestion
	case strings.Contains(lower, "response"):
		return IntentResponse
	default:
		return IntentTask
	}
}

// DetectContinuation classifies the user's message after a Q&A
// answer. Faults default to ContinuationAskMore, which answers again
// rather than yanking the user out of the detour.
func (c *Classifier) DetectContinuation(ctx context.Context, message, agentName string) Continuation {
	if agentName == "" {
		agentName = "assistant"
	}

	prompt := fmt.Sprintf(`The user has been asking questions to a %s and might want to continue or return to their task.

User message: %q

Classify: Is the user asking another question (ask_more), wanting to continue their task (continue_task), or providing task-related information (provide_info)?

Reply with ONLY one: ask_more, continue_task, or provide_info`, agentName, message)

	result, err := c.generate(ctx, prompt, 10)
	if err != nil {
		c.logger.Error("continuation detection failed, defaulting to ask_more",
			"error", err)
		return ContinuationAskMore
	}

	lower := strings.ToLower(result)
	switch {
	case strings.Contains(lower, "continue"):
		return ContinuationTask
	case strings.Contains(lower, "provide"):
		return ContinuationProvideInfo
	default:
		return ContinuationAskMore
	}
}

// DetectBypass is the classifier tier of bypass detection, called
// when the fast regex tier could not decide. It reports whether the
// user wants to skip the named optional field. Faults report false,
// which keeps the user's input instead of discarding it.
func (c *Classifier) DetectBypass(ctx context.Context, message, fieldName string) bool {
	display := displayName(fieldName)

	prompt := fmt.Sprintf(`You are analyzing whether a user wants to SKIP/BYPASS providing optional information in a conversation.

Context: The bot asked "Would you like to provide %s? (Optional - you can skip this if not needed)"
User's response: %q

Classify the user's intent as either:
- BYPASS: User wants to skip this optional field and move to the next step
- PROVIDE: User is providing information or wants to provide information

Examples of BYPASS: "no", "skip", "I'm good", "that's all", "let's proceed", "move on", "all set"
Examples of PROVIDE: "yes", "tomorrow" (actual content), "can you explain what that means?", "let me think about it"

IMPORTANT: Phrases like "proceed", "continue", "move on", "next" indicate the user is DONE and wants to BYPASS this field to move forward.

Answer with ONLY one word: BYPASS or PROVIDE`, display, message)

	result, err := c.generate(ctx, prompt, 10)
	if err != nil {
		c.logger.Error("bypass classification failed, keeping input",
			"field", fieldName,
			"error", err)
		return false
	}

	return strings.Contains(strings.ToUpper(result), "BYPASS")
}

// DetectModificationField asks which collected field the user wants
// to change, constrained to the given field names. Returns empty when
// the model names none of them or the call fails.
func (c *Classifier) DetectModificationField(ctx context.Context, message string, fieldNames []string) string {
	if len(fieldNames) == 0 {
		return ""
	}

	prompt := fmt.Sprintf(`The user wants to modify one of these fields: %s

User message: %q

Which field does the user want to change? Reply with ONLY the field name, or "none" if unclear.`, strings.Join(fieldNames, ", "), message)

	result, err := c.generate(ctx, prompt, 50)
	if err != nil {
		c.logger.Error("modification field detection failed",
			"error", err)
		return ""
	}

	lower := strings.ToLower(result)
	for _, name := range fieldNames {
		if strings.Contains(lower, strings.ToLower(name)) {
			return name
		}
	}
	return ""
}

// displayName renders a snake_case field name for prompts and user
// messages ("do_date" -> "Do Date").
func displayName(fieldName string) string {
	words := strings.Split(fieldName, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// questionIndicators are the phrases that flag a mid-task message as
// a probable question, gating the more expensive intent detection.
var questionIndicators = []string{
	"what", "how", "why", "when", "where", "who", "which",
	"can you", "could you", "would you", "will you",
	"do you", "does", "is there", "are there",
	"tell me", "explain", "describe",
	"?",
}

// HasQuestionIndicators reports whether a message contains explicit
// question phrasing.
func HasQuestionIndicators(message string) bool {
	lower := strings.ToLower(strings.TrimSpace(message))
	for _, ind := range questionIndicators {
		if strings.Contains(lower, ind) {
			return true
		}
	}
	return false
}
