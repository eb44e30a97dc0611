// Package state defines the conversation snapshot that flows through the
// collection graph and is persisted between turns.
package state

import (
	"fmt"
	"strings"
)

// Message is one conversation turn in the transcript.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Transcript roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Snapshot is the complete conversation state for one session.
//
// A snapshot is loaded at the start of a turn, threaded through the graph
// by value, and saved when the turn suspends. Maps and slices are shared
// between copies, so nodes that modify them must go through the mutating
// helpers (SetCollected, AddUserMessage, ...) which copy-on-write.
type Snapshot struct {
	// Session tracking
	SessionID string `json:"session_id"`
	AgentID   string `json:"agent_id,omitempty"`
	AgentName string `json:"agent_name,omitempty"`
	VoiceMode bool   `json:"voice_mode,omitempty"`

	// Field collection
	Collected         map[string]any `json:"collected_fields"`
	Missing           []string       `json:"missing_fields,omitempty"`
	ExpectedField     string         `json:"expected_field,omitempty"`
	ExtractedThisTurn map[string]any `json:"newly_extracted_this_turn,omitempty"`

	// Field roadmap, loaded from the agent definition on the first
	// pass through field initialization. Names only; full specs stay
	// on the definition.
	RequiredFields    []string `json:"required_fields,omitempty"`
	OptionalFields    []string `json:"optional_fields,omitempty"`
	ConditionalFields []string `json:"conditional_fields,omitempty"`

	// Optional field collection
	OptionalMode     bool     `json:"optional_field_mode,omitempty"`
	DeclinedOptional []string `json:"declined_optional_fields,omitempty"`

	// Confirmation workflow
	AwaitingConfirmation bool   `json:"awaiting_confirmation,omitempty"`
	ConfirmationAttempts int    `json:"confirmation_attempts,omitempty"`
	ModifyField          string `json:"field_modification_request,omitempty"`

	// Conversation history
	Messages        []Message `json:"messages"`
	LastUserMessage string    `json:"last_user_message,omitempty"`
	LastBotMessage  string    `json:"last_bot_message,omitempty"`
	FirstTurn       bool      `json:"first_turn"`

	// Completion
	IsComplete bool           `json:"is_complete,omitempty"`
	Result     map[string]any `json:"result_data,omitempty"`

	// Error tracking
	ValidationErrors map[string]string `json:"validation_errors,omitempty"`
	RetryCount       int               `json:"retry_count,omitempty"`
	MaxRetries       int               `json:"max_retries"`

	// Question-answering detour
	QAActive             bool      `json:"qa_mode_active,omitempty"`
	SavedPosition        string    `json:"saved_graph_position,omitempty"`
	QAHistory            []Message `json:"qa_conversation_history,omitempty"`
	ConsecutiveQuestions int       `json:"qa_consecutive_questions,omitempty"`
	DetectedIntent       string    `json:"detected_intent,omitempty"`
	ContinuationIntent   string    `json:"continuation_intent,omitempty"`
}

// DefaultMaxRetries bounds re-asks for a field that keeps failing validation.
const DefaultMaxRetries = 3

// Option configures a new Snapshot.
type Option func(*Snapshot)

// WithAgent sets the active agent.
func WithAgent(id, name string) Option {
	return func(s *Snapshot) {
		s.AgentID = id
		s.AgentName = name
	}
}

// WithVoiceMode enables voice-friendly response phrasing.
func WithVoiceMode(on bool) Option {
	return func(s *Snapshot) {
		s.VoiceMode = on
	}
}

// New creates an initial snapshot for a fresh session.
func New(sessionID string, opts ...Option) Snapshot {
	s := Snapshot{
		SessionID:        sessionID,
		Collected:        map[string]any{},
		ValidationErrors: map[string]string{},
		FirstTurn:        true,
		MaxRetries:       DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// SetCollected records a field value, copying the map so earlier snapshot
// copies are unaffected.
func (s *Snapshot) SetCollected(field string, value any) {
	collected := make(map[string]any, len(s.Collected)+1)
	for k, v := range s.Collected {
		collected[k] = v
	}
	collected[field] = value
	s.Collected = collected
}

// SetExtracted records a value extracted this turn (pre-validation).
func (s *Snapshot) SetExtracted(field string, value any) {
	extracted := make(map[string]any, len(s.ExtractedThisTurn)+1)
	for k, v := range s.ExtractedThisTurn {
		extracted[k] = v
	}
	extracted[field] = value
	s.ExtractedThisTurn = extracted
}

// ClearCollected removes a field value, for example when the user asks to
// change it.
func (s *Snapshot) ClearCollected(field string) {
	if _, ok := s.Collected[field]; !ok {
		return
	}
	collected := make(map[string]any, len(s.Collected))
	for k, v := range s.Collected {
		if k != field {
			collected[k] = v
		}
	}
	s.Collected = collected
}

// SetValidationError records a field validation failure.
func (s *Snapshot) SetValidationError(field, msg string) {
	errs := make(map[string]string, len(s.ValidationErrors)+1)
	for k, v := range s.ValidationErrors {
		errs[k] = v
	}
	errs[field] = msg
	s.ValidationErrors = errs
}

// ClearValidationError removes a field's validation failure.
func (s *Snapshot) ClearValidationError(field string) {
	if _, ok := s.ValidationErrors[field]; !ok {
		return
	}
	errs := make(map[string]string, len(s.ValidationErrors))
	for k, v := range s.ValidationErrors {
		if k != field {
			errs[k] = v
		}
	}
	s.ValidationErrors = errs
}

// AddUserMessage appends a user turn to the transcript.
func (s *Snapshot) AddUserMessage(content string) {
	s.Messages = appendMessage(s.Messages, Message{Role: RoleUser, Content: content})
	s.LastUserMessage = content
}

// AddBotMessage appends an assistant turn to the transcript.
func (s *Snapshot) AddBotMessage(content string) {
	s.Messages = appendMessage(s.Messages, Message{Role: RoleAssistant, Content: content})
	s.LastBotMessage = content
}

// AddQAMessage appends to the question-answering transcript.
func (s *Snapshot) AddQAMessage(role, content string) {
	s.QAHistory = appendMessage(s.QAHistory, Message{Role: role, Content: content})
}

// DeclineOptional marks an optional field as explicitly declined.
func (s *Snapshot) DeclineOptional(field string) {
	for _, d := range s.DeclinedOptional {
		if d == field {
			return
		}
	}
	declined := make([]string, len(s.DeclinedOptional), len(s.DeclinedOptional)+1)
	copy(declined, s.DeclinedOptional)
	s.DeclinedOptional = append(declined, field)
}

// HasDeclined reports whether the user declined the given optional field.
func (s *Snapshot) HasDeclined(field string) bool {
	for _, d := range s.DeclinedOptional {
		if d == field {
			return true
		}
	}
	return false
}

// ClearQA resets all question-answering flags after the detour ends.
func (s *Snapshot) ClearQA() {
	s.QAActive = false
	s.SavedPosition = ""
	s.ConsecutiveQuestions = 0
	s.DetectedIntent = ""
	s.ContinuationIntent = ""
}

// IsFilled reports whether a collected value counts as provided.
// Empty strings, nil, false, and zero numbers count as missing, matching
// how partially-written fields behave after a failed extraction.
func IsFilled(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(val) != ""
	case bool:
		return val
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	default:
		return true
	}
}

// FieldCollected reports whether the named field holds a filled value.
func (s *Snapshot) FieldCollected(field string) bool {
	v, ok := s.Collected[field]
	return ok && IsFilled(v)
}

// Summary returns a human-readable state digest for debugging.
func (s *Snapshot) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "session=%s agent=%s", s.SessionID, s.AgentID)
	fmt.Fprintf(&b, " collected=%d missing=%v", len(s.Collected), s.Missing)
	fmt.Fprintf(&b, " complete=%t confirm=%t qa=%t", s.IsComplete, s.AwaitingConfirmation, s.QAActive)
	if s.RetryCount > 0 {
		fmt.Fprintf(&b, " retries=%d/%d", s.RetryCount, s.MaxRetries)
	}
	return b.String()
}

// appendMessage copies the slice before appending so snapshot copies held
// by earlier nodes do not alias the new transcript.
func appendMessage(msgs []Message, m Message) []Message {
	out := make([]Message, len(msgs), len(msgs)+1)
	copy(out, msgs)
	return append(out, m)
}
