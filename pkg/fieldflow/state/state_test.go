package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNew verifies initial snapshot defaults.
func TestNew(t *testing.T) {
	s := New("sess-1")

	assert.Equal(t, "sess-1", s.SessionID)
	assert.Empty(t, s.AgentID)
	assert.NotNil(t, s.Collected)
	assert.NotNil(t, s.ValidationErrors)
	assert.True(t, s.FirstTurn)
	assert.Equal(t, DefaultMaxRetries, s.MaxRetries)
	assert.False(t, s.IsComplete)
	assert.False(t, s.QAActive)
}

// TestNew_WithOptions verifies option application.
func TestNew_WithOptions(t *testing.T) {
	s := New("sess-1", WithAgent("registration", "Registration"), WithVoiceMode(true))

	assert.Equal(t, "registration", s.AgentID)
	assert.Equal(t, "Registration", s.AgentName)
	assert.True(t, s.VoiceMode)
}

// TestSnapshot_SetCollected_CopyOnWrite verifies earlier copies are not
// affected by later writes.
func TestSnapshot_SetCollected_CopyOnWrite(t *testing.T) {
	s1 := New("sess-1")
	s1.SetCollected("name", "John")

	s2 := s1
	s2.SetCollected("email", "john@example.com")

	assert.Len(t, s1.Collected, 1)
	assert.Len(t, s2.Collected, 2)
	assert.Equal(t, "John", s2.Collected["name"])
}

// TestSnapshot_ClearCollected verifies field removal.
func TestSnapshot_ClearCollected(t *testing.T) {
	s := New("sess-1")
	s.SetCollected("name", "John")
	s.SetCollected("email", "john@example.com")

	before := s
	s.ClearCollected("name")

	assert.NotContains(t, s.Collected, "name")
	assert.Contains(t, s.Collected, "email")
	assert.Contains(t, before.Collected, "name") // earlier copy unaffected
}

// TestSnapshot_ClearCollected_MissingField is a no-op.
func TestSnapshot_ClearCollected_MissingField(t *testing.T) {
	s := New("sess-1")
	s.SetCollected("name", "John")

	collected := s.Collected
	s.ClearCollected("nonexistent")

	// No copy made when nothing changes
	assert.Len(t, s.Collected, 1)
	assert.Equal(t, map[string]any{"name": "John"}, collected)
}

// TestSnapshot_ValidationErrors verifies error tracking.
func TestSnapshot_ValidationErrors(t *testing.T) {
	s := New("sess-1")

	s.SetValidationError("email", "Please provide a valid email address.")
	assert.Equal(t, "Please provide a valid email address.", s.ValidationErrors["email"])

	s.ClearValidationError("email")
	assert.NotContains(t, s.ValidationErrors, "email")
}

// TestSnapshot_Transcript verifies message bookkeeping.
func TestSnapshot_Transcript(t *testing.T) {
	s := New("sess-1")

	s.AddUserMessage("Hi, I'm John")
	s.AddBotMessage("Nice to meet you. What's your email?")

	require.Len(t, s.Messages, 2)
	assert.Equal(t, RoleUser, s.Messages[0].Role)
	assert.Equal(t, "Hi, I'm John", s.Messages[0].Content)
	assert.Equal(t, RoleAssistant, s.Messages[1].Role)
	assert.Equal(t, "Hi, I'm John", s.LastUserMessage)
	assert.Equal(t, "Nice to meet you. What's your email?", s.LastBotMessage)
}

// TestSnapshot_Transcript_CopyOnWrite verifies earlier copies keep their
// view of the transcript.
func TestSnapshot_Transcript_CopyOnWrite(t *testing.T) {
	s1 := New("sess-1")
	s1.AddUserMessage("first")

	s2 := s1
	s2.AddUserMessage("second")

	assert.Len(t, s1.Messages, 1)
	assert.Len(t, s2.Messages, 2)
}

// TestSnapshot_QAHistory verifies the detour transcript.
func TestSnapshot_QAHistory(t *testing.T) {
	s := New("sess-1")

	s.AddQAMessage(RoleUser, "what is this for?")
	s.AddQAMessage(RoleAssistant, "It helps us register you.")

	require.Len(t, s.QAHistory, 2)
	assert.Equal(t, "what is this for?", s.QAHistory[0].Content)
}

// TestSnapshot_DeclineOptional verifies decline tracking is deduplicated.
func TestSnapshot_DeclineOptional(t *testing.T) {
	s := New("sess-1")

	s.DeclineOptional("phone")
	s.DeclineOptional("phone")
	s.DeclineOptional("company")

	assert.Equal(t, []string{"phone", "company"}, s.DeclinedOptional)
	assert.True(t, s.HasDeclined("phone"))
	assert.False(t, s.HasDeclined("email"))
}

// TestSnapshot_ClearQA verifies all detour flags reset.
func TestSnapshot_ClearQA(t *testing.T) {
	s := New("sess-1")
	s.QAActive = true
	s.SavedPosition = "email"
	s.ConsecutiveQuestions = 2
	s.DetectedIntent = "question"
	s.ContinuationIntent = "ask_more"
	s.AddQAMessage(RoleUser, "why?")

	s.ClearQA()

	assert.False(t, s.QAActive)
	assert.Empty(t, s.SavedPosition)
	assert.Zero(t, s.ConsecutiveQuestions)
	assert.Empty(t, s.DetectedIntent)
	assert.Empty(t, s.ContinuationIntent)
	// History is kept for the record
	assert.Len(t, s.QAHistory, 1)
}

// TestIsFilled verifies truthiness of collected values.
func TestIsFilled(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"non-empty string", "John", true},
		{"empty string", "", false},
		{"whitespace string", "   ", false},
		{"nil", nil, false},
		{"true", true, true},
		{"false", false, false},
		{"positive int", 5, true},
		{"zero int", 0, false},
		{"zero int64", int64(0), false},
		{"float", 1.5, true},
		{"zero float", 0.0, false},
		{"slice", []string{"a"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFilled(tt.value))
		})
	}
}

// TestSnapshot_FieldCollected verifies filled-field checks.
func TestSnapshot_FieldCollected(t *testing.T) {
	s := New("sess-1")
	s.SetCollected("name", "John")
	s.SetCollected("notes", "")

	assert.True(t, s.FieldCollected("name"))
	assert.False(t, s.FieldCollected("notes"))   // present but empty
	assert.False(t, s.FieldCollected("missing")) // absent
}

// TestSnapshot_Summary smoke-tests the debug digest.
func TestSnapshot_Summary(t *testing.T) {
	s := New("sess-1", WithAgent("registration", "Registration"))
	s.SetCollected("name", "John")
	s.RetryCount = 1

	summary := s.Summary()

	assert.Contains(t, summary, "sess-1")
	assert.Contains(t, summary, "registration")
	assert.Contains(t, summary, "collected=1")
	assert.Contains(t, summary, "retries=1/3")
}
