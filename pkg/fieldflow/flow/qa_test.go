package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/fieldflow/pkg/fieldflow/classify"
	"github.com/randalmurphal/fieldflow/pkg/fieldflow/llm"
	"github.com/randalmurphal/fieldflow/pkg/fieldflow/state"
)

// TestIntentDetection verifies the detected label lands on the
// snapshot for the edge to read.
func TestIntentDetection(t *testing.T) {
	fake := llm.NewFake("question")
	n := newTestNodes(t, fake)
	ctx := newTestContext(fake)

	s := loadedSnapshot()
	s.ExpectedField = "email"
	s = userSays(s, "why do you need my email?")

	s, err := n.intentDetection(ctx, s)
	require.NoError(t, err)

	assert.Equal(t, string(classify.IntentQuestion), s.DetectedIntent)
}

// TestIntentDetectionNoClient verifies a missing model defaults to the
// task intent so collection never stalls.
func TestIntentDetectionNoClient(t *testing.T) {
	n := newTestNodes(t, nil)
	ctx := newTestContext(nil)

	s := loadedSnapshot()
	s = userSays(s, "why do you need my email?")

	s, err := n.intentDetection(ctx, s)
	require.NoError(t, err)

	assert.Equal(t, string(classify.IntentTask), s.DetectedIntent)
}

// TestSaveQAPosition verifies the paused field is recorded and a
// nested question keeps the original position.
func TestSaveQAPosition(t *testing.T) {
	n := newTestNodes(t, nil)
	ctx := newTestContext(nil)

	s := loadedSnapshot()
	s.ExpectedField = "email"

	s, err := n.saveQAPosition(ctx, s)
	require.NoError(t, err)
	assert.True(t, s.QAActive)
	assert.Equal(t, "email", s.SavedPosition)

	// A nested question must not clobber the original position.
	s.ExpectedField = "country"
	s, err = n.saveQAPosition(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, "email", s.SavedPosition)
}

// TestSaveQAPositionNoExpectedField verifies the detour falls back to
// the extraction step when no field was being asked.
func TestSaveQAPositionNoExpectedField(t *testing.T) {
	n := newTestNodes(t, nil)
	ctx := newTestContext(nil)

	s := loadedSnapshot()
	s, err := n.saveQAPosition(ctx, s)
	require.NoError(t, err)

	assert.Equal(t, StepFieldExtraction, s.SavedPosition)
}

// TestQuestionAnswering verifies the answer reaches both the detour
// history and the reply, and the consecutive counter advances.
func TestQuestionAnswering(t *testing.T) {
	fake := llm.NewFake("We only use your email for the confirmation message.")
	n := newTestNodes(t, fake)
	ctx := newTestContext(fake)

	s := loadedSnapshot()
	s.QAActive = true
	s = userSays(s, "why do you need my email?")

	s, err := n.questionAnswering(ctx, s)
	require.NoError(t, err)

	assert.Equal(t, "We only use your email for the confirmation message.", s.LastBotMessage)
	require.Len(t, s.QAHistory, 2)
	assert.Equal(t, state.RoleUser, s.QAHistory[0].Role)
	assert.Equal(t, state.RoleAssistant, s.QAHistory[1].Role)
	assert.Equal(t, 1, s.ConsecutiveQuestions)

	req := fake.LastCall()
	assert.Contains(t, req.Prompt, "Registration")
	assert.Contains(t, req.Prompt, "why do you need my email?")
}

// TestQuestionAnsweringFault verifies a model fault answers with the
// fallback instead of failing the turn.
func TestQuestionAnsweringFault(t *testing.T) {
	fake := llm.NewFake("").WithError(errModelDown)
	n := newTestNodes(t, fake)
	ctx := newTestContext(fake)

	s := loadedSnapshot()
	s.QAActive = true
	s = userSays(s, "what happens to my data?")

	s, err := n.questionAnswering(ctx, s)
	require.NoError(t, err)

	assert.Equal(t, qaFallbackAnswer, s.LastBotMessage)
}

// TestContinuationDetection verifies the continuation label lands on
// the snapshot, defaulting to another question without a model.
func TestContinuationDetection(t *testing.T) {
	fake := llm.NewFake("continue_task")
	n := newTestNodes(t, fake)
	ctx := newTestContext(fake)

	s := loadedSnapshot()
	s.QAActive = true
	s = userSays(s, "ok let's keep going")

	s, err := n.continuationDetection(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, string(classify.ContinuationTask), s.ContinuationIntent)

	noClient := newTestNodes(t, nil)
	s2 := loadedSnapshot()
	s2.QAActive = true
	s2 = userSays(s2, "and one more thing")

	s2, err = noClient.continuationDetection(newTestContext(nil), s2)
	require.NoError(t, err)
	assert.Equal(t, string(classify.ContinuationAskMore), s2.ContinuationIntent)
}

// TestRestoreQAPosition verifies the detour flags clear and the paused
// field comes back.
func TestRestoreQAPosition(t *testing.T) {
	n := newTestNodes(t, nil)
	ctx := newTestContext(nil)

	s := loadedSnapshot()
	s.QAActive = true
	s.SavedPosition = "email"
	s.ConsecutiveQuestions = 3
	s.DetectedIntent = string(classify.IntentQuestion)

	s, err := n.restoreQAPosition(ctx, s)
	require.NoError(t, err)

	assert.False(t, s.QAActive)
	assert.Empty(t, s.SavedPosition)
	assert.Zero(t, s.ConsecutiveQuestions)
	assert.Equal(t, "email", s.ExpectedField)
}

// TestRestoreQAPositionGenericSave verifies a detour saved without a
// field restores without inventing one.
func TestRestoreQAPositionGenericSave(t *testing.T) {
	n := newTestNodes(t, nil)
	ctx := newTestContext(nil)

	s := loadedSnapshot()
	s.QAActive = true
	s.SavedPosition = StepFieldExtraction

	s, err := n.restoreQAPosition(ctx, s)
	require.NoError(t, err)

	assert.Empty(t, s.ExpectedField)
	assert.False(t, s.QAActive)
}
