package flow

// Step identifiers for the conversation graph. These appear in logs
// and in saved positions, so they are stable names rather than
// generated IDs.
const (
	// StepEntry is a no-op node whose conditional edge performs
	// per-turn dispatch.
	StepEntry = "entry"

	// Collection steps.
	StepFieldInitialization = "field_initialization"
	StepGreeting            = "greeting"
	StepFieldExtraction     = "field_extraction"
	StepFieldRouter         = "field_router"
	StepQuestionGeneration  = "question_generation"

	// Confirmation steps.
	StepConfirmationSummary  = "confirmation_summary"
	StepConfirmationResponse = "confirmation_response"
	StepFieldModification    = "field_modification"
	StepCompletion           = "completion"

	// Question-and-answer detour steps.
	StepIntentDetection       = "intent_detection"
	StepSaveQAPosition        = "save_graph_position"
	StepQuestionAnswering     = "question_answering"
	StepContinuationDetection = "continuation_detection"
	StepRestoreQAPosition     = "restore_graph_position"
)
