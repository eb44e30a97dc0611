package flow

import (
	"fmt"
	"net/http"

	"github.com/randalmurphal/fieldflow/pkg/fieldflow"
	"github.com/randalmurphal/fieldflow/pkg/fieldflow/agent"
	"github.com/randalmurphal/fieldflow/pkg/fieldflow/llm"
	"github.com/randalmurphal/fieldflow/pkg/fieldflow/state"
)

// BuildOption configures graph construction.
type BuildOption func(*buildConfig)

type buildConfig struct {
	settings   Settings
	hooks      *HookRegistry
	httpClient *http.Client
}

// WithSettings overrides the default limits.
func WithSettings(s Settings) BuildOption {
	return func(c *buildConfig) {
		c.settings = s
	}
}

// WithHooks supplies the registry consulted for custom completion
// actions.
func WithHooks(h *HookRegistry) BuildOption {
	return func(c *buildConfig) {
		c.hooks = h
	}
}

// WithHTTPClient overrides the client used for webhook completion
// actions. Mainly for tests.
func WithHTTPClient(client *http.Client) BuildOption {
	return func(c *buildConfig) {
		c.httpClient = client
	}
}

// Build compiles the conversation graph for one agent definition.
//
// The client may be nil; every step that consults it degrades to its
// regex or heuristic path, so a graph without a model still collects
// fields that pattern-match.
func Build(def *agent.Definition, client llm.Client, opts ...BuildOption) (*fieldflow.CompiledGraph[state.Snapshot], error) {
	if def == nil {
		return nil, fmt.Errorf("build graph: agent definition is nil")
	}
	cfg := buildConfig{settings: DefaultSettings()}
	for _, opt := range opts {
		opt(&cfg)
	}
	n := newNodes(def, client, cfg.settings, cfg.hooks, cfg.httpClient)

	g := fieldflow.NewGraph[state.Snapshot]().
		AddNode(StepEntry, n.entry).
		AddNode(StepFieldInitialization, n.fieldInitialization).
		AddNode(StepGreeting, n.greeting).
		AddNode(StepFieldExtraction, n.fieldExtraction).
		AddNode(StepFieldRouter, n.fieldRouter).
		AddNode(StepQuestionGeneration, n.questionGeneration).
		AddNode(StepConfirmationSummary, n.confirmationSummary).
		AddNode(StepConfirmationResponse, n.confirmationResponse).
		AddNode(StepFieldModification, n.fieldModification).
		AddNode(StepCompletion, n.completion).
		AddNode(StepIntentDetection, n.intentDetection).
		AddNode(StepSaveQAPosition, n.saveQAPosition).
		AddNode(StepQuestionAnswering, n.questionAnswering).
		AddNode(StepContinuationDetection, n.continuationDetection).
		AddNode(StepRestoreQAPosition, n.restoreQAPosition).
		SetEntry(StepEntry).
		AddConditionalEdge(StepEntry, n.routeEntry,
			StepConfirmationResponse,
			StepContinuationDetection,
			StepFieldInitialization,
			StepIntentDetection,
			StepFieldExtraction,
		).
		AddEdge(StepFieldInitialization, StepFieldExtraction).
		AddConditionalEdge(StepFieldExtraction, n.routeAfterExtraction,
			StepGreeting,
			StepFieldRouter,
		).
		AddEdge(StepGreeting, fieldflow.END).
		AddConditionalEdge(StepFieldRouter, n.routeAfterFieldRouter,
			StepConfirmationSummary,
			StepQuestionGeneration,
		).
		AddEdge(StepQuestionGeneration, fieldflow.END).
		AddEdge(StepConfirmationSummary, fieldflow.END).
		AddConditionalEdge(StepConfirmationResponse, n.routeAfterConfirmation,
			StepCompletion,
			StepFieldModification,
			fieldflow.END,
		).
		AddConditionalEdge(StepFieldModification, n.routeAfterModification,
			StepConfirmationSummary,
			fieldflow.END,
		).
		AddEdge(StepCompletion, fieldflow.END).
		AddConditionalEdge(StepIntentDetection, n.routeAfterIntent,
			StepSaveQAPosition,
			StepRestoreQAPosition,
			StepFieldExtraction,
		).
		AddEdge(StepSaveQAPosition, StepQuestionAnswering).
		AddEdge(StepQuestionAnswering, fieldflow.END).
		AddConditionalEdge(StepContinuationDetection, n.routeAfterContinuation,
			StepQuestionAnswering,
			StepRestoreQAPosition,
		).
		AddEdge(StepRestoreQAPosition, StepFieldExtraction)

	return g.Compile()
}
