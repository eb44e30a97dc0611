// Package llm provides the text-generation client interface used by
// conversation nodes, plus CLI and HTTP implementations and a scripted
// fake for tests.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Client generates text from a prompt.
//
// Implementations must honor ctx cancellation and deadlines. Nodes treat a
// nil Client as "model unavailable" and fall back to their heuristic paths,
// so implementations should never be required for correctness-critical
// routing.
type Client interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

// GenerateRequest configures a generation call.
type GenerateRequest struct {
	// Prompt is the full prompt text. Callers embed any instructions and
	// few-shot examples directly.
	Prompt string `json:"prompt"`

	// SystemPrompt is optional framing sent separately from the prompt
	// when the backend supports it.
	SystemPrompt string `json:"system_prompt,omitempty"`

	// Model overrides the client's default model when non-empty.
	Model string `json:"model,omitempty"`

	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	TopP        float64 `json:"top_p,omitempty"`

	// Stop sequences truncate the response.
	Stop []string `json:"stop,omitempty"`
}

// GenerateResponse is the output of a generation call.
type GenerateResponse struct {
	Text         string        `json:"text"`
	Model        string        `json:"model,omitempty"`
	FinishReason string        `json:"finish_reason,omitempty"`
	Usage        TokenUsage    `json:"usage"`
	Duration     time.Duration `json:"duration"`
}

// TokenUsage tracks token consumption.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// Add accumulates usage from another call.
func (u *TokenUsage) Add(other TokenUsage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.TotalTokens += other.TotalTokens
}

// Error wraps a generation failure with the operation that failed and
// whether retrying might help.
type Error struct {
	Op        string
	Err       error
	Retryable bool
}

// NewError creates a generation error.
func NewError(op string, err error, retryable bool) *Error {
	return &Error{Op: op, Err: err, Retryable: retryable}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("llm %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is a generation error marked retryable.
func IsRetryable(err error) bool {
	var genErr *Error
	if errors.As(err, &genErr) {
		return genErr.Retryable
	}
	return false
}
