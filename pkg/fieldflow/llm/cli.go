package llm

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// CLI implements Client by shelling out to a generation CLI binary.
// It assumes "claude" is available in PATH unless overridden with WithPath.
type CLI struct {
	path    string
	model   string
	workdir string
	timeout time.Duration
}

// CLIOption configures a CLI client.
type CLIOption func(*CLI)

// NewCLI creates a new CLI-backed client.
func NewCLI(opts ...CLIOption) *CLI {
	c := &CLI{
		path:    "claude",
		timeout: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithPath sets the path to the CLI binary.
func WithPath(path string) CLIOption {
	return func(c *CLI) { c.path = path }
}

// WithModel sets the default model.
func WithModel(model string) CLIOption {
	return func(c *CLI) { c.model = model }
}

// WithWorkdir sets the working directory for CLI commands.
func WithWorkdir(dir string) CLIOption {
	return func(c *CLI) { c.workdir = dir }
}

// WithCLITimeout sets the per-call timeout.
func WithCLITimeout(d time.Duration) CLIOption {
	return func(c *CLI) { c.timeout = d }
}

// Generate implements Client.
func (c *CLI) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := c.buildArgs(req)
	cmd := exec.CommandContext(ctx, c.path, args...)

	if c.workdir != "" {
		cmd.Dir = c.workdir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// Check for context cancellation first
		if ctx.Err() != nil {
			return nil, NewError("generate", ctx.Err(), false)
		}

		errMsg := stderr.String()
		retryable := isRetryableError(errMsg)
		return nil, NewError("generate", fmt.Errorf("%w: %s", err, errMsg), retryable)
	}

	resp := c.parseResponse(stdout.Bytes())
	resp.Duration = time.Since(start)

	return resp, nil
}

// buildArgs constructs CLI arguments from a request.
func (c *CLI) buildArgs(req GenerateRequest) []string {
	args := []string{"--print"}

	if req.SystemPrompt != "" {
		args = append(args, "--system-prompt", req.SystemPrompt)
	}

	// Model priority: request > client default
	model := c.model
	if req.Model != "" {
		model = req.Model
	}
	if model != "" {
		args = append(args, "--model", model)
	}

	if req.MaxTokens > 0 {
		args = append(args, "--max-tokens", fmt.Sprintf("%d", req.MaxTokens))
	}

	if req.Prompt != "" {
		args = append(args, "-p", req.Prompt)
	}

	return args
}

// parseResponse extracts response data from CLI output.
func (c *CLI) parseResponse(data []byte) *GenerateResponse {
	return &GenerateResponse{
		Text:         strings.TrimSpace(string(data)),
		FinishReason: "stop",
		Model:        c.model,
		// Token counts not available from basic CLI output
	}
}

// isRetryableError checks if an error message indicates a transient error.
func isRetryableError(errMsg string) bool {
	errLower := strings.ToLower(errMsg)
	return strings.Contains(errLower, "rate limit") ||
		strings.Contains(errLower, "timeout") ||
		strings.Contains(errLower, "overloaded") ||
		strings.Contains(errLower, "503") ||
		strings.Contains(errLower, "529")
}
