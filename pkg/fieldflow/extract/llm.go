package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/randalmurphal/fieldflow/pkg/fieldflow/agent"
	"github.com/randalmurphal/fieldflow/pkg/fieldflow/llm"
)

// DefaultTimeout bounds a single extraction call.
const DefaultTimeout = 60 * time.Second

// jsonObjectPattern pulls the first brace-delimited object out of a
// response that wraps its JSON in prose or code fences.
var jsonObjectPattern = regexp.MustCompile(`(?s)\{[^}]+\}`)

// Extractor pulls structured field values out of free-form messages
// using a generation client. Prompts are built from the agent's field
// definitions, so any field set works without extractor changes.
type Extractor struct {
	client  llm.Client
	logger  *slog.Logger
	timeout time.Duration
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) ExtractorOption {
	return func(e *Extractor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithLogger sets the extractor's logger.
func WithLogger(logger *slog.Logger) ExtractorOption {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExtractor creates an extractor backed by the given client.
func NewExtractor(client llm.Client, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		client:  client,
		logger:  slog.Default(),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the field values found in message, keyed by field
// name. Only fields from the given set appear in the result, and only
// when the model found a non-null value. expectedField names the field
// the user was just asked about; pass empty when there is none.
//
// An unparseable response yields an empty map rather than an error,
// so one bad generation never fails the turn.
func (e *Extractor) Extract(ctx context.Context, message string, fields []agent.FieldSpec, expectedField string) (map[string]any, error) {
	if strings.TrimSpace(message) == "" || len(fields) == 0 {
		return map[string]any{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.client.Generate(ctx, llm.GenerateRequest{
		Prompt:      buildExtractionPrompt(message, fields, expectedField),
		MaxTokens:   256,
		Temperature: 0.1,
		Stop:        []string{"\n\n", "```"},
	})
	if err != nil {
		return nil, fmt.Errorf("extract fields: %w", err)
	}

	valid := make(map[string]bool, len(fields))
	for _, f := range fields {
		valid[f.Name] = true
	}

	values := parsePayload(resp.Text, valid)
	if len(values) == 0 && strings.TrimSpace(resp.Text) != "" {
		e.logger.Warn("extraction response had no usable fields",
			"response_len", len(resp.Text))
	}
	return values, nil
}

func buildExtractionPrompt(message string, fields []agent.FieldSpec, expectedField string) string {
	var b strings.Builder
	b.WriteString("Extract information from the user's message into structured fields.\n\n")
	b.WriteString("Fields to extract:\n")
	for _, f := range fields {
		fmt.Fprintf(&b, "- %s (type: %s)", f.Name, f.Type)
		if f.Hint != "" {
			fmt.Fprintf(&b, " [hint: %s]", f.Hint)
		}
		b.WriteString("\n")
	}

	if expectedField != "" {
		fmt.Fprintf(&b, "\nThe user was asked about: %s. Prioritize extracting this field.\n", expectedField)
	}

	fmt.Fprintf(&b, "\nUser message: %q\n\n", message)
	b.WriteString("Rules:\n")
	b.WriteString("- Only include fields clearly present in the message\n")
	b.WriteString("- Use null for fields not mentioned\n")
	b.WriteString("- For the expected field, try to interpret the entire message as a value\n")
	b.WriteString("- Return ONLY valid JSON\n\n")
	b.WriteString("JSON:")
	return b.String()
}

// parsePayload decodes the model's JSON, tolerating surrounding prose.
// Unknown and null fields are dropped.
func parsePayload(text string, valid map[string]bool) map[string]any {
	text = strings.TrimSpace(text)

	if values := decodeFiltered(text, valid); values != nil {
		return values
	}
	if m := jsonObjectPattern.FindString(text); m != "" {
		if values := decodeFiltered(m, valid); values != nil {
			return values
		}
	}
	return map[string]any{}
}

func decodeFiltered(text string, valid map[string]bool) map[string]any {
	var data map[string]any
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		return nil
	}
	values := make(map[string]any)
	for k, v := range data {
		if valid[k] && v != nil {
			values[k] = v
		}
	}
	return values
}
