package classify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/randalmurphal/fieldflow/pkg/fieldflow/llm"
)

// errNoClient is returned when classification is attempted without a
// configured generation client. Callers treat it like any other client
// fault and fall back to their default label.
var errNoClient = errors.New("no generation client configured")

// DefaultTimeout bounds a single classification call. Classification
// prompts are short, so this is tighter than the extraction timeout.
const DefaultTimeout = 30 * time.Second

// Example is a few-shot example for generic classification.
type Example struct {
	Text  string
	Label string
}

// maxExamples caps how many few-shot examples go into a prompt.
const maxExamples = 5

// Classifier answers closed-label classification questions with a
// generation client. Every method degrades to a safe default label on
// client failure; a classifier fault never fails a conversation turn.
type Classifier struct {
	client  llm.Client
	logger  *slog.Logger
	timeout time.Duration
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Classifier) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the classifier's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Classifier) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a classifier backed by the given client.
func New(client llm.Client, opts ...Option) *Classifier {
	c := &Classifier{
		client:  client,
		logger:  slog.Default(),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify assigns text to one of the given labels, optionally guided
// by few-shot examples and extra context. On client failure or an
// unmatched response it returns the first label.
func (c *Classifier) Classify(ctx context.Context, text string, labels []string, examples []Example, extra string) string {
	if len(labels) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Classify the following text into exactly one category.\n\nCategories: %s\n", strings.Join(labels, ", "))
	if extra != "" {
		fmt.Fprintf(&b, "\nContext: %s\n", extra)
	}
	if len(examples) > 0 {
		b.WriteString("\nExamples:\n")
		for i, ex := range examples {
			if i >= maxExamples {
				break
			}
			fmt.Fprintf(&b, "- %q -> %s\n", ex.Text, ex.Label)
		}
	}
	fmt.Fprintf(&b, "\nText: %q\n\nCategory:", text)

	result, err := c.generate(ctx, b.String(), 20)
	if err != nil {
		c.logger.Error("classification failed, using default label",
			"default", labels[0],
			"error", err)
		return labels[0]
	}

	lower := strings.ToLower(result)
	for _, label := range labels {
		if strings.Contains(lower, strings.ToLower(label)) {
			return label
		}
	}
	return labels[0]
}

func (c *Classifier) generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if c.client == nil {
		return "", llm.NewError("classify", errNoClient, false)
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Generate(ctx, llm.GenerateRequest{
		Prompt:      prompt,
		MaxTokens:   maxTokens,
		Temperature: 0.1,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text), nil
}
