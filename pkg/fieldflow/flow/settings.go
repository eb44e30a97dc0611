package flow

import (
	"time"

	"github.com/randalmurphal/fieldflow/pkg/fieldflow/config"
)

// Default tuning values. Overridable via Settings or a config map.
const (
	// DefaultMaxRetries bounds consecutive turns where extraction
	// produced nothing valid before the retry counter matters to
	// callers inspecting the snapshot.
	DefaultMaxRetries = 3

	// DefaultMaxConfirmationAttempts bounds summary re-prompts before
	// the confirmation auto-approves.
	DefaultMaxConfirmationAttempts = 3

	// DefaultQAAnswerTokens caps the length of a detour answer.
	DefaultQAAnswerTokens = 512

	DefaultExtractionTimeout     = 60 * time.Second
	DefaultClassificationTimeout = 30 * time.Second
	DefaultWebhookTimeout        = 30 * time.Second
)

// Settings holds the tunable limits for a conversation graph.
// The zero value is not usable; start from DefaultSettings.
type Settings struct {
	MaxRetries              int
	MaxConfirmationAttempts int
	QAAnswerTokens          int

	ExtractionTimeout     time.Duration
	ClassificationTimeout time.Duration
	WebhookTimeout        time.Duration
}

// DefaultSettings returns the limits used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		MaxRetries:              DefaultMaxRetries,
		MaxConfirmationAttempts: DefaultMaxConfirmationAttempts,
		QAAnswerTokens:          DefaultQAAnswerTokens,
		ExtractionTimeout:       DefaultExtractionTimeout,
		ClassificationTimeout:   DefaultClassificationTimeout,
		WebhookTimeout:          DefaultWebhookTimeout,
	}
}

// SettingsFromConfig reads limits from a config map, falling back to
// the defaults for missing keys.
//
// Recognized keys:
//
//	max_retries                int
//	max_confirmation_attempts  int
//	qa_answer_tokens           int
//	extraction_timeout         duration string or seconds
//	classification_timeout     duration string or seconds
//	webhook_timeout            duration string or seconds
func SettingsFromConfig(cfg config.Config) Settings {
	def := DefaultSettings()
	return Settings{
		MaxRetries:              cfg.Int("max_retries", def.MaxRetries),
		MaxConfirmationAttempts: cfg.Int("max_confirmation_attempts", def.MaxConfirmationAttempts),
		QAAnswerTokens:          cfg.Int("qa_answer_tokens", def.QAAnswerTokens),
		ExtractionTimeout:       cfg.Duration("extraction_timeout", def.ExtractionTimeout),
		ClassificationTimeout:   cfg.Duration("classification_timeout", def.ClassificationTimeout),
		WebhookTimeout:          cfg.Duration("webhook_timeout", def.WebhookTimeout),
	}
}
