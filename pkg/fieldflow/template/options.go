package template

// MissingAction specifies how to handle placeholders with no matching
// value.
type MissingAction int

const (
	// MissingKeep keeps the placeholder as-is when the value is not
	// found. This is the default behavior.
	MissingKeep MissingAction = iota

	// MissingEmpty replaces the placeholder with an empty string when
	// the value is not found.
	MissingEmpty

	// MissingError returns an error when a value is not found.
	MissingError
)

// Option configures an Expander.
type Option func(*Expander)

// WithMissingAction sets how missing values are handled.
//
// Default: MissingKeep (keep placeholder as-is)
func WithMissingAction(action MissingAction) Option {
	return func(e *Expander) {
		e.missingAction = action
	}
}

// WithFieldStyle enables or disables {field} pattern substitution.
//
// Default: true (enabled)
func WithFieldStyle(enabled bool) Option {
	return func(e *Expander) {
		e.fieldStyle = enabled
	}
}

// WithBraceStyle enables or disables ${field} pattern substitution.
//
// Default: true (enabled)
func WithBraceStyle(enabled bool) Option {
	return func(e *Expander) {
		e.braceStyle = enabled
	}
}
