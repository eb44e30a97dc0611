package template

import (
	"fmt"
	"regexp"
	"strings"
)

// placeholderPattern matches {field} and ${field} in a single pass so
// the dollar form is never half-substituted by the bare form.
var placeholderPattern = regexp.MustCompile(`\$?\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// Expander substitutes placeholders in agent text.
//
// Create with NewExpander() and configure with Option functions.
// Expander is safe for concurrent use after construction.
type Expander struct {
	missingAction MissingAction
	fieldStyle    bool
	braceStyle    bool
}

// NewExpander creates a new Expander with the given options.
//
// Default configuration:
//   - MissingAction: MissingKeep (keep placeholders as-is)
//   - FieldStyle: enabled ({field})
//   - BraceStyle: enabled (${field})
func NewExpander(opts ...Option) *Expander {
	e := &Expander{
		missingAction: MissingKeep,
		fieldStyle:    true,
		braceStyle:    true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Expand substitutes placeholders in s using the provided values.
//
// Errors are only returned when MissingAction is MissingError and a
// placeholder has no value.
//
// Example:
//
//	exp := NewExpander()
//	result, err := exp.Expand("Thanks {full_name}!", map[string]any{"full_name": "Jo"})
//	// result: "Thanks Jo!"
func (e *Expander) Expand(s string, values map[string]any) (string, error) {
	if s == "" {
		return "", nil
	}

	var missing []string
	result := placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		dollar := strings.HasPrefix(match, "$")
		if dollar && !e.braceStyle {
			return match
		}
		if !dollar && !e.fieldStyle {
			return match
		}

		name := strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(match, "$"), "{"), "}")
		if val, ok := values[name]; ok {
			return fmt.Sprintf("%v", val)
		}
		switch e.missingAction {
		case MissingEmpty:
			return ""
		case MissingError:
			missing = append(missing, name)
			return match
		default: // MissingKeep
			return match
		}
	})

	if len(missing) > 0 {
		return result, &UndefinedVariableError{Names: missing}
	}
	return result, nil
}

// MustExpand substitutes placeholders in s and panics on error.
//
// Use this when all values are known present or when using
// MissingKeep/MissingEmpty, which never return errors.
func (e *Expander) MustExpand(s string, values map[string]any) string {
	result, err := e.Expand(s, values)
	if err != nil {
		panic(fmt.Sprintf("template: %v", err))
	}
	return result
}

// ExpandAll substitutes placeholders in all strings.
//
// Returns a new slice with substituted strings. On error (with
// MissingError), returns nil and the first error.
func (e *Expander) ExpandAll(ss []string, values map[string]any) ([]string, error) {
	if ss == nil {
		return nil, nil
	}

	results := make([]string, len(ss))
	for i, s := range ss {
		expanded, err := e.Expand(s, values)
		if err != nil {
			return nil, err
		}
		results[i] = expanded
	}
	return results, nil
}

// ExpandMap substitutes placeholders in all string values of a map
// recursively.
//
// Returns a new map with substituted values. Non-string values are
// copied as-is. Nested maps (map[string]any) are handled recursively.
// On error (with MissingError), returns nil and the first error.
func (e *Expander) ExpandMap(m map[string]any, values map[string]any) (map[string]any, error) {
	if m == nil {
		return nil, nil
	}

	result := make(map[string]any, len(m))
	for k, v := range m {
		expanded, err := e.expandValue(v, values)
		if err != nil {
			return nil, err
		}
		result[k] = expanded
	}
	return result, nil
}

// expandValue handles strings and nested maps.
func (e *Expander) expandValue(v any, values map[string]any) (any, error) {
	switch val := v.(type) {
	case string:
		return e.Expand(val, values)
	case map[string]any:
		return e.ExpandMap(val, values)
	default:
		return v, nil
	}
}

// UndefinedVariableError is returned when MissingError is set and one
// or more placeholders have no value.
type UndefinedVariableError struct {
	// Names is the list of unresolved placeholder names.
	Names []string
}

// Error implements the error interface.
func (e *UndefinedVariableError) Error() string {
	if len(e.Names) == 1 {
		return fmt.Sprintf("undefined variable: %s", e.Names[0])
	}
	return fmt.Sprintf("undefined variables: %s", strings.Join(e.Names, ", "))
}

// defaultExpander is the package-level expander with default settings.
var defaultExpander = NewExpander()

// Expand substitutes placeholders in s using the default expander.
//
// Uses MissingKeep behavior (missing placeholders stay as-is).
//
// Example:
//
//	result := template.Expand("Thanks {full_name}!", collected)
func Expand(s string, values map[string]any) string {
	// Default expander never returns errors (MissingKeep).
	result, _ := defaultExpander.Expand(s, values)
	return result
}

// ExpandAll substitutes placeholders in all strings using the default
// expander.
func ExpandAll(ss []string, values map[string]any) []string {
	results, _ := defaultExpander.ExpandAll(ss, values)
	return results
}

// ExpandMap substitutes placeholders in all string values using the
// default expander. Nested maps are handled recursively.
func ExpandMap(m map[string]any, values map[string]any) map[string]any {
	result, _ := defaultExpander.ExpandMap(m, values)
	return result
}
