package agent

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// defaultFieldOrder places fields without an explicit order after all
// ordered fields.
const defaultFieldOrder = 999

// FieldSpec describes a single field an agent collects.
type FieldSpec struct {
	// Name is the field's key in collected data. Required.
	Name string `json:"name"`

	// Type is the field's value type: "string", "text", "number",
	// "email", "phone", or "boolean". Required.
	Type string `json:"type"`

	// Question is the prompt asked when requesting this field. Required.
	Question string `json:"question"`

	// Required marks the field as mandatory for completion.
	// Defaults to true when absent.
	Required *bool `json:"required,omitempty"`

	// Order controls the sequence fields are asked in. Lower values
	// are asked first. Fields without an order sort last.
	Order *int `json:"order,omitempty"`

	// Condition gates a conditional field. The format is
	// "field_name == value" or "field_name != value", evaluated
	// against already collected values.
	Condition string `json:"condition,omitempty"`

	// Validator names the validator to run on extracted values.
	// When empty, a validator may be inferred from Name and Type.
	Validator string `json:"validator,omitempty"`

	// ValidatorConfig carries validator-specific settings, such as
	// min/max bounds for number validation.
	ValidatorConfig map[string]any `json:"validator_config,omitempty"`

	// Hint is extra guidance included in extraction prompts.
	Hint string `json:"hint,omitempty"`

	// Pattern is an optional regular expression used as a fast
	// extraction path before calling the generation client.
	Pattern string `json:"pattern,omitempty"`
}

// IsRequired reports whether the field is mandatory.
func (f FieldSpec) IsRequired() bool {
	return f.Required == nil || *f.Required
}

// IsConditional reports whether the field is gated by a condition.
func (f FieldSpec) IsConditional() bool {
	return strings.TrimSpace(f.Condition) != ""
}

func (f FieldSpec) sortOrder() int {
	if f.Order == nil {
		return defaultFieldOrder
	}
	return *f.Order
}

// Completion configures what happens once all required fields are
// collected.
type Completion struct {
	// Message is sent to the user on completion.
	Message string `json:"message,omitempty"`

	// Action describes what to do with the collected data: "log",
	// "webhook:<url>", or the name of a registered completion hook.
	Action string `json:"action,omitempty"`
}

// Definition is a parsed and validated agent configuration.
type Definition struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Greeting    string      `json:"greeting,omitempty"`
	Persona     string      `json:"persona,omitempty"`
	Fields      []FieldSpec `json:"fields"`
	Completion  Completion  `json:"completion,omitempty"`

	// Dir is the directory the definition was loaded from.
	// Empty for definitions parsed from raw bytes.
	Dir string `json:"-"`
}

// Parse decodes and validates an agent definition from JSON.
// Missing optional settings receive defaults: greeting, persona,
// and the completion message and action.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse agent definition: %w", err)
	}
	if err := def.validate(); err != nil {
		return nil, err
	}
	def.applyDefaults()
	return &def, nil
}

func (d *Definition) validate() error {
	var errs []error

	if strings.TrimSpace(d.ID) == "" {
		errs = append(errs, errors.New("agent id is required"))
	}
	if strings.TrimSpace(d.Name) == "" {
		errs = append(errs, errors.New("agent name is required"))
	}
	if strings.TrimSpace(d.Description) == "" {
		errs = append(errs, errors.New("agent description is required"))
	}
	if len(d.Fields) == 0 {
		errs = append(errs, errors.New("agent must define at least one field"))
	}

	seen := make(map[string]bool, len(d.Fields))
	for i, f := range d.Fields {
		if strings.TrimSpace(f.Name) == "" {
			errs = append(errs, fmt.Errorf("field %d: name is required", i))
			continue
		}
		if strings.TrimSpace(f.Type) == "" {
			errs = append(errs, fmt.Errorf("field %q: type is required", f.Name))
		}
		if strings.TrimSpace(f.Question) == "" {
			errs = append(errs, fmt.Errorf("field %q: question is required", f.Name))
		}
		if seen[f.Name] {
			errs = append(errs, fmt.Errorf("duplicate field name: %q", f.Name))
		}
		seen[f.Name] = true
	}

	return errors.Join(errs...)
}

func (d *Definition) applyDefaults() {
	if d.Greeting == "" {
		d.Greeting = fmt.Sprintf("Hello! I'm the %s agent. How can I help?", d.Name)
	}
	if d.Persona == "" {
		d.Persona = "helpful assistant"
	}
	if d.Completion.Message == "" {
		d.Completion.Message = "All information collected. Thank you!"
	}
	if d.Completion.Action == "" {
		d.Completion.Action = "log"
	}
}

// RequiredFields returns the unconditionally mandatory fields sorted
// by order. A field carrying a condition is excluded; whether it must
// be collected depends on the condition, so it belongs only to
// ConditionalFields.
func (d *Definition) RequiredFields() []FieldSpec {
	return d.selectFields(func(f FieldSpec) bool { return f.IsRequired() && !f.IsConditional() })
}

// OptionalFields returns the non-mandatory, unconditional fields
// sorted by order.
func (d *Definition) OptionalFields() []FieldSpec {
	return d.selectFields(func(f FieldSpec) bool { return !f.IsRequired() && !f.IsConditional() })
}

// ConditionalFields returns the fields gated by a condition,
// sorted by order.
func (d *Definition) ConditionalFields() []FieldSpec {
	return d.selectFields(FieldSpec.IsConditional)
}

func (d *Definition) selectFields(keep func(FieldSpec) bool) []FieldSpec {
	var out []FieldSpec
	for _, f := range d.Fields {
		if keep(f) {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].sortOrder() < out[j].sortOrder()
	})
	return out
}

// FieldByName returns the field definition with the given name.
func (d *Definition) FieldByName(name string) (FieldSpec, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Question returns the prompt for a field, falling back to a generic
// prompt for unknown fields.
func (d *Definition) Question(fieldName string) string {
	if f, ok := d.FieldByName(fieldName); ok && f.Question != "" {
		return f.Question
	}
	return fmt.Sprintf("Please provide your %s.", fieldName)
}

// Validator returns the validator name for a field, or empty when the
// field has none configured.
func (d *Definition) Validator(fieldName string) string {
	f, ok := d.FieldByName(fieldName)
	if !ok {
		return ""
	}
	return f.Validator
}

// Summary returns the fields exposed when listing agents.
func (d *Definition) Summary() map[string]any {
	return map[string]any{
		"id":                   d.ID,
		"name":                 d.Name,
		"description":          d.Description,
		"field_count":          len(d.Fields),
		"required_field_count": len(d.RequiredFields()),
		"optional_field_count": len(d.OptionalFields()),
	}
}
