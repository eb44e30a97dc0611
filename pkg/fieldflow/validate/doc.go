// Package validate checks extracted field values before they are
// accepted into collected data.
//
// Validators are plain functions registered by name. Built-ins cover
// the common field shapes: name, email, phone, number, and text.
// Agents reference a validator in a field's "validator" key, and may
// tune it through "validator_config":
//
//	{"name": "age", "type": "number", "validator": "number",
//	 "validator_config": {"min": 13, "max": 120}}
//
// Validation errors carry the exact sentence to show the user, so
// callers relay them verbatim instead of composing their own copy.
//
// When a field has no validator configured, Infer picks one from the
// field's name and type, and Run treats unknown names as pass-through.
package validate
