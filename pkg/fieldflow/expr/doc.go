// Package expr evaluates the conditions that gate conditional fields.
//
// A condition is a short boolean expression over collected values,
// written in agent.json:
//
//	"condition": "country == US"
//	"condition": "has_pet == true and pet_type != fish"
//
// Equality is deliberately loose: both sides are rendered as strings,
// trimmed, and compared case-insensitively, because the left side is
// whatever the user typed. Values may be quoted or bare; bare tokens
// resolve as variables first, then fall back to string literals.
//
// Supported operators: ==, !=, <, >, <=, >=, contains, plus and/or/
// not combinators and bare-variable truthiness. Custom operators can
// be registered on an Evaluator.
package expr
