package expr

import (
	"fmt"
	"regexp"
	"strings"
)

// BinaryOp compares two resolved values.
type BinaryOp func(left, right any) bool

// Evaluator evaluates field conditions with optional custom operators.
type Evaluator struct {
	customOps map[string]BinaryOp
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithCustomOperator registers a custom binary operator. The name
// should not conflict with built-in operators.
func WithCustomOperator(name string, fn BinaryOp) Option {
	return func(e *Evaluator) {
		if e.customOps == nil {
			e.customOps = make(map[string]BinaryOp)
		}
		e.customOps[name] = fn
	}
}

// New creates an Evaluator with the given options.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Eval evaluates a condition against collected values using the
// default evaluator.
func Eval(condition string, vars map[string]any) (bool, error) {
	return New().Evaluate(condition, vars)
}

// Evaluate evaluates a condition against the provided variables.
// Supports ==, !=, <, >, <=, >=, contains, and/or/not combinators,
// and bare variables checked for truthiness. Equality is
// case-insensitive and whitespace-tolerant, matching how collected
// values are compared ("country == US" matches "us").
func (e *Evaluator) Evaluate(condition string, vars map[string]any) (bool, error) {
	condition = strings.TrimSpace(condition)
	if condition == "" {
		return false, nil
	}

	if inner, ok := strings.CutPrefix(condition, "not "); ok {
		result, err := e.Evaluate(inner, vars)
		return !result, err
	}
	if inner, ok := strings.CutPrefix(condition, "!"); ok {
		result, err := e.Evaluate(inner, vars)
		return !result, err
	}

	if parts := strings.SplitN(condition, " and ", 2); len(parts) == 2 {
		left, err := e.Evaluate(parts[0], vars)
		if err != nil {
			return false, err
		}
		right, err := e.Evaluate(parts[1], vars)
		if err != nil {
			return false, err
		}
		return left && right, nil
	}
	if parts := strings.SplitN(condition, " or ", 2); len(parts) == 2 {
		left, err := e.Evaluate(parts[0], vars)
		if err != nil {
			return false, err
		}
		right, err := e.Evaluate(parts[1], vars)
		if err != nil {
			return false, err
		}
		return left || right, nil
	}

	// Two-character operators before their one-character prefixes.
	builtinOps := []struct {
		op      string
		compare BinaryOp
	}{
		{"==", looseEquals},
		{"!=", func(l, r any) bool { return !looseEquals(l, r) }},
		{">=", func(l, r any) bool { return ToFloat64(l) >= ToFloat64(r) }},
		{"<=", func(l, r any) bool { return ToFloat64(l) <= ToFloat64(r) }},
		{">", func(l, r any) bool { return ToFloat64(l) > ToFloat64(r) }},
		{"<", func(l, r any) bool { return ToFloat64(l) < ToFloat64(r) }},
		{" contains ", func(l, r any) bool {
			return strings.Contains(
				strings.ToLower(fmt.Sprintf("%v", l)),
				strings.ToLower(fmt.Sprintf("%v", r)))
		}},
	}

	for _, op := range builtinOps {
		if parts := strings.SplitN(condition, op.op, 2); len(parts) == 2 {
			left := Resolve(parts[0], vars)
			right := Resolve(parts[1], vars)
			return op.compare(left, right), nil
		}
	}

	for name, fn := range e.customOps {
		if parts := strings.SplitN(condition, " "+name+" ", 2); len(parts) == 2 {
			left := Resolve(parts[0], vars)
			right := Resolve(parts[1], vars)
			return fn(left, right), nil
		}
	}

	// A bare variable name checks for presence. Anything else that
	// reached this point names no operator this evaluator knows, and
	// guessing would activate fields on garbage, so it is an error
	// the caller can log and skip.
	if identPattern.MatchString(condition) {
		return IsTruthy(Resolve(condition, vars)), nil
	}
	return false, fmt.Errorf("unsupported condition: %q", condition)
}

var identPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// looseEquals compares values the way user answers are compared:
// rendered as strings, trimmed, case-insensitive.
func looseEquals(left, right any) bool {
	l := strings.TrimSpace(fmt.Sprintf("%v", left))
	r := strings.TrimSpace(fmt.Sprintf("%v", right))
	return strings.EqualFold(l, r)
}
