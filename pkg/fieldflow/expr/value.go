package expr

import (
	"strconv"
	"strings"
)

// Resolve turns one side of a condition into a value: quoted strings
// and number/boolean/null literals become literals, known variable
// names resolve from vars, and anything else is kept as a bare string.
// Bare strings let agent conditions write "country == US" without
// quoting.
func Resolve(s string, vars map[string]any) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1]
		}
	}

	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	case "null", "nil":
		return nil
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}

	if vars != nil {
		if val, ok := vars[s]; ok {
			return val
		}
	}
	return s
}

// IsTruthy reports whether a value counts as present: nil, false,
// empty strings, and zero numbers do not.
func IsTruthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return strings.TrimSpace(val) != ""
	case int:
		return val != 0
	case int32:
		return val != 0
	case int64:
		return val != 0
	case float32:
		return val != 0
	case float64:
		return val != 0
	default:
		return true
	}
}

// ToFloat64 converts a value for numeric comparison. Values that do
// not convert compare as 0.
func ToFloat64(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f
	default:
		return 0
	}
}
