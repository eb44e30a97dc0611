package config

import (
	"time"
)

// Config is a read-only view over a map of settings, usually decoded
// from a YAML or JSON file. Accessors never fail: a missing key or a
// value of the wrong type yields the caller's default, so engine
// tunables always resolve to something usable.
type Config struct {
	data map[string]any
}

// New wraps the given map. A nil map behaves like an empty one.
func New(data map[string]any) Config {
	if data == nil {
		data = map[string]any{}
	}
	return Config{data: data}
}

func (c Config) lookup(key string) (any, bool) {
	v, ok := c.data[key]
	return v, ok
}

// String returns the value for key when it is a string, otherwise
// defaultVal.
func (c Config) String(key, defaultVal string) string {
	if v, ok := c.lookup(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return defaultVal
}

// Bool returns the value for key when it is a bool, otherwise
// defaultVal.
func (c Config) Bool(key string, defaultVal bool) bool {
	if v, ok := c.lookup(key); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return defaultVal
}

// Duration returns the duration for key. Strings go through
// time.ParseDuration ("90s", "2m"); bare numbers are taken as
// seconds, which is how the agent settings files write timeouts.
func (c Config) Duration(key string, defaultVal time.Duration) time.Duration {
	v, ok := c.lookup(key)
	if !ok {
		return defaultVal
	}
	switch n := v.(type) {
	case time.Duration:
		return n
	case string:
		if d, err := time.ParseDuration(n); err == nil {
			return d
		}
	case int:
		return time.Duration(n) * time.Second
	case int64:
		return time.Duration(n) * time.Second
	case float64:
		return time.Duration(n * float64(time.Second))
	}
	return defaultVal
}

// Int returns the integer for key. Whole-valued floats are accepted
// because JSON decoding produces float64 for every number; fractional
// values fall back to defaultVal rather than silently truncating.
func (c Config) Int(key string, defaultVal int) int {
	v, ok := c.lookup(key)
	if !ok {
		return defaultVal
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		if n == float64(int(n)) {
			return int(n)
		}
	}
	return defaultVal
}

// Float returns the float for key, accepting integer values too.
func (c Config) Float(key string, defaultVal float64) float64 {
	v, ok := c.lookup(key)
	if !ok {
		return defaultVal
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return defaultVal
}

// StringSlice returns the string slice for key. A []any is accepted
// only when every element is a string; a mixed list falls back to
// defaultVal instead of dropping elements.
func (c Config) StringSlice(key string, defaultVal []string) []string {
	v, ok := c.lookup(key)
	if !ok {
		return defaultVal
	}
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return defaultVal
			}
			out = append(out, s)
		}
		return out
	}
	return defaultVal
}

// Any returns the raw value for key, or defaultVal when absent.
func (c Config) Any(key string, defaultVal any) any {
	if v, ok := c.lookup(key); ok {
		return v
	}
	return defaultVal
}

// Has reports whether key is present.
func (c Config) Has(key string) bool {
	_, ok := c.lookup(key)
	return ok
}

// Raw exposes the underlying map. Treat it as read-only.
func (c Config) Raw() map[string]any {
	return c.data
}
