package validate

import (
	"strings"

	"github.com/randalmurphal/fieldflow/pkg/fieldflow/registry"
)

// Config carries validator-specific settings from a field's
// validator_config, such as min/max bounds.
type Config map[string]any

// Func checks an extracted value. A nil return means the value is
// acceptable; a non-nil error carries the message shown to the user.
type Func func(value any, cfg Config) error

// builtin validators, registered at init.
var defaultRegistry = registry.New[string, Func]()

func init() {
	defaultRegistry.RegisterMany(map[string]Func{
		"name":   Name,
		"email":  Email,
		"phone":  Phone,
		"number": Number,
		"text":   Text,
	})
}

// Register adds or replaces a validator under the given name.
func Register(name string, fn Func) {
	defaultRegistry.Register(name, fn)
}

// Get returns the validator registered under name.
func Get(name string) (Func, bool) {
	return defaultRegistry.Get(name)
}

// Run validates value with the named validator. Unknown validator
// names accept everything, so fields without validation pass through.
func Run(name string, value any, cfg Config) error {
	fn, ok := defaultRegistry.Get(name)
	if !ok {
		return nil
	}
	return fn(value, cfg)
}

// nameHints maps substrings of field names to validator names.
var nameHints = []struct{ substr, validator string }{
	{"email", "email"},
	{"phone", "phone"},
	{"full_name", "name"},
	{"first_name", "name"},
	{"last_name", "name"},
	{"name", "name"},
	{"age", "number"},
	{"count", "number"},
	{"quantity", "number"},
	{"amount", "number"},
	{"price", "number"},
	{"number", "number"},
	{"size", "number"},
	{"years", "number"},
}

// Infer picks a validator name from a field's name and type when no
// validator is configured. Returns empty when nothing matches.
func Infer(fieldName, fieldType string) string {
	lower := strings.ToLower(fieldName)
	for _, h := range nameHints {
		if strings.Contains(lower, h.substr) {
			return h.validator
		}
	}
	switch fieldType {
	case "number":
		return "number"
	case "text":
		return "text"
	case "email":
		return "email"
	case "phone":
		return "phone"
	}
	return ""
}

// cfgInt reads an integer setting from cfg, tolerating the float64
// values JSON decoding produces.
func cfgInt(cfg Config, key string, def int) int {
	v, ok := cfg[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return def
}

// cfgFloat reads a numeric setting from cfg. The second return is
// false when the key is absent or not numeric.
func cfgFloat(cfg Config, key string) (float64, bool) {
	v, ok := cfg[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
