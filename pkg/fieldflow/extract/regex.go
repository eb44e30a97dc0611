package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/randalmurphal/fieldflow/pkg/fieldflow/agent"
)

var (
	emailValuePattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	digitPattern      = regexp.MustCompile(`\b(\d+)\b`)
	nonDigit          = regexp.MustCompile(`[^\d]`)
	nameWordPattern   = regexp.MustCompile(`^[a-zA-Z'-]+$`)
)

// Phone digit bounds for the fast path. Values outside this range are
// left to generation-based extraction.
const (
	phoneMinDigits = 7
	phoneMaxDigits = 15
)

// Regex is the fast extraction path for common field shapes: emails,
// phone numbers, numbers, booleans, and short names. It answers in
// microseconds where generation-based extraction takes seconds, so it
// runs first on every turn.
//
// Fields may carry their own pattern, compiled once and cached. Regex
// is safe for concurrent use.
type Regex struct {
	mu     sync.RWMutex
	custom map[string]*regexp.Regexp
}

// NewRegex creates a fast-path extractor with no custom patterns.
func NewRegex() *Regex {
	return &Regex{custom: make(map[string]*regexp.Regexp)}
}

// RegisterPattern compiles and stores a custom pattern for a field.
// The pattern is matched case-insensitively.
func (r *Regex) RegisterPattern(fieldName, pattern string) error {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return fmt.Errorf("pattern for field %q: %w", fieldName, err)
	}
	r.mu.Lock()
	r.custom[fieldName] = re
	r.mu.Unlock()
	return nil
}

// TryExtract attempts deterministic extraction of a single field from
// a message. The second return is false when the fast path cannot
// handle the field or found nothing, in which case the caller falls
// back to generation-based extraction.
//
// A field's own pattern, when set, is registered on first use.
func (r *Regex) TryExtract(message string, field agent.FieldSpec) (any, bool) {
	msg := strings.TrimSpace(message)
	if msg == "" {
		return nil, false
	}

	if re := r.customPattern(field); re != nil {
		if m := re.FindString(msg); m != "" {
			return m, true
		}
		return nil, false
	}

	switch {
	case field.Validator == "email" || field.Type == "email":
		return extractEmail(msg)
	case field.Validator == "phone" || field.Type == "phone":
		return extractPhone(msg)
	case field.Type == "number" || field.Validator == "number":
		return extractNumber(msg)
	case field.Type == "boolean":
		return extractBoolean(msg)
	case field.Validator == "name":
		return extractName(msg)
	}
	return nil, false
}

func (r *Regex) customPattern(field agent.FieldSpec) *regexp.Regexp {
	r.mu.RLock()
	re, ok := r.custom[field.Name]
	r.mu.RUnlock()
	if ok {
		return re
	}
	if field.Pattern == "" {
		return nil
	}
	if err := r.RegisterPattern(field.Name, field.Pattern); err != nil {
		return nil
	}
	r.mu.RLock()
	re = r.custom[field.Name]
	r.mu.RUnlock()
	return re
}

func extractEmail(msg string) (any, bool) {
	if m := emailValuePattern.FindString(msg); m != "" {
		return strings.ToLower(m), true
	}
	return nil, false
}

func extractPhone(msg string) (any, bool) {
	digits := nonDigit.ReplaceAllString(msg, "")
	if len(digits) >= phoneMinDigits && len(digits) <= phoneMaxDigits {
		return digits, true
	}
	return nil, false
}

func extractNumber(msg string) (any, bool) {
	m := digitPattern.FindStringSubmatch(msg)
	if m == nil {
		return nil, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, false
	}
	return n, true
}

func extractBoolean(msg string) (any, bool) {
	switch strings.ToLower(strings.TrimSpace(msg)) {
	case "yes", "y", "yeah", "yep", "sure", "ok", "okay", "true":
		return true, true
	case "no", "n", "nah", "nope", "false":
		return false, true
	}
	return nil, false
}

// extractName accepts short answers that look like a bare name: one
// to four words of letters, apostrophes, and hyphens.
func extractName(msg string) (any, bool) {
	words := strings.Fields(msg)
	if len(words) < 1 || len(words) > 4 {
		return nil, false
	}
	titled := make([]string, len(words))
	for i, w := range words {
		if !nameWordPattern.MatchString(w) {
			return nil, false
		}
		titled[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(titled, " "), true
}
