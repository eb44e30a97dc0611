package parse

import (
	"regexp"
	"strings"
)

// BypassResult is the outcome of fast bypass detection on an optional
// field prompt.
type BypassResult int

const (
	// BypassAmbiguous means the message matched neither a skip phrase
	// nor obvious content; a classifier should decide.
	BypassAmbiguous BypassResult = iota

	// BypassSkip means the user clearly declined the optional field.
	BypassSkip

	// BypassProvide means the user is clearly providing content.
	BypassProvide
)

// String returns the result name for logging.
func (r BypassResult) String() string {
	switch r {
	case BypassSkip:
		return "skip"
	case BypassProvide:
		return "provide"
	default:
		return "ambiguous"
	}
}

// bypassPatterns match phrases that decline an optional field or ask
// to move on. Matched case-insensitively against the trimmed message.
var bypassPatterns = []*regexp.Regexp{
	// Direct skip/pass.
	regexp.MustCompile(`\b(skip|pass)\b`),
	regexp.MustCompile(`\bno\s+thanks?\b`),
	regexp.MustCompile(`\bthat'?s\s+(all|it|everything)\b`),

	// Simple negatives.
	regexp.MustCompile(`^\s*(no|nope|nah)\s*$`),
	regexp.MustCompile(`\bnot?\s+needed\b`),
	regexp.MustCompile(`\bdon'?t\s+have\s+(any|one|it)\b`),
	regexp.MustCompile(`\bi\s+don'?t\s+have\b`),
	regexp.MustCompile(`\bnothing\b`),

	// "I don't want" variations.
	regexp.MustCompile(`\bi\s+do\s+not\s+want\b`),
	regexp.MustCompile(`\bi\s+don'?t\s+want\b`),
	regexp.MustCompile(`\bdo\s+not\s+want\b`),
	regexp.MustCompile(`\bdon'?t\s+want\b`),
	regexp.MustCompile(`\bnot\s+interested\b`),
	regexp.MustCompile(`\bi\s+would\s+rather\s+not\b`),
	regexp.MustCompile(`\bi'?d\s+rather\s+not\b`),

	// Completion indicators.
	regexp.MustCompile(`\bwe'?re\s+done\b`),
	regexp.MustCompile(`\bthat'?s\s+enough\b`),
	regexp.MustCompile(`\bno\s+comments?\b`),
	regexp.MustCompile(`\bno\s+special\s+requests?\b`),

	// Polite declines.
	regexp.MustCompile(`\bi'?m\s+(good|fine|okay|ok)\b`),
	regexp.MustCompile(`\bnone\s+needed\b`),
	regexp.MustCompile(`\bnot\s+necessary\b`),

	// Requests to move forward.
	regexp.MustCompile(`\blet'?s\s+(proceed|continue|move\s+on|move\s+forward)\b`),
	regexp.MustCompile(`\bready\s+to\s+(proceed|continue|move\s+on)\b`),
	regexp.MustCompile(`\ball\s+set\b`),
	regexp.MustCompile(`\bgood\s+to\s+go\b`),
	regexp.MustCompile(`\bthat\s+covers\s+it\b`),
	regexp.MustCompile(`\bthat\s+should\s+(do\s+it|work)\b`),
	regexp.MustCompile(`\bmove\s+on\b`),
	regexp.MustCompile(`\bmove\s+forward\b`),
	regexp.MustCompile(`\bnext\s+(please|step|field)\b`),
	regexp.MustCompile(`\bwe\s+can\s+move\s+on\b`),
	regexp.MustCompile(`\bonward\b`),
}

// contentWordThreshold is the word count above which an unmatched
// message is treated as actual field content.
const contentWordThreshold = 5

// DetectBypass is the fast tier of bypass detection for optional
// field prompts. It returns BypassSkip when the message matches a
// decline phrase, BypassProvide when the message clearly looks like
// content, and BypassAmbiguous for short unmatched messages that need
// a classifier.
func DetectBypass(message string) BypassResult {
	lower := strings.ToLower(strings.TrimSpace(message))

	// Single characters carry no skip intent.
	if len(lower) < 2 {
		return BypassProvide
	}

	for _, re := range bypassPatterns {
		if re.MatchString(lower) {
			return BypassSkip
		}
	}

	if len(strings.Fields(lower)) > contentWordThreshold {
		return BypassProvide
	}

	// Digits in a short unmatched message read as an answer (a time,
	// a count, a reference number), not a decline.
	if strings.ContainsAny(lower, "0123456789") {
		return BypassProvide
	}

	return BypassAmbiguous
}
