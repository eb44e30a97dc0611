package parse

import (
	"regexp"
	"strconv"
	"strings"
)

// MaxOptions is the largest option list the selection parser handles.
// Selections beyond this are left to the generation-based classifier.
const MaxOptions = 10

var (
	numberPattern = regexp.MustCompile(`\b(\d+)\b`)
	optionPattern = regexp.MustCompile(`\b(?:option|choice)\s*(\d+)\b`)
	lastPattern   = regexp.MustCompile(`\b(?:last|final)(?:\s+one)?\b`)
	yesPattern    = regexp.MustCompile(`\byes\b`)
	noPattern     = regexp.MustCompile(`\b(?:no|nope)\b`)

	ordinalRegexes = []struct {
		re    *regexp.Regexp
		index int
	}{
		{regexp.MustCompile(`\b1st\b`), 0},
		{regexp.MustCompile(`\b2nd\b`), 1},
		{regexp.MustCompile(`\b3rd\b`), 2},
		{regexp.MustCompile(`\b4th\b`), 3},
		{regexp.MustCompile(`\b5th\b`), 4},
		{regexp.MustCompile(`\b6th\b`), 5},
		{regexp.MustCompile(`\b7th\b`), 6},
		{regexp.MustCompile(`\b8th\b`), 7},
		{regexp.MustCompile(`\b9th\b`), 8},
		{regexp.MustCompile(`\b10th\b`), 9},
	}

	writtenNumbers = map[string]int{
		"one": 0, "two": 1, "three": 2, "four": 3, "five": 4,
		"six": 5, "seven": 6, "eight": 7, "nine": 8, "ten": 9,
	}

	// Single-word approvals map to the first option.
	approvalWords = map[string]bool{
		"sure": true, "okay": true, "ok": true,
		"yep": true, "yeah": true, "alright": true,
	}

	negationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\bnot\s+`),
		regexp.MustCompile(`\bmaybe\s+`),
		regexp.MustCompile(`\bperhaps\s+`),
		regexp.MustCompile(`\bmight\s+`),
	}

	selectionWords = []string{
		"select", "choose", "pick", "want", "take", "go with",
		"prefer", "like", "option", "choice", "number",
	}
)

// SelectionIndex extracts a zero-based option index from a user
// message. optionCount bounds the accepted range; pass 0 when the
// option count is unknown.
//
// Only unambiguous patterns are accepted: bare numbers, written
// numbers, numeric ordinals ("2nd"), explicit "option N"/"choice N",
// yes/no for binary choices, and "last one". Anything ambiguous
// returns ok=false so the caller can fall back to a classifier.
func SelectionIndex(message string, optionCount int) (int, bool) {
	lower := strings.ToLower(strings.TrimSpace(message))
	words := strings.Fields(lower)

	// "last one" needs a known option count.
	if optionCount > 0 && lastPattern.MatchString(lower) {
		return optionCount - 1, true
	}

	// Single words are the clearest signal.
	if len(words) == 1 {
		if idx, ok := writtenNumbers[words[0]]; ok {
			if within(idx, optionCount) {
				return idx, true
			}
		}
		if approvalWords[words[0]] {
			return 0, true
		}
	}

	// Strict yes/no for binary choices. Longer messages containing
	// yes/no are too ambiguous to resolve here.
	if yesPattern.MatchString(lower) {
		if len(words) <= 2 {
			return 0, true
		}
		return 0, false
	}
	if noPattern.MatchString(lower) {
		if optionCount == 1 {
			return 0, false
		}
		if len(words) <= 2 {
			return 1, true
		}
		return 0, false
	}

	// Multiple numbers ("1 or 2") are ambiguous.
	if len(numberPattern.FindAllString(lower, -1)) > 1 {
		return 0, false
	}

	if loc := numberPattern.FindStringSubmatchIndex(lower); loc != nil {
		// Skip digits that belong to a negative number.
		if loc[0] == 0 || lower[loc[0]-1] != '-' {
			num, err := strconv.Atoi(lower[loc[2]:loc[3]])
			if err == nil && num >= 1 && num <= MaxOptions && within(num-1, optionCount) {
				if len(words) <= 2 {
					return num - 1, true
				}
				return 0, false
			}
		}
	}

	// Hedged phrasing ("maybe the second") is not a selection.
	for _, re := range negationPatterns {
		if re.MatchString(lower) {
			return 0, false
		}
	}

	for _, ord := range ordinalRegexes {
		if ord.re.MatchString(lower) && within(ord.index, optionCount) {
			return ord.index, true
		}
	}

	if m := optionPattern.FindStringSubmatch(lower); m != nil {
		num, err := strconv.Atoi(m[1])
		if err == nil && num >= 1 && num <= MaxOptions && within(num-1, optionCount) {
			return num - 1, true
		}
	}

	return 0, false
}

// within reports whether a zero-based index fits the option count.
// A count of 0 means the count is unknown and any index passes.
func within(index, optionCount int) bool {
	return optionCount <= 0 || index < optionCount
}

// IsSelectionMessage reports whether a message looks like a selection
// attempt, even when the exact index cannot be resolved.
func IsSelectionMessage(message string) bool {
	lower := strings.ToLower(strings.TrimSpace(message))

	if _, ok := SelectionIndex(message, MaxOptions); ok {
		return true
	}
	if lastPattern.MatchString(lower) {
		return true
	}
	for _, w := range selectionWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
