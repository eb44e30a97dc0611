// Package parse provides fast, deterministic parsing of short user
// replies: option selections and optional-field skip phrases.
//
// Both parsers are strict on purpose. They only resolve patterns a
// human would read one way ("2", "2nd", "option 2", "yes", "skip",
// "no thanks") and report everything else as unresolved, so callers
// can fall back to a generation-based classifier. Regex matching here
// costs microseconds; the classifier costs seconds, so the fast path
// handles the common cases and the classifier handles the long tail.
package parse
