// Package extract turns free-form user messages into field values.
//
// Extraction is two-tier. The fast path (Regex) handles common field
// shapes deterministically: emails, phone numbers, numbers, booleans,
// bare names, and per-field custom patterns. Everything the fast path
// cannot resolve goes to the Extractor, which prompts a generation
// client with the agent's field definitions and parses the JSON it
// returns.
//
// The payload parser is deliberately forgiving: models wrap JSON in
// prose and code fences, so a direct decode is tried first and a
// brace-delimited object is fished out of the text when that fails.
// Fields not in the agent's definition and null values are dropped
// either way.
package extract
