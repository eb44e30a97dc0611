// Package classify answers closed-label questions about user messages
// with a generation client: what the user wants this turn, whether a
// Q&A detour should continue, whether an optional field is being
// skipped, and which field a change request targets.
//
// Every classifier degrades to a safe default on failure. Intent
// defaults to the task path, continuation to answering again, bypass
// to keeping the user's input. A generation outage makes the
// conversation less clever, never broken.
package classify
