// Package flow assembles the conversation graph that collects an
// agent's fields across user turns.
//
// Each turn runs the compiled graph once: an entry router inspects the
// session snapshot and dispatches to the step the conversation is
// waiting on (confirmation, a question-and-answer detour, or plain
// field extraction). Steps mutate the snapshot and the graph suspends
// at END until the next user message arrives.
//
// Build constructs a graph for a single agent definition. Engine wraps
// Build with session persistence and per-agent graph caching, which is
// what most callers want:
//
//	eng := flow.NewEngine(agents, st, client)
//	res, err := eng.Converse(ctx, flow.Turn{
//	    SessionID: "abc123",
//	    AgentID:   "registration",
//	    Message:   "my email is jo@example.com",
//	})
package flow
