package fieldflow

// END is the terminal step identifier.
// Use this as an edge target to mark a suspend point: the traversal for the
// current turn stops when it reaches END.
const END = "__end__"

// NodeFunc is the signature for all processing steps.
// A node receives the execution context and the current state snapshot and
// returns the next snapshot (or the same one) and any error.
//
// State is passed by value. Nodes must build and return a new snapshot, not
// rely on pointer mutation.
//
// Example:
//
//	func extract(ctx fieldflow.Context, s Snapshot) (Snapshot, error) {
//	    s.RetryCount++
//	    return s, nil
//	}
type NodeFunc[S any] func(ctx Context, state S) (S, error)

// RouterFunc picks the next step based on state.
// It is used for conditional edges where the successor depends on runtime
// state.
//
// The router must return one of the successors declared when the conditional
// edge was added (or END, if declared). Anything else is a configuration
// error and aborts the traversal.
//
// Example:
//
//	func afterRouter(ctx fieldflow.Context, s Snapshot) string {
//	    if s.IsComplete {
//	        return "confirmation_summary"
//	    }
//	    return "question_generation"
//	}
type RouterFunc[S any] func(ctx Context, state S) string
