package fieldflow

import (
	"errors"
	"fmt"
)

// Build and compile sentinels. Compile() joins one of these per
// defect, so a misdeclared graph reports every problem at once.
var (
	ErrNoEntryPoint = errors.New("entry point not set")

	ErrEntryNotFound = errors.New("entry point node not found")

	// ErrNodeNotFound means an edge or successor list names a node
	// that was never added.
	ErrNodeNotFound = errors.New("node not found")

	ErrNoPathToEnd = errors.New("no path to END from entry")
)

// Execution sentinels.
var (
	// ErrMaxIterations means one traversal exceeded the step limit.
	// A traversal serves a single user turn, so hitting the limit
	// always signals a routing cycle, never legitimate work.
	ErrMaxIterations = errors.New("exceeded maximum iterations")

	ErrNilContext = errors.New("context cannot be nil")

	ErrInvalidRouterResult = errors.New("router returned empty string")

	// ErrUndeclaredSuccessor means a router picked a target outside
	// its declared successor set. Configuration error, never retried.
	ErrUndeclaredSuccessor = errors.New("router returned undeclared successor")
)

// NodeError reports a step that returned an error, carrying the step
// identity so callers can log which part of the conversation failed.
type NodeError struct {
	NodeID string
	Op     string
	Err    error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %s: %s: %v", e.NodeID, e.Op, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

// PanicError reports a step that panicked. The stack is captured at
// the recovery point.
type PanicError struct {
	NodeID string
	Value  any
	Stack  string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("node %s panicked: %v", e.NodeID, e.Value)
}

// CancellationError reports a traversal stopped by its context. State
// holds the snapshot as of the last completed step; type-assert it to
// recover what the turn had accumulated.
type CancellationError struct {
	// NodeID is the step that was about to run.
	NodeID string
	State  any
	// Cause is context.Canceled or context.DeadlineExceeded.
	Cause error
}

func (e *CancellationError) Error() string {
	return fmt.Sprintf("cancelled before node %s: %v", e.NodeID, e.Cause)
}

func (e *CancellationError) Unwrap() error {
	return e.Cause
}

// RouterError reports a conditional edge that produced an unusable
// target: empty, undeclared, or unknown.
type RouterError struct {
	FromNode string
	// Returned is the target the router chose.
	Returned string
	Err      error
}

func (e *RouterError) Error() string {
	return fmt.Sprintf("router from %s returned %q: %v", e.FromNode, e.Returned, e.Err)
}

func (e *RouterError) Unwrap() error {
	return e.Err
}

// MaxIterationsError carries the state at the point the step limit
// tripped, for diagnosing the cycle.
type MaxIterationsError struct {
	Max int
	// LastNodeID is the step that would have run next.
	LastNodeID string
	State      any
}

func (e *MaxIterationsError) Error() string {
	return fmt.Sprintf("exceeded maximum iterations (%d) at node %s", e.Max, e.LastNodeID)
}

func (e *MaxIterationsError) Unwrap() error {
	return ErrMaxIterations
}
