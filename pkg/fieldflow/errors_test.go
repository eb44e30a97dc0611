package fieldflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNodeError_Error tests NodeError formatting.
func TestNodeError_Error(t *testing.T) {
	err := &NodeError{
		NodeID: "field_extraction",
		Op:     "execute",
		Err:    errors.New("generation failed"),
	}

	assert.Equal(t, "node field_extraction: execute: generation failed", err.Error())
}

// TestNodeError_Unwrap tests NodeError unwrapping.
func TestNodeError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying")
	err := &NodeError{
		NodeID: "test",
		Op:     "execute",
		Err:    underlying,
	}

	assert.ErrorIs(t, err, underlying)
}

// TestPanicError_Error tests PanicError formatting.
func TestPanicError_Error(t *testing.T) {
	err := &PanicError{
		NodeID: "crash",
		Value:  "unexpected nil",
		Stack:  "goroutine 1 [running]:\n...",
	}

	assert.Equal(t, "node crash panicked: unexpected nil", err.Error())
}

// TestCancellationError_Error tests cancellation error formatting.
func TestCancellationError_Error(t *testing.T) {
	err := &CancellationError{
		NodeID: "pending",
		State:  nil,
		Cause:  context.Canceled,
	}

	assert.Equal(t, "cancelled before node pending: context canceled", err.Error())
}

// TestCancellationError_Unwrap tests CancellationError unwrapping.
func TestCancellationError_Unwrap(t *testing.T) {
	err := &CancellationError{
		NodeID: "test",
		Cause:  context.Canceled,
	}

	assert.ErrorIs(t, err, context.Canceled)
}

// TestRouterError_Error tests RouterError formatting.
func TestRouterError_Error(t *testing.T) {
	err := &RouterError{
		FromNode: "field_routing",
		Returned: "unknown",
		Err:      ErrUndeclaredSuccessor,
	}

	assert.Equal(t, "router from field_routing returned \"unknown\": router returned undeclared successor", err.Error())
}

// TestRouterError_Unwrap tests RouterError unwrapping.
func TestRouterError_Unwrap(t *testing.T) {
	err := &RouterError{
		FromNode: "test",
		Returned: "",
		Err:      ErrInvalidRouterResult,
	}

	assert.ErrorIs(t, err, ErrInvalidRouterResult)
}

// TestMaxIterationsError_Error tests MaxIterationsError formatting.
func TestMaxIterationsError_Error(t *testing.T) {
	err := &MaxIterationsError{
		Max:        50,
		LastNodeID: "loop",
		State:      nil,
	}

	assert.Equal(t, "exceeded maximum iterations (50) at node loop", err.Error())
}

// TestMaxIterationsError_Unwrap tests MaxIterationsError unwrapping.
func TestMaxIterationsError_Unwrap(t *testing.T) {
	err := &MaxIterationsError{
		Max:        100,
		LastNodeID: "test",
	}

	assert.ErrorIs(t, err, ErrMaxIterations)
}
