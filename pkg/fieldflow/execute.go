package fieldflow

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/randalmurphal/fieldflow/pkg/fieldflow/observability"
	"go.opentelemetry.io/otel/trace"
)

// Run executes the graph for one conversational turn with the given state.
// Returns the final state and any error encountered.
//
// On success, returns the state after the last node executed before END.
// On error, returns the state at the point of failure (useful for debugging).
//
// Execution flow:
//  1. Start at the entry point node
//  2. Check for cancellation
//  3. Execute the current node
//  4. Determine the next node (via simple or conditional edge)
//  5. Repeat until END is reached or an error occurs
//
// Example:
//
//	ctx := fieldflow.NewContext(context.Background())
//	result, err := compiled.Run(ctx, state)
//	if err != nil {
//	    // result contains state at point of failure
//	}
func (cg *CompiledGraph[S]) Run(ctx Context, state S, opts ...RunOption) (result S, runErr error) {
	if ctx == nil {
		return state, ErrNilContext
	}

	cfg := defaultRunConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = ctx.Logger()
	}

	turnID := ctx.TurnID()
	startTime := time.Now()

	observability.LogTurnStart(cfg.logger, turnID, cg.entryPoint)

	// Start turn span if tracing enabled
	var execCtx context.Context = ctx
	var turnSpan trace.Span
	if cfg.tracingEnabled {
		execCtx, turnSpan = cfg.spans.StartTurnSpan(ctx, ctx.SessionID(), turnID)
		defer func() {
			cfg.spans.EndSpanWithError(turnSpan, runErr)
		}()
	}

	var nodeCount int
	result, nodeCount, runErr = cg.runFrom(execCtx, ctx, state, cg.entryPoint, &cfg)

	duration := time.Since(startTime)
	durationMs := float64(duration.Milliseconds())

	cfg.metrics.RecordTurn(ctx, runErr == nil, duration)

	if runErr != nil {
		lastNode := ""
		switch e := runErr.(type) {
		case *NodeError:
			lastNode = e.NodeID
		case *RouterError:
			lastNode = e.FromNode
		case *MaxIterationsError:
			lastNode = e.LastNodeID
		case *CancellationError:
			lastNode = e.NodeID
		case *PanicError:
			lastNode = e.NodeID
		}
		observability.LogTurnError(cfg.logger, turnID, runErr, durationMs, lastNode)
	} else {
		observability.LogTurnComplete(cfg.logger, turnID, durationMs, nodeCount)
	}

	return result, runErr
}

// runFrom executes the graph starting from a specific node.
// tracingCtx carries span context; ffCtx is the fieldflow Context.
// Returns the final state, node count, and any error.
func (cg *CompiledGraph[S]) runFrom(tracingCtx context.Context, ffCtx Context, state S, startNode string, cfg *runConfig) (S, int, error) {
	current := startNode
	iterations := 0
	nodeCount := 0

	for current != END {
		iterations++
		if iterations > cfg.maxIterations {
			return state, nodeCount, &MaxIterationsError{
				Max:        cfg.maxIterations,
				LastNodeID: current,
				State:      state,
			}
		}

		// Check for cancellation before executing node
		select {
		case <-ffCtx.Done():
			return state, nodeCount, &CancellationError{
				NodeID: current,
				State:  state,
				Cause:  ffCtx.Err(),
			}
		default:
		}

		observability.LogNodeStart(cfg.logger, current)

		// Start node span if tracing enabled
		nodeTracingCtx := tracingCtx
		var nodeSpan trace.Span
		if cfg.tracingEnabled {
			nodeTracingCtx, nodeSpan = cfg.spans.StartNodeSpan(tracingCtx, current)
		}

		nodeStart := time.Now()

		var nodeErr error
		state, nodeErr = cg.executeNode(ffCtx, current, state)

		nodeDuration := time.Since(nodeStart)
		nodeDurationMs := float64(nodeDuration.Milliseconds())

		cfg.metrics.RecordNodeExecution(nodeTracingCtx, current, nodeDuration, nodeErr)

		if cfg.tracingEnabled {
			cfg.spans.EndSpanWithError(nodeSpan, nodeErr)
		}

		if nodeErr != nil {
			observability.LogNodeError(cfg.logger, current, nodeErr)
			return state, nodeCount, nodeErr
		}
		observability.LogNodeComplete(cfg.logger, current, nodeDurationMs)
		nodeCount++

		next, err := cg.nextNode(ffCtx, state, current)
		if err != nil {
			return state, nodeCount, err
		}
		observability.LogRoute(cfg.logger, current, next)

		current = next
	}

	return state, nodeCount, nil
}

// executeNode executes a single node with panic recovery.
// Returns the new state and any error (including wrapped panics).
func (cg *CompiledGraph[S]) executeNode(ctx Context, nodeID string, state S) (result S, err error) {
	fn, exists := cg.getNode(nodeID)
	if !exists {
		// This shouldn't happen if compilation was successful
		return state, &NodeError{
			NodeID: nodeID,
			Op:     "lookup",
			Err:    fmt.Errorf("node not found: %s", nodeID),
		}
	}

	// Create node-specific context with enriched logger
	nodeCtx := ctx
	if ec, ok := ctx.(*executionContext); ok {
		nodeCtx = ec.withNodeID(nodeID)
	}

	// Panic recovery
	defer func() {
		if r := recover(); r != nil {
			result = state
			err = &PanicError{
				NodeID: nodeID,
				Value:  r,
				Stack:  string(debug.Stack()),
			}
		}
	}()

	result, err = fn(nodeCtx, state)
	if err != nil {
		return result, &NodeError{
			NodeID: nodeID,
			Op:     "execute",
			Err:    err,
		}
	}

	return result, nil
}

// nextNode determines the next node to execute.
// Checks conditional edges first, then simple edges. A conditional router
// may only return one of the successors declared when the edge was added
// (END must be declared like any other successor).
func (cg *CompiledGraph[S]) nextNode(ctx Context, state S, current string) (string, error) {
	if edge, exists := cg.getRouter(current); exists {
		// Create node-specific context for the router
		routerCtx := ctx
		if ec, ok := ctx.(*executionContext); ok {
			routerCtx = ec.withNodeID(current)
		}

		next := edge.router(routerCtx, state)

		if next == "" {
			return "", &RouterError{
				FromNode: current,
				Returned: next,
				Err:      ErrInvalidRouterResult,
			}
		}

		if !cg.isAllowedSuccessor(current, next) {
			return "", &RouterError{
				FromNode: current,
				Returned: next,
				Err:      ErrUndeclaredSuccessor,
			}
		}

		return next, nil
	}

	edges := cg.getEdges(current)
	if len(edges) == 0 {
		// No outgoing edges - this shouldn't happen if compilation was successful
		return "", &NodeError{
			NodeID: current,
			Op:     "routing",
			Err:    fmt.Errorf("no outgoing edge from node %s", current),
		}
	}

	// A node has at most one simple edge
	return edges[0], nil
}
