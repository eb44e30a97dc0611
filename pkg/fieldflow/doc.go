/*
Package fieldflow provides a graph-based conversation engine for collecting
structured fields across multiple user turns.

# Overview

fieldflow executes directed graphs where nodes are conversation steps
(extract fields, validate, ask the next question, confirm, answer a side
question) and edges define how a single user turn flows through them. One
Run() serves exactly one turn: the graph starts at its entry point, walks
until it routes to END, and the resulting state snapshot carries everything
the next turn needs.

Design points:
  - Type-safe generics for session state
  - Conditional edges declare their full successor set up front, so
    Compile() validates every possible transition
  - No mid-turn persistence; callers save the snapshot between turns
  - OpenTelemetry integration for metrics and tracing

# Basic Usage

Create a graph with nodes and edges, then compile and run:

	type State struct {
	    Input string
	    Reply string
	}

	func respond(ctx fieldflow.Context, s State) (State, error) {
	    s.Reply = "You said: " + s.Input
	    return s, nil
	}

	func main() {
	    graph := fieldflow.NewGraph[State]().
	        AddNode("respond", respond).
	        AddEdge("respond", fieldflow.END).
	        SetEntry("respond")

	    compiled, err := graph.Compile()
	    if err != nil {
	        log.Fatal(err)
	    }

	    ctx := fieldflow.NewContext(context.Background())
	    result, err := compiled.Run(ctx, State{Input: "hello"})
	    if err != nil {
	        log.Fatal(err)
	    }
	    fmt.Println(result.Reply)
	}

# Conditional Branching

Use conditional edges for decision points. The successor list names every
node the router may return:

	graph.AddConditionalEdge("routing", func(ctx fieldflow.Context, s State) string {
	    if s.Complete {
	        return "confirmation"
	    }
	    return "next_question"
	}, "confirmation", "next_question")

A router returning anything outside its declared set (END included) fails
the turn with a RouterError wrapping ErrUndeclaredSuccessor.

# Loops

Conditional edges may return to earlier nodes, for example to re-extract
after a correction. Traversals are bounded by max iterations (default 50)
so a routing bug cannot spin forever. Configure with WithMaxIterations.

# Generation Clients

Nodes that need a language model read it from the Context:

	func classify(ctx fieldflow.Context, s State) (State, error) {
	    gen := ctx.Generator()
	    if gen == nil {
	        return s, nil // heuristic fallback
	    }
	    resp, err := gen.Generate(ctx, llm.GenerateRequest{Prompt: s.Input})
	    if err != nil {
	        return s, err
	    }
	    s.Label = strings.TrimSpace(resp.Text)
	    return s, nil
	}

	client := llm.NewHTTPClient(baseURL)
	ctx := fieldflow.NewContext(context.Background(),
	    fieldflow.WithGenerator(client))

# Observability

Enable logging, metrics, and tracing:

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	result, err := compiled.Run(ctx, state,
	    fieldflow.WithRunLogger(logger),
	    fieldflow.WithMetrics(observability.NewMetricsRecorder()),
	    fieldflow.WithTracing(observability.NewSpanManager()))

Logs include structured fields: turn_id, session_id, node_id, duration_ms.
OpenTelemetry metrics: fieldflow.node.executions, fieldflow.node.latency_ms, etc.
OpenTelemetry tracing: fieldflow.turn > fieldflow.node.{id} spans.

# Error Handling

Errors include context about which node failed:

	result, err := compiled.Run(ctx, state)
	var nodeErr *fieldflow.NodeError
	if errors.As(err, &nodeErr) {
	    log.Printf("Node %s failed: %v", nodeErr.NodeID, nodeErr.Err)
	}

Panics in nodes are recovered and converted to PanicError with stack trace.

# Thread Safety

  - Graph[S] is NOT safe for concurrent use during construction
  - CompiledGraph[S] IS safe for concurrent use (immutable)
  - Context IS safe for concurrent use
  - Store implementations are safe for concurrent use

# Subpackages

  - agent: agent definitions, field specs, and registry
  - flow: the field-collection step graph built on this engine
  - store: session persistence (memory, SQLite)
  - llm: generation client interface and implementations
  - observability: logging, metrics, and tracing helpers
*/
package fieldflow
