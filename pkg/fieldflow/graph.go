package fieldflow

import (
	"fmt"
	"strings"
	"sync"
)

// conditionalEdge pairs a router with the successor set it is allowed to
// return. Declaring successors up front makes the machine's shape data:
// Compile() can validate every possible transition, and a router returning
// anything outside its declared set is a configuration error, not a silent
// default.
type conditionalEdge[S any] struct {
	router     RouterFunc[S]
	successors []string
}

// Graph is a mutable builder for creating conversation step graphs.
// Use NewGraph to create a new graph, then chain AddNode, AddEdge,
// AddConditionalEdge, and SetEntry calls to define the machine.
//
// Graph is NOT thread-safe during building. Construct it from a single
// goroutine, then call Compile() to create an immutable CompiledGraph that
// can be shared across sessions.
//
// Example:
//
//	graph := fieldflow.NewGraph[Snapshot]().
//	    AddNode("field_extraction", extractNode).
//	    AddNode("field_routing", routerNode).
//	    AddEdge("field_extraction", "field_routing").
//	    AddConditionalEdge("field_routing", afterRouter,
//	        "confirmation_summary", "question_generation").
//	    SetEntry("field_extraction")
//
//	compiled, err := graph.Compile()
type Graph[S any] struct {
	mu               sync.RWMutex
	nodes            map[string]NodeFunc[S]
	edges            map[string][]string
	conditionalEdges map[string]conditionalEdge[S]
	entryPoint       string
}

// NewGraph creates a new graph builder for state type S.
func NewGraph[S any]() *Graph[S] {
	return &Graph[S]{
		nodes:            make(map[string]NodeFunc[S]),
		edges:            make(map[string][]string),
		conditionalEdges: make(map[string]conditionalEdge[S]),
	}
}

// AddNode adds a named step to the graph.
// Returns the graph for method chaining.
//
// Panics if:
//   - id is empty
//   - id is the reserved word "END" or "__end__" (case-insensitive)
//   - id contains whitespace (space, tab, newline)
//   - fn is nil
//   - id already exists in the graph
func (g *Graph[S]) AddNode(id string, fn NodeFunc[S]) *Graph[S] {
	if id == "" {
		panic("fieldflow: node ID cannot be empty")
	}

	idLower := strings.ToLower(id)
	if idLower == "end" || idLower == "__end__" {
		panic("fieldflow: node ID cannot be reserved word 'END'")
	}

	if strings.ContainsAny(id, " \t\n\r") {
		panic("fieldflow: node ID cannot contain whitespace")
	}

	if fn == nil {
		panic("fieldflow: node function cannot be nil")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.nodes[id]; exists {
		panic(fmt.Sprintf("fieldflow: duplicate node ID: %s", id))
	}

	g.nodes[id] = fn
	return g
}

// AddEdge adds an unconditional edge from one step to another.
// The target can be a node ID or fieldflow.END.
// Returns the graph for method chaining.
//
// Edge validation happens at Compile() time, not here, so edges can be added
// in any order.
func (g *Graph[S]) AddEdge(from, to string) *Graph[S] {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.edges[from] = append(g.edges[from], to)
	return g
}

// AddConditionalEdge adds a conditional edge where a RouterFunc selects the
// next step at runtime, constrained to the declared successors.
// Returns the graph for method chaining.
//
// Every successor must be a node ID present in the graph by Compile() time,
// or fieldflow.END. At runtime the router's return value is checked against
// this set; an undeclared target aborts the traversal with a RouterError.
//
// A step can have either simple edges or a conditional edge, not both. If
// both are present, the conditional edge takes precedence.
//
// Panics if router is nil or no successors are declared.
func (g *Graph[S]) AddConditionalEdge(from string, router RouterFunc[S], successors ...string) *Graph[S] {
	if router == nil {
		panic("fieldflow: router function cannot be nil")
	}
	if len(successors) == 0 {
		panic("fieldflow: conditional edge must declare at least one successor")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.conditionalEdges[from] = conditionalEdge[S]{
		router:     router,
		successors: append([]string(nil), successors...),
	}
	return g
}

// SetEntry designates the entry point step.
// This must be called before Compile().
// Returns the graph for method chaining.
//
// Entry point validation happens at Compile() time.
func (g *Graph[S]) SetEntry(id string) *Graph[S] {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.entryPoint = id
	return g
}
