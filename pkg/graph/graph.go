// Package graph provides the conversational state machine that drives the
// chat agents: a fixed set of named nodes connected by plain and conditional
// edges, compiled into an executor with per-node checkpointing, cancellation
// checks and a bounded run loop.
package graph

import (
	"fmt"
	"strings"
	"sync"
)

// Graph is a mutable builder for an agent state machine. Build it on a single
// goroutine, then Compile() into an immutable CompiledGraph that is safe to
// share across turns and threads.
//
//	g := graph.New[State]().
//	    AddNode("collect_data", collect).
//	    AddNode("chat", chat).
//	    AddEdge("collect_data", "chat").
//	    AddEdge("chat", graph.END).
//	    SetEntry("collect_data")
type Graph[S any] struct {
	mu      sync.RWMutex
	nodes   map[string]NodeFunc[S]
	edges   map[string]string
	routers map[string]RouterFunc[S]
	entry   string
}

// New creates a graph builder for state type S.
func New[S any]() *Graph[S] {
	return &Graph[S]{
		nodes:   make(map[string]NodeFunc[S]),
		edges:   make(map[string]string),
		routers: make(map[string]RouterFunc[S]),
	}
}

// AddNode registers a named node. Panics on empty, reserved or duplicate IDs
// and on nil functions: these are programming errors in graph construction,
// not runtime conditions.
func (g *Graph[S]) AddNode(id string, fn NodeFunc[S]) *Graph[S] {
	if id == "" {
		panic("graph: node ID cannot be empty")
	}
	if low := strings.ToLower(id); low == "end" || low == END {
		panic("graph: node ID cannot be the END sentinel")
	}
	if strings.ContainsAny(id, " \t\n\r") {
		panic("graph: node ID cannot contain whitespace")
	}
	if fn == nil {
		panic("graph: node function cannot be nil")
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.nodes[id]; exists {
		panic(fmt.Sprintf("graph: duplicate node ID: %s", id))
	}
	g.nodes[id] = fn
	return g
}

// AddEdge adds an unconditional edge. The target may be a node ID or END.
// Validation happens at Compile time so edges can be added in any order.
func (g *Graph[S]) AddEdge(from, to string) *Graph[S] {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.edges[from] = to
	return g
}

// AddConditionalEdge installs a router that picks the next node at runtime.
// A conditional edge takes precedence over a plain edge from the same node.
func (g *Graph[S]) AddConditionalEdge(from string, router RouterFunc[S]) *Graph[S] {
	if router == nil {
		panic("graph: router function cannot be nil")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.routers[from] = router
	return g
}

// SetEntry designates the entry node. Must be called before Compile.
func (g *Graph[S]) SetEntry(id string) *Graph[S] {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.entry = id
	return g
}
