package graph

import (
	"errors"
	"fmt"
)

// CompiledGraph is an immutable, executable state machine produced by
// Graph.Compile. It is safe for concurrent Run calls.
type CompiledGraph[S any] struct {
	nodes   map[string]NodeFunc[S]
	edges   map[string]string
	routers map[string]RouterFunc[S]
	entry   string
}

// Compile validates the graph and returns an executable CompiledGraph.
// All validation failures are joined into a single error:
//
//  1. entry point is set and references an existing node
//  2. every edge source and target references an existing node or END
//  3. a path from the entry to END exists
func (g *Graph[S]) Compile() (*CompiledGraph[S], error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var errs []error

	if g.entry == "" {
		errs = append(errs, ErrNoEntryPoint)
	} else if _, ok := g.nodes[g.entry]; !ok {
		errs = append(errs, fmt.Errorf("%w: %s", ErrEntryNotFound, g.entry))
	}

	for from, to := range g.edges {
		if _, ok := g.nodes[from]; !ok {
			if _, conditional := g.routers[from]; !conditional {
				errs = append(errs, fmt.Errorf("%w: edge source %q", ErrNodeNotFound, from))
			}
		}
		if to != END {
			if _, ok := g.nodes[to]; !ok {
				errs = append(errs, fmt.Errorf("%w: edge target %q", ErrNodeNotFound, to))
			}
		}
	}
	for from := range g.routers {
		if _, ok := g.nodes[from]; !ok {
			errs = append(errs, fmt.Errorf("%w: conditional edge source %q", ErrNodeNotFound, from))
		}
	}

	if g.entry != "" {
		if _, ok := g.nodes[g.entry]; ok && !g.hasPathToEnd() {
			errs = append(errs, ErrNoPathToEnd)
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	compiled := &CompiledGraph[S]{
		nodes:   make(map[string]NodeFunc[S], len(g.nodes)),
		edges:   make(map[string]string, len(g.edges)),
		routers: make(map[string]RouterFunc[S], len(g.routers)),
		entry:   g.entry,
	}
	for id, fn := range g.nodes {
		compiled.nodes[id] = fn
	}
	for from, to := range g.edges {
		compiled.edges[from] = to
	}
	for from, r := range g.routers {
		compiled.routers[from] = r
	}
	return compiled, nil
}

// hasPathToEnd runs a reverse reachability pass. A node with a conditional
// edge is assumed able to reach END since its router may return END at
// runtime.
func (g *Graph[S]) hasPathToEnd() bool {
	canReach := map[string]bool{END: true}
	for changed := true; changed; {
		changed = false
		for from, to := range g.edges {
			if !canReach[from] && canReach[to] {
				canReach[from] = true
				changed = true
			}
		}
		for from := range g.routers {
			if !canReach[from] {
				canReach[from] = true
				changed = true
			}
		}
	}
	return canReach[g.entry]
}

// EntryPoint returns the entry node ID.
func (cg *CompiledGraph[S]) EntryPoint() string { return cg.entry }

// NodeIDs returns all node identifiers, in no particular order.
func (cg *CompiledGraph[S]) NodeIDs() []string {
	ids := make([]string, 0, len(cg.nodes))
	for id := range cg.nodes {
		ids = append(ids, id)
	}
	return ids
}

// HasNode reports whether a node exists in the graph.
func (cg *CompiledGraph[S]) HasNode(id string) bool {
	_, ok := cg.nodes[id]
	return ok
}
