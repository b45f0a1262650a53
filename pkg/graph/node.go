package graph

// END is the terminal node identifier. Use it as an edge target (or a router
// result) to indicate the turn should terminate.
const END = "__end__"

// NodeFunc is the signature for all node functions. A node receives the
// execution context and the current state and returns the updated state.
//
// State is passed by value: nodes modify and return a new value rather than
// mutating through pointers.
type NodeFunc[S any] func(ctx Context, state S) (S, error)

// RouterFunc decides the next node for a conditional edge based on runtime
// state. It must return an existing node ID or graph.END; anything else is a
// runtime routing error.
type RouterFunc[S any] func(ctx Context, state S) string
