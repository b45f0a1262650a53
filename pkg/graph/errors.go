package graph

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by graph construction and compilation.
var (
	ErrNoEntryPoint  = errors.New("graph: no entry point set")
	ErrEntryNotFound = errors.New("graph: entry point not found")
	ErrNodeNotFound  = errors.New("graph: node not found")
	ErrNoPathToEnd   = errors.New("graph: no path from entry to end")
	ErrNoEdge        = errors.New("graph: node has no outgoing edge")
)

// Sentinel errors returned by Run and Resume.
var (
	ErrNilContext       = errors.New("graph: nil context")
	ErrThreadIDRequired = errors.New("graph: thread ID required when checkpointing is enabled")

	ErrNoCheckpoints             = errors.New("graph: no checkpoints for thread")
	ErrCheckpointVersionMismatch = errors.New("graph: checkpoint version mismatch")
	ErrDeserializeState          = errors.New("graph: cannot deserialize checkpointed state")
	ErrInvalidResumeNode         = errors.New("graph: resume node not in graph")
)

// NodeError wraps a failure raised by a node function during execution.
type NodeError struct {
	NodeID string
	Err    error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("graph: node %q failed: %v", e.NodeID, e.Err)
}

func (e *NodeError) Unwrap() error { return e.Err }

// RouterError reports a conditional edge whose router returned a target
// that is neither a known node nor END.
type RouterError struct {
	NodeID string
	Target string
}

func (e *RouterError) Error() string {
	return fmt.Sprintf("graph: router for node %q returned unknown target %q", e.NodeID, e.Target)
}

// MaxIterationsError reports a run that executed more node steps than the
// configured cap without reaching END.
type MaxIterationsError struct {
	Limit  int
	NodeID string
}

func (e *MaxIterationsError) Error() string {
	return fmt.Sprintf("graph: exceeded %d iterations at node %q", e.Limit, e.NodeID)
}

// CancellationError reports a run aborted by context cancellation. NodeID
// names the node that would have run next.
type CancellationError struct {
	NodeID string
	Err    error
}

func (e *CancellationError) Error() string {
	return fmt.Sprintf("graph: run cancelled before node %q: %v", e.NodeID, e.Err)
}

func (e *CancellationError) Unwrap() error { return e.Err }

// PanicError captures a panic raised inside a node function.
type PanicError struct {
	NodeID string
	Value  any
	Stack  string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("graph: node %q panicked: %v", e.NodeID, e.Value)
}

// CheckpointError reports a checkpoint save failure after a node completed.
// The node's state transition is preserved in the returned state even when
// the save fails.
type CheckpointError struct {
	NodeID string
	Err    error
}

func (e *CheckpointError) Error() string {
	return fmt.Sprintf("graph: checkpoint save after node %q failed: %v", e.NodeID, e.Err)
}

func (e *CheckpointError) Unwrap() error { return e.Err }
