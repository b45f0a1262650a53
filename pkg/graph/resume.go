package graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/monetalab/fincoach/pkg/graph/checkpoint"
)

// Resume continues execution from the latest checkpoint of a thread.
// It loads the checkpoint and starts execution from the recorded next
// node. If the checkpoint shows the previous turn completed (next node
// is END), Resume returns the persisted state without executing
// anything.
//
// Example:
//
//	// Previous turn crashed after the extraction node. Resume
//	// continues from the chat node with the extracted state intact.
//	result, err := compiled.Resume(ctx, store, "thread-123")
func (cg *CompiledGraph[S]) Resume(ctx Context, store checkpoint.Store, threadID string, opts ...RunOption) (S, error) {
	var zero S

	if ctx == nil {
		return zero, ErrNilContext
	}

	cp, state, err := loadLatest[S](ctx, store, threadID)
	if err != nil {
		return zero, err
	}

	if cp.NextNode == END {
		return state, nil
	}
	if !cg.HasNode(cp.NextNode) {
		return zero, fmt.Errorf("%w: %s", ErrInvalidResumeNode, cp.NextNode)
	}

	cfg := defaultRunConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.checkpointStore = store
	cfg.threadID = threadID
	cfg.sequence = cp.Sequence

	result, _, err := cg.runFrom(ctx, ctx, state, cp.NextNode, &cfg)
	return result, err
}

// LatestState loads the most recently checkpointed state for a thread
// without executing anything. The boolean reports whether a checkpoint
// existed.
func LatestState[S any](ctx context.Context, store checkpoint.Store, threadID string) (S, bool, error) {
	var zero S

	_, state, err := loadLatest[S](ctx, store, threadID)
	if errors.Is(err, ErrNoCheckpoints) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}
	return state, true, nil
}

// loadLatest fetches and decodes the latest checkpoint for a thread.
func loadLatest[S any](ctx context.Context, store checkpoint.Store, threadID string) (*checkpoint.Checkpoint, S, error) {
	var zero S

	data, err := store.LoadLatest(ctx, threadID)
	if errors.Is(err, checkpoint.ErrNotFound) {
		return nil, zero, fmt.Errorf("%w: %s", ErrNoCheckpoints, threadID)
	}
	if err != nil {
		return nil, zero, fmt.Errorf("load checkpoint: %w", err)
	}

	cp, err := checkpoint.Unmarshal(data)
	if err != nil {
		return nil, zero, fmt.Errorf("%w: %v", ErrDeserializeState, err)
	}

	if cp.Version != checkpoint.Version {
		return nil, zero, fmt.Errorf("%w: got %d, expected %d",
			ErrCheckpointVersionMismatch, cp.Version, checkpoint.Version)
	}

	var state S
	if err := json.Unmarshal(cp.State, &state); err != nil {
		return nil, zero, fmt.Errorf("%w: %v", ErrDeserializeState, err)
	}

	return cp, state, nil
}
