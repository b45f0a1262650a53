// Package checkpoint provides persistent checkpoint storage keyed by
// conversation thread, so interrupted or finished runs can be resumed
// on the next turn.
package checkpoint

import (
	"context"
	"errors"
	"time"
)

// Store persists checkpoints for thread resumption.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores a checkpoint for a thread at a specific node.
	// Overwrites if a checkpoint for (threadID, nodeID) already exists.
	Save(ctx context.Context, threadID, nodeID string, data []byte) error

	// Load retrieves a checkpoint.
	// Returns ErrNotFound if the checkpoint doesn't exist.
	Load(ctx context.Context, threadID, nodeID string) ([]byte, error)

	// LoadLatest retrieves the checkpoint with the highest sequence for
	// a thread. Returns ErrNotFound if the thread has no checkpoints.
	LoadLatest(ctx context.Context, threadID string) ([]byte, error)

	// List returns metadata for all checkpoints of a thread, ordered by
	// sequence. Returns an empty slice (not an error) if the thread has
	// no checkpoints.
	List(ctx context.Context, threadID string) ([]Info, error)

	// DeleteThread removes all checkpoints for a thread.
	// Returns nil if the thread has no checkpoints.
	DeleteThread(ctx context.Context, threadID string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Info provides checkpoint metadata without loading full state.
type Info struct {
	ThreadID  string
	NodeID    string
	Sequence  int
	Timestamp time.Time
	Size      int64
}

// Sentinel errors for checkpoint operations.
var (
	// ErrNotFound indicates a checkpoint doesn't exist.
	ErrNotFound = errors.New("checkpoint not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("checkpoint store closed")
)
