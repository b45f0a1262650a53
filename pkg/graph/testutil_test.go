package graph

import (
	"context"
	"errors"

	"github.com/monetalab/fincoach/pkg/graph/checkpoint"
)

// Counter is a minimal state for exercising the engine.
type Counter struct {
	Value int `json:"value"`
}

func increment(_ Context, s Counter) (Counter, error) {
	s.Value++
	return s, nil
}

// trackState records which nodes ran and in what order.
type trackState struct {
	Visited []string `json:"visited"`
	GoLeft  bool     `json:"go_left"`
}

func makeTrackingNode(id string) NodeFunc[trackState] {
	return func(_ Context, s trackState) (trackState, error) {
		s.Visited = append(s.Visited, id)
		return s, nil
	}
}

func testCtx() Context {
	return NewContext(context.Background(), WithContextThreadID("test-thread"))
}

// failingStore fails every operation, for exercising checkpoint error
// handling.
type failingStore struct{}

var errStoreBroken = errors.New("store broken")

func (failingStore) Save(context.Context, string, string, []byte) error { return errStoreBroken }
func (failingStore) Load(context.Context, string, string) ([]byte, error) {
	return nil, errStoreBroken
}
func (failingStore) LoadLatest(context.Context, string) ([]byte, error) { return nil, errStoreBroken }
func (failingStore) List(context.Context, string) ([]checkpoint.Info, error) {
	return nil, errStoreBroken
}
func (failingStore) DeleteThread(context.Context, string) error { return errStoreBroken }
func (failingStore) Close() error                               { return nil }
