package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monetalab/fincoach/pkg/graph/checkpoint"
)

func linearGraph(t *testing.T) *CompiledGraph[Counter] {
	t.Helper()
	compiled, err := New[Counter]().
		AddNode("a", increment).
		AddNode("b", increment).
		AddNode("c", increment).
		AddEdge("a", "b").
		AddEdge("b", "c").
		AddEdge("c", END).
		SetEntry("a").
		Compile()
	require.NoError(t, err)
	return compiled
}

// saveCheckpointFor writes a checkpoint as a crashed run would have
// left it: nextNode names the node that never got to execute.
func saveCheckpointFor(t *testing.T, store checkpoint.Store, threadID, nodeID string, seq int, state []byte, nextNode string) {
	t.Helper()
	cp := checkpoint.New(threadID, nodeID, seq, state, nextNode)
	data, err := cp.Marshal()
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), threadID, nodeID, data))
}

func TestResume_ContinuesFromNextNode(t *testing.T) {
	store := checkpoint.NewMemoryStore()
	defer store.Close()

	// Crashed after "a": state has one increment, "b" is next.
	saveCheckpointFor(t, store, "t-1", "a", 1, []byte(`{"value":1}`), "b")

	result, err := linearGraph(t).Resume(testCtx(), store, "t-1")

	require.NoError(t, err)
	assert.Equal(t, 3, result.Value) // b and c still ran
}

func TestResume_FinishedThreadReturnsStateAsIs(t *testing.T) {
	store := checkpoint.NewMemoryStore()
	defer store.Close()

	compiled := linearGraph(t)
	_, err := compiled.Run(testCtx(), Counter{},
		WithCheckpoints(store),
		WithThreadID("t-1"))
	require.NoError(t, err)

	result, err := compiled.Resume(testCtx(), store, "t-1")

	require.NoError(t, err)
	assert.Equal(t, 3, result.Value)
}

func TestResume_NoCheckpoints(t *testing.T) {
	store := checkpoint.NewMemoryStore()
	defer store.Close()

	_, err := linearGraph(t).Resume(testCtx(), store, "unknown")
	assert.ErrorIs(t, err, ErrNoCheckpoints)
}

func TestResume_UnknownResumeNode(t *testing.T) {
	store := checkpoint.NewMemoryStore()
	defer store.Close()

	saveCheckpointFor(t, store, "t-1", "a", 1, []byte(`{"value":1}`), "removed-node")

	_, err := linearGraph(t).Resume(testCtx(), store, "t-1")
	assert.ErrorIs(t, err, ErrInvalidResumeNode)
}

func TestResume_VersionMismatch(t *testing.T) {
	store := checkpoint.NewMemoryStore()
	defer store.Close()

	cp := checkpoint.New("t-1", "a", 1, []byte(`{"value":1}`), "b")
	cp.Version = 99
	data, err := cp.Marshal()
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), "t-1", "a", data))

	_, err = linearGraph(t).Resume(testCtx(), store, "t-1")
	assert.ErrorIs(t, err, ErrCheckpointVersionMismatch)
}

func TestResume_CorruptState(t *testing.T) {
	store := checkpoint.NewMemoryStore()
	defer store.Close()

	// Valid JSON in the envelope, but not decodable into the state type.
	saveCheckpointFor(t, store, "t-1", "a", 1, []byte(`"42"`), "b")

	_, err := linearGraph(t).Resume(testCtx(), store, "t-1")
	assert.ErrorIs(t, err, ErrDeserializeState)
}

func TestResume_SequenceContinues(t *testing.T) {
	store := checkpoint.NewMemoryStore()
	defer store.Close()

	saveCheckpointFor(t, store, "t-1", "a", 1, []byte(`{"value":1}`), "b")

	_, err := linearGraph(t).Resume(testCtx(), store, "t-1")
	require.NoError(t, err)

	infos, err := store.List(context.Background(), "t-1")
	require.NoError(t, err)
	require.Len(t, infos, 3) // a from before the crash, b and c from the resumed run

	maxSeq := 0
	for _, info := range infos {
		if info.Sequence > maxSeq {
			maxSeq = info.Sequence
		}
	}
	assert.Equal(t, 3, maxSeq)
}

func TestLatestState_MissingThread(t *testing.T) {
	store := checkpoint.NewMemoryStore()
	defer store.Close()

	_, found, err := LatestState[Counter](context.Background(), store, "unknown")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLatestState_ReturnsNewestState(t *testing.T) {
	store := checkpoint.NewMemoryStore()
	defer store.Close()

	saveCheckpointFor(t, store, "t-1", "a", 1, []byte(`{"value":1}`), "b")
	saveCheckpointFor(t, store, "t-1", "b", 2, []byte(`{"value":2}`), END)

	state, found, err := LatestState[Counter](context.Background(), store, "t-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2, state.Value)
}
