package benchmarks

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/monetalab/fincoach/pkg/graph"
	"github.com/monetalab/fincoach/pkg/graph/checkpoint"
)

// largeState approximates a real conversation state payload.
type largeState struct {
	ID       string
	Values   []int
	Metadata map[string]string
}

func largeStateData(b *testing.B) []byte {
	b.Helper()
	state := largeState{
		ID:       "thread-1",
		Values:   make([]int, 256),
		Metadata: map[string]string{"model": "gpt-4o", "user": "bench"},
	}
	for i := range state.Values {
		state.Values[i] = i
	}
	data, err := json.Marshal(state)
	if err != nil {
		b.Fatal(err)
	}
	return data
}

// BenchmarkMemoryStore_Save measures in-memory checkpoint save.
func BenchmarkMemoryStore_Save(b *testing.B) {
	store := checkpoint.NewMemoryStore()
	ctx := context.Background()
	data := largeStateData(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = store.Save(ctx, "thread-1", "node-1", data)
	}
}

// BenchmarkMemoryStore_LoadLatest measures in-memory checkpoint load.
func BenchmarkMemoryStore_LoadLatest(b *testing.B) {
	store := checkpoint.NewMemoryStore()
	ctx := context.Background()
	_ = store.Save(ctx, "thread-1", "node-1", largeStateData(b))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = store.LoadLatest(ctx, "thread-1")
	}
}

// BenchmarkSQLiteStore_Save measures SQLite checkpoint save.
func BenchmarkSQLiteStore_Save(b *testing.B) {
	store, err := checkpoint.NewSQLiteStore(filepath.Join(b.TempDir(), "bench.db"))
	if err != nil {
		b.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	data := largeStateData(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = store.Save(ctx, "thread-1", nodeID(i%100), data)
	}
}

// BenchmarkRun_WithCheckpoints runs a 5-node graph persisting every node.
func BenchmarkRun_WithCheckpoints(b *testing.B) {
	compiled := mustCompile(buildLinearGraph(5))
	store := checkpoint.NewMemoryStore()
	ctx := graph.NewContext(context.Background(), graph.WithContextThreadID("thread-1"))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = compiled.Run(ctx, State{},
			graph.WithCheckpoints(store),
			graph.WithThreadID("thread-1"),
		)
	}
}
