package benchmarks

import (
	"context"
	"testing"

	"github.com/monetalab/fincoach/pkg/graph"
)

// BenchmarkRun_Linear_1 runs a single-node graph.
func BenchmarkRun_Linear_1(b *testing.B) {
	compiled := mustCompile(buildLinearGraph(1))
	ctx := graph.NewContext(context.Background())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = compiled.Run(ctx, State{})
	}
}

// BenchmarkRun_Linear_5 runs a 5-node linear graph.
func BenchmarkRun_Linear_5(b *testing.B) {
	compiled := mustCompile(buildLinearGraph(5))
	ctx := graph.NewContext(context.Background())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = compiled.Run(ctx, State{})
	}
}

// BenchmarkRun_Loop_10 runs a graph that loops through a router 10 times.
func BenchmarkRun_Loop_10(b *testing.B) {
	compiled := mustCompile(buildLoopGraph(10))
	ctx := graph.NewContext(context.Background())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = compiled.Run(ctx, State{}, graph.WithMaxIterations(25))
	}
}

// BenchmarkContextCreation measures context creation overhead.
func BenchmarkContextCreation(b *testing.B) {
	bg := context.Background()
	for i := 0; i < b.N; i++ {
		graph.NewContext(bg)
	}
}

// buildLoopGraph loops until the state value reaches limit.
func buildLoopGraph(limit int) *graph.Graph[State] {
	loopNode := func(_ graph.Context, s State) (State, error) {
		s.Value++
		return s, nil
	}
	router := func(_ graph.Context, s State) string {
		if s.Value >= limit {
			return "done"
		}
		return "loop"
	}

	return graph.New[State]().
		AddNode("loop", loopNode).
		AddNode("done", noopNode).
		AddConditionalEdge("loop", router).
		AddEdge("done", graph.END).
		SetEntry("loop")
}
