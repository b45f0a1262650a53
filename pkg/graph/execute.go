package graph

import (
	"context"
	"encoding/json"
	"runtime/debug"
	"time"

	"github.com/monetalab/fincoach/pkg/graph/checkpoint"
	"github.com/monetalab/fincoach/pkg/graph/observability"
	"go.opentelemetry.io/otel/trace"
)

// Run executes the graph with the given initial state.
// Returns the final state and any error encountered.
//
// On success, returns the state after the last node executed before END.
// On error, returns the state at the point of failure.
//
// Execution flow:
//  1. Start at the entry point node
//  2. Check for cancellation
//  3. Execute the current node
//  4. Determine the next node (via simple or conditional edge)
//  5. Persist a checkpoint if checkpointing is enabled
//  6. Repeat until END is reached or an error occurs
//
// Example:
//
//	ctx := graph.NewContext(context.Background())
//	result, err := compiled.Run(ctx, initialState,
//	    graph.WithCheckpoints(store),
//	    graph.WithThreadID("thread-123"))
func (cg *CompiledGraph[S]) Run(ctx Context, state S, opts ...RunOption) (result S, runErr error) {
	if ctx == nil {
		return state, ErrNilContext
	}

	cfg := defaultRunConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.checkpointStore != nil && cfg.threadID == "" {
		return state, ErrThreadIDRequired
	}

	threadID := cfg.threadID
	if threadID == "" {
		threadID = ctx.ThreadID()
	}

	startTime := time.Now()

	observability.LogTurnStart(cfg.logger, threadID)

	var execCtx context.Context = ctx
	var turnSpan trace.Span
	if cfg.tracingEnabled {
		execCtx, turnSpan = cfg.spans.StartTurnSpan(ctx, "fincoach", threadID)
		defer func() {
			cfg.spans.EndSpanWithError(turnSpan, runErr)
		}()
	}

	var nodeCount int
	result, nodeCount, runErr = cg.runFrom(execCtx, ctx, state, cg.entry, &cfg)

	duration := time.Since(startTime)
	durationMs := float64(duration.Milliseconds())

	cfg.metrics.RecordTurn(ctx, runErr == nil, duration)

	if runErr != nil {
		lastNode := ""
		switch e := runErr.(type) {
		case *NodeError:
			lastNode = e.NodeID
		case *MaxIterationsError:
			lastNode = e.NodeID
		case *CancellationError:
			lastNode = e.NodeID
		case *PanicError:
			lastNode = e.NodeID
		}
		observability.LogTurnError(cfg.logger, threadID, runErr, durationMs, lastNode)
	} else {
		observability.LogTurnComplete(cfg.logger, threadID, durationMs, nodeCount)
	}

	return result, runErr
}

// runFrom executes the graph from a specific node. tracingCtx carries
// span context; gctx is the graph Context passed to nodes.
// Returns the final state, node count, and any error.
func (cg *CompiledGraph[S]) runFrom(tracingCtx context.Context, gctx Context, state S, startNode string, cfg *runConfig) (S, int, error) {
	ec := asExecutionContext(gctx)

	current := startNode
	iterations := 0
	prevNode := ""
	nodeCount := 0

	for current != END {
		iterations++
		if iterations > cfg.maxIterations {
			return state, nodeCount, &MaxIterationsError{
				Limit:  cfg.maxIterations,
				NodeID: current,
			}
		}

		// Check for cancellation before executing the node
		select {
		case <-gctx.Done():
			return state, nodeCount, &CancellationError{
				NodeID: current,
				Err:    gctx.Err(),
			}
		default:
		}

		observability.LogNodeStart(cfg.logger, current)

		nodeTracingCtx := tracingCtx
		var nodeSpan trace.Span
		if cfg.tracingEnabled {
			nodeTracingCtx, nodeSpan = cfg.spans.StartNodeSpan(tracingCtx, current)
		}

		nodeStart := time.Now()

		var nodeErr error
		state, nodeErr = cg.executeNode(ec, current, state)

		nodeDuration := time.Since(nodeStart)
		cfg.metrics.RecordNodeExecution(nodeTracingCtx, current, nodeDuration, nodeErr)

		if cfg.tracingEnabled {
			cfg.spans.EndSpanWithError(nodeSpan, nodeErr)
		}

		if nodeErr != nil {
			observability.LogNodeError(cfg.logger, current, nodeErr)
			return state, nodeCount, nodeErr
		}
		observability.LogNodeComplete(cfg.logger, current, float64(nodeDuration.Milliseconds()))
		nodeCount++

		next, err := cg.nextNode(ec, state, current)
		if err != nil {
			return state, nodeCount, err
		}

		// Checkpoint after successful node execution
		if cfg.checkpointStore != nil {
			if err := cg.saveCheckpoint(gctx, cfg, current, prevNode, state, next); err != nil {
				return state, nodeCount, err
			}
		}

		prevNode = current
		current = next
	}

	return state, nodeCount, nil
}

// saveCheckpoint persists the current state after node execution.
// Failures are non-fatal unless WithCheckpointFailureFatal is set.
func (cg *CompiledGraph[S]) saveCheckpoint(ctx Context, cfg *runConfig, nodeID, prevNodeID string, state S, nextNode string) error {
	stateBytes, err := json.Marshal(state)
	if err != nil {
		if cfg.checkpointFailureFatal {
			return &CheckpointError{NodeID: nodeID, Err: err}
		}
		observability.LogCheckpointError(cfg.logger, nodeID, "serialize", err)
		return nil
	}

	cfg.sequence++
	cp := checkpoint.New(cfg.threadID, nodeID, cfg.sequence, stateBytes, nextNode).
		WithPrevNode(prevNodeID)

	data, err := cp.Marshal()
	if err != nil {
		if cfg.checkpointFailureFatal {
			return &CheckpointError{NodeID: nodeID, Err: err}
		}
		observability.LogCheckpointError(cfg.logger, nodeID, "marshal", err)
		return nil
	}

	if err := cfg.checkpointStore.Save(ctx, cfg.threadID, nodeID, data); err != nil {
		if cfg.checkpointFailureFatal {
			return &CheckpointError{NodeID: nodeID, Err: err}
		}
		observability.LogCheckpointError(cfg.logger, nodeID, "save", err)
		return nil
	}

	sizeBytes := len(data)
	observability.LogCheckpoint(cfg.logger, nodeID, sizeBytes)
	cfg.metrics.RecordCheckpoint(ctx, nodeID, int64(sizeBytes))

	return nil
}

// executeNode executes a single node with panic recovery.
// Returns the new state and any error (including wrapped panics).
func (cg *CompiledGraph[S]) executeNode(ec *executionContext, nodeID string, state S) (result S, err error) {
	fn, exists := cg.nodes[nodeID]
	if !exists {
		// Shouldn't happen if compilation was successful
		return state, &NodeError{NodeID: nodeID, Err: ErrNodeNotFound}
	}

	nodeCtx := ec.withNodeID(nodeID)

	defer func() {
		if r := recover(); r != nil {
			result = state
			err = &PanicError{
				NodeID: nodeID,
				Value:  r,
				Stack:  string(debug.Stack()),
			}
		}
	}()

	result, err = fn(nodeCtx, state)
	if err != nil {
		return result, &NodeError{NodeID: nodeID, Err: err}
	}

	return result, nil
}

// nextNode determines the next node to execute.
// Checks conditional edges first, then simple edges.
func (cg *CompiledGraph[S]) nextNode(ec *executionContext, state S, current string) (string, error) {
	if router, exists := cg.routers[current]; exists {
		next := router(ec.withNodeID(current), state)

		if next == "" {
			return "", &RouterError{NodeID: current, Target: next}
		}
		if next != END {
			if _, exists := cg.nodes[next]; !exists {
				return "", &RouterError{NodeID: current, Target: next}
			}
		}
		return next, nil
	}

	next, ok := cg.edges[current]
	if !ok {
		// Shouldn't happen if compilation was successful
		return "", &NodeError{NodeID: current, Err: ErrNoEdge}
	}
	return next, nil
}
