package graph

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/monetalab/fincoach/pkg/graph/config"
	"github.com/monetalab/fincoach/pkg/graph/stream"
	"github.com/monetalab/fincoach/pkg/llm"
)

// Context provides execution context to nodes.
// It extends context.Context with graph-specific services and metadata.
//
// Context is immutable after creation. The executor creates derived contexts
// for each node with updated NodeID and enriched logger.
type Context interface {
	context.Context

	// Services

	// Logger returns the configured logger, enriched with thread and node
	// context. Never returns nil, defaults to slog.Default() if not
	// configured.
	Logger() *slog.Logger

	// LLM returns the language model client, or nil if not configured.
	// Nodes should check for nil before using.
	LLM() llm.Client

	// Emitter returns the event emitter for streaming output to the
	// caller. Never returns nil, defaults to a no-op emitter.
	Emitter() stream.Emitter

	// Config returns per-run configuration values. Never returns nil,
	// defaults to an empty Values.
	Config() config.Values

	// Metadata

	// ThreadID returns the conversation thread this run belongs to.
	// Auto-generated if not configured.
	ThreadID() string

	// NodeID returns the current node being executed.
	// Empty string before execution starts.
	NodeID() string
}

// executionContext is the internal implementation of Context.
type executionContext struct {
	context.Context

	logger    *slog.Logger
	llmClient llm.Client
	emitter   stream.Emitter
	config    config.Values
	threadID  string
	nodeID    string
}

func (c *executionContext) Logger() *slog.Logger    { return c.logger }
func (c *executionContext) LLM() llm.Client         { return c.llmClient }
func (c *executionContext) Emitter() stream.Emitter { return c.emitter }
func (c *executionContext) Config() config.Values   { return c.config }
func (c *executionContext) ThreadID() string        { return c.threadID }
func (c *executionContext) NodeID() string          { return c.nodeID }

// ContextOption configures a Context.
type ContextOption func(*executionContext)

// WithLogger sets the logger for the context. A nil logger keeps the
// default, preserving the Logger() contract.
// The logger will be enriched with thread_id and node_id during execution.
func WithLogger(logger *slog.Logger) ContextOption {
	return func(c *executionContext) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithLLM sets the language model client for the context.
func WithLLM(client llm.Client) ContextOption {
	return func(c *executionContext) {
		c.llmClient = client
	}
}

// WithEmitter sets the event emitter for the context. A nil emitter
// keeps the no-op default, preserving the Emitter() contract.
func WithEmitter(e stream.Emitter) ContextOption {
	return func(c *executionContext) {
		if e != nil {
			c.emitter = e
		}
	}
}

// WithConfig sets per-run configuration values for the context.
func WithConfig(values config.Values) ContextOption {
	return func(c *executionContext) {
		c.config = values
	}
}

// WithContextThreadID sets the thread identifier for the context.
// If not set, a UUID will be auto-generated. This is used for logging
// and event attribution. For checkpointing, use WithThreadID() as a
// RunOption with Run().
func WithContextThreadID(id string) ContextOption {
	return func(c *executionContext) {
		c.threadID = id
	}
}

// NewContext creates an execution context from a standard context.
// The returned Context wraps the provided context.Context and adds
// graph-specific services and metadata.
//
// Example:
//
//	ctx := graph.NewContext(context.Background(),
//	    graph.WithLogger(myLogger),
//	    graph.WithContextThreadID("thread-123"))
func NewContext(ctx context.Context, opts ...ContextOption) Context {
	ec := &executionContext{
		Context:  ctx,
		logger:   slog.Default(),
		emitter:  stream.Noop{},
		config:   config.Values{},
		threadID: uuid.New().String(),
	}

	for _, opt := range opts {
		opt(ec)
	}

	return ec
}

// withNodeID returns a new context with the given node ID set.
// Used internally by the executor to enrich the context per-node.
func (c *executionContext) withNodeID(nodeID string) *executionContext {
	return &executionContext{
		Context:   c.Context,
		logger:    c.logger.With("thread_id", c.threadID, "node_id", nodeID),
		llmClient: c.llmClient,
		emitter:   c.emitter,
		config:    c.config,
		threadID:  c.threadID,
		nodeID:    nodeID,
	}
}

// asExecutionContext normalizes an arbitrary Context to the internal
// implementation so the executor can derive per-node contexts.
func asExecutionContext(ctx Context) *executionContext {
	if ec, ok := ctx.(*executionContext); ok {
		return ec
	}
	return &executionContext{
		Context:   ctx,
		logger:    ctx.Logger(),
		llmClient: ctx.LLM(),
		emitter:   ctx.Emitter(),
		config:    ctx.Config(),
		threadID:  ctx.ThreadID(),
		nodeID:    ctx.NodeID(),
	}
}
