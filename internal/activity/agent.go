package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/monetalab/fincoach/internal/chat"
	"github.com/monetalab/fincoach/internal/onboarding"
	"github.com/monetalab/fincoach/pkg/graph"
	"github.com/monetalab/fincoach/pkg/graph/checkpoint"
	"github.com/monetalab/fincoach/pkg/graph/config"
	"github.com/monetalab/fincoach/pkg/graph/observability"
	"github.com/monetalab/fincoach/pkg/graph/stream"
	"github.com/monetalab/fincoach/pkg/llm"
)

// Node identifiers.
const (
	nodeChat  = "chat_activity"
	nodeTools = "tools"
)

// ToolUpdateProgress is the single tool exposed to the model.
const ToolUpdateProgress = "update_activity_progress"

// maxTurnIterations caps one turn at roughly five tool round-trips
// (each round-trip is a chat node plus a tools node) before the final
// reply.
const maxTurnIterations = 12

// State is the activity thread state persisted between turns.
type State struct {
	Messages       []chat.Message  `json:"messages"`
	OnboardingData onboarding.Data `json:"onboarding_data"`
	Activity       Activity        `json:"activity"`

	// Progress starts with every step not started and is replaced
	// wholesale by progress tool calls.
	Progress *Progress `json:"progress"`
}

// Options configures an activity Agent.
type Options struct {
	LLM       llm.Client
	Store     checkpoint.Store
	Logger    *slog.Logger
	Metrics   observability.MetricsRecorder
	Spans     observability.SpanManager
	ChatModel string
}

// Agent is the activity chat agent. Safe for concurrent use; turns on
// the same thread are serialized.
type Agent struct {
	compiled  *graph.CompiledGraph[State]
	llm       llm.Client
	store     checkpoint.Store
	locks     chat.ThreadLocks
	logger    *slog.Logger
	metrics   observability.MetricsRecorder
	spans     observability.SpanManager
	chatModel string
}

// NewAgent builds and compiles the activity agent graph.
func NewAgent(opts Options) (*Agent, error) {
	if opts.LLM == nil {
		return nil, fmt.Errorf("activity: llm client is required")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("activity: checkpoint store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	spans := opts.Spans
	if spans == nil {
		spans = observability.NoopSpanManager{}
	}

	a := &Agent{
		llm:       opts.LLM,
		store:     opts.Store,
		logger:    logger,
		metrics:   metrics,
		spans:     spans,
		chatModel: opts.ChatModel,
	}

	compiled, err := graph.New[State]().
		AddNode(nodeChat, a.chatActivity).
		AddNode(nodeTools, a.runTools).
		AddConditionalEdge(nodeChat, toolsRouter).
		AddEdge(nodeTools, nodeChat).
		SetEntry(nodeChat).
		Compile()
	if err != nil {
		return nil, fmt.Errorf("activity: compile graph: %w", err)
	}
	a.compiled = compiled

	return a, nil
}

// ChatTurn runs one activity turn. On the first turn of a thread the
// provided onboarding data and activity seed the state; on later turns
// the persisted versions win and the arguments are ignored.
func (a *Agent) ChatTurn(ctx context.Context, threadID, message, userFullName string, data onboarding.Data, act Activity, emitter stream.Emitter) (State, error) {
	unlock := a.locks.Lock(threadID)
	defer unlock()

	state, found, err := graph.LatestState[State](ctx, a.store, threadID)
	if err != nil {
		return State{}, fmt.Errorf("activity: load thread %s: %w", threadID, err)
	}
	if !found {
		state = State{OnboardingData: data, Activity: act}
	}

	state.Messages = chat.AddMessages(state.Messages, []chat.Message{chat.NewHuman(message)})

	gctx := graph.NewContext(ctx,
		graph.WithLogger(a.logger),
		graph.WithLLM(a.llm),
		graph.WithEmitter(emitter),
		graph.WithContextThreadID(threadID),
		graph.WithConfig(config.New(map[string]any{
			"user_full_name": userFullName,
		})),
	)

	return a.compiled.Run(gctx, state,
		graph.WithCheckpoints(a.store),
		graph.WithThreadID(threadID),
		graph.WithMaxIterations(maxTurnIterations),
		graph.WithRunLogger(a.logger),
		graph.WithMetrics(a.metrics),
		graph.WithTracing(a.spans),
	)
}

// GetState returns the persisted thread state. The boolean reports
// whether the thread exists.
func (a *Agent) GetState(ctx context.Context, threadID string) (State, bool, error) {
	return graph.LatestState[State](ctx, a.store, threadID)
}

// DeleteThread removes all persisted state for a thread.
func (a *Agent) DeleteThread(ctx context.Context, threadID string) error {
	return a.store.DeleteThread(ctx, threadID)
}

// chatActivity streams the coaching reply, exposing the progress tool
// to the model. Tool-call-only responses produce no message chunks.
func (a *Agent) chatActivity(ctx graph.Context, state State) (State, error) {
	if state.Progress == nil {
		p := NewProgress(len(state.Activity.Steps))
		state.Progress = &p
	}
	progress := state.Progress

	systemPrompt, err := renderChatPrompt(state.OnboardingData, state.Activity, *progress)
	if err != nil {
		return state, err
	}

	messageID := uuid.New().String()
	resp, err := ctx.LLM().Stream(ctx, llm.CompletionRequest{
		Model:        a.chatModel,
		SystemPrompt: systemPrompt,
		Messages:     chat.ToLLM(state.Messages),
		Tools: []llm.Tool{{
			Name:        ToolUpdateProgress,
			Description: "Update the progress of the activity. Full progress is required to be provided even if there are not started steps.",
			Parameters:  json.RawMessage(progressToolSchema),
		}},
	}, func(chunk llm.StreamChunk) error {
		return ctx.Emitter().Emit(ctx, stream.MessageChunk(messageID, chunk.Content, nil))
	})
	if err != nil {
		return state, fmt.Errorf("chat completion: %w", err)
	}

	reply := chat.Message{
		ID:        messageID,
		Role:      chat.RoleAI,
		Content:   resp.Content,
		ToolCalls: resp.ToolCalls,
		ResponseMetadata: map[string]any{
			"finish_reason": resp.FinishReason,
		},
	}
	state.Messages = chat.AddMessages(state.Messages, []chat.Message{reply})
	return state, nil
}

// toolsRouter sends the turn to the tools node when the model requested
// tool use, otherwise ends it.
func toolsRouter(_ graph.Context, state State) string {
	if last, ok := chat.LastAI(state.Messages); ok && len(last.ToolCalls) > 0 {
		return nodeTools
	}
	return graph.END
}

// progressArgs is the update_activity_progress argument payload.
type progressArgs struct {
	Progress Progress `json:"progress"`
}

// runTools executes every tool call from the last AI message. Invalid
// progress updates append an error tool message and leave the stored
// progress untouched, so the model can correct itself on the next loop.
func (a *Agent) runTools(ctx graph.Context, state State) (State, error) {
	last, ok := chat.LastAI(state.Messages)
	if !ok || len(last.ToolCalls) == 0 {
		return state, nil
	}

	var results []chat.Message
	for _, call := range last.ToolCalls {
		if call.Name != ToolUpdateProgress {
			results = append(results, chat.NewTool(
				fmt.Sprintf("Error: unknown tool %q", call.Name), call.ID))
			continue
		}

		var args progressArgs
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			results = append(results, chat.NewTool(
				fmt.Sprintf("Error: invalid arguments: %v", err), call.ID))
			continue
		}
		if err := args.Progress.Validate(len(state.Activity.Steps)); err != nil {
			results = append(results, chat.NewTool(
				fmt.Sprintf("Error: invalid progress: %v", err), call.ID))
			continue
		}

		progress := args.Progress
		state.Progress = &progress

		if err := ctx.Emitter().Emit(ctx, stream.ProgressUpdated(progress)); err != nil {
			return state, err
		}

		results = append(results, chat.NewTool("Successfully updated activity progress", call.ID))
	}

	state.Messages = chat.AddMessages(state.Messages, results)
	return state, nil
}

// renderChatPrompt fills the coaching prompt with serialized context.
func renderChatPrompt(data onboarding.Data, act Activity, progress Progress) (string, error) {
	dataJSON, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal onboarding data: %w", err)
	}
	actJSON, err := json.MarshalIndent(act, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal activity: %w", err)
	}
	progressJSON, err := json.MarshalIndent(progress, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal progress: %w", err)
	}
	return fmt.Sprintf(chatPromptTemplate, dataJSON, actJSON, progressJSON), nil
}
