package onboarding

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/monetalab/fincoach/internal/chat"
	"github.com/monetalab/fincoach/internal/extract"
	"github.com/monetalab/fincoach/pkg/graph"
	"github.com/monetalab/fincoach/pkg/graph/checkpoint"
	"github.com/monetalab/fincoach/pkg/graph/config"
	"github.com/monetalab/fincoach/pkg/graph/observability"
	"github.com/monetalab/fincoach/pkg/graph/stream"
	"github.com/monetalab/fincoach/pkg/llm"
)

// Node identifiers.
const (
	nodeCollectData = "collect_data"
	nodeChat        = "chat_onboarding"
)

// State is the onboarding thread state persisted between turns.
type State struct {
	Messages []chat.Message `json:"messages"`
	Data     *Data          `json:"onboarding_data"`
}

// Options configures an onboarding Agent.
type Options struct {
	LLM          llm.Client
	Store        checkpoint.Store
	Logger       *slog.Logger
	Metrics      observability.MetricsRecorder
	Spans        observability.SpanManager
	ChatModel    string
	ExtractModel string
}

// Agent is the onboarding chat agent. Safe for concurrent use; turns on
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
	extractor *extract.Extractor[Data]
}

// NewAgent builds and compiles the onboarding agent graph.
func NewAgent(opts Options) (*Agent, error) {
	if opts.LLM == nil {
		return nil, fmt.Errorf("onboarding: llm client is required")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("onboarding: checkpoint store is required")
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
		extractor: extract.New[Data](opts.LLM, opts.ExtractModel, "onboarding_data", json.RawMessage(dataSchema)),
	}

	compiled, err := graph.New[State]().
		AddNode(nodeCollectData, a.collectData).
		AddNode(nodeChat, a.chatOnboarding).
		AddEdge(nodeCollectData, nodeChat).
		AddEdge(nodeChat, graph.END).
		SetEntry(nodeCollectData).
		Compile()
	if err != nil {
		return nil, fmt.Errorf("onboarding: compile graph: %w", err)
	}
	a.compiled = compiled

	return a, nil
}

// ChatTurn runs one onboarding turn: it appends the user message to the
// thread, extracts profile data, and streams the assistant reply to the
// emitter. Turns on the same thread never interleave.
func (a *Agent) ChatTurn(ctx context.Context, threadID, message, userFullName string, emitter stream.Emitter) (State, error) {
	unlock := a.locks.Lock(threadID)
	defer unlock()

	state, _, err := graph.LatestState[State](ctx, a.store, threadID)
	if err != nil {
		return State{}, fmt.Errorf("onboarding: load thread %s: %w", threadID, err)
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

// collectData extracts profile data from the conversation and merges it
// into the accumulated profile. It is the only place the completion
// flag is decided; once set it never clears, even if a later extraction
// comes back emptier.
func (a *Agent) collectData(ctx graph.Context, state State) (State, error) {
	prior := NewData()
	if state.Data != nil {
		prior = *state.Data
	}

	existing, err := json.Marshal(prior)
	if err != nil {
		return state, fmt.Errorf("marshal existing profile: %w", err)
	}

	extracted, err := a.extractor.Extract(ctx,
		fmt.Sprintf(extractionPrompt, existing),
		chat.ToLLM(state.Messages),
	)
	if err != nil {
		return state, fmt.Errorf("extract onboarding data: %w", err)
	}

	merged := mergeData(prior, extracted)
	merged.OnboardingCompleted = prior.OnboardingCompleted || merged.Complete()

	if merged.OnboardingCompleted && !prior.OnboardingCompleted {
		if err := ctx.Emitter().Emit(ctx, stream.OnboardingCompleted(merged)); err != nil {
			return state, err
		}
	}

	state.Data = &merged
	return state, nil
}

// chatOnboarding streams the assistant reply. The prompt depends on
// whether required information is still missing.
func (a *Agent) chatOnboarding(ctx graph.Context, state State) (State, error) {
	data := NewData()
	if state.Data != nil {
		data = *state.Data
	}

	userFullName := ctx.Config().String("user_full_name", "John Doe")
	currentDate := ctx.Config().String("current_date", time.Now().Format("2006-01-02"))

	var systemPrompt string
	if len(data.MissingFields()) > 0 {
		systemPrompt = collectingPrompt(userFullName, data, currentDate)
	} else {
		systemPrompt = fmt.Sprintf(completedPrompt, userFullName)
	}

	messageID := uuid.New().String()
	resp, err := ctx.LLM().Stream(ctx, llm.CompletionRequest{
		Model:        a.chatModel,
		SystemPrompt: systemPrompt,
		Messages:     chat.ToLLM(state.Messages),
	}, func(chunk llm.StreamChunk) error {
		return ctx.Emitter().Emit(ctx, stream.MessageChunk(messageID, chunk.Content, nil))
	})
	if err != nil {
		return state, fmt.Errorf("chat completion: %w", err)
	}

	reply := chat.Message{
		ID:      messageID,
		Role:    chat.RoleAI,
		Content: resp.Content,
		ResponseMetadata: map[string]any{
			"finish_reason": resp.FinishReason,
			"model":         resp.Model,
		},
	}
	state.Messages = chat.AddMessages(state.Messages, []chat.Message{reply})
	return state, nil
}

// mergeData folds extracted values into the prior profile. Extracted
// values win when present; empty values never erase what the user
// already provided.
func mergeData(prior, extracted Data) Data {
	merged := prior

	merged.LifeStage = chat.CoalesceString(prior.LifeStage, extracted.LifeStage)
	merged.Profession = chat.CoalesceString(prior.Profession, extracted.Profession)
	merged.AgeRange = chat.CoalesceString(prior.AgeRange, extracted.AgeRange)
	merged.PersonalContext.Hobbies = chat.CoalesceSlice(prior.PersonalContext.Hobbies, extracted.PersonalContext.Hobbies)
	merged.PersonalContext.FamilyStatus = chat.CoalesceString(prior.PersonalContext.FamilyStatus, extracted.PersonalContext.FamilyStatus)
	merged.FinancialGoals = chat.CoalesceSlice(prior.FinancialGoals, extracted.FinancialGoals)
	merged.FinancialInterests = chat.CoalesceSlice(prior.FinancialInterests, extracted.FinancialInterests)
	merged.FinancialConcerns = chat.CoalesceSlice(prior.FinancialConcerns, extracted.FinancialConcerns)
	merged.PreviousExperience = chat.CoalesceSlice(prior.PreviousExperience, extracted.PreviousExperience)

	if extracted.FinancialKnowledgeLevel != "" && extracted.FinancialKnowledgeLevel != KnowledgeUnknown {
		merged.FinancialKnowledgeLevel = extracted.FinancialKnowledgeLevel
	}
	if merged.FinancialKnowledgeLevel == "" {
		merged.FinancialKnowledgeLevel = KnowledgeUnknown
	}

	return merged
}
