package llm

import (
	"context"
	"errors"
	"io"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultCallTimeout bounds a single provider call, streaming included.
const DefaultCallTimeout = 60 * time.Second

// OpenAI implements Client via the OpenAI Chat Completions API.
type OpenAI struct {
	api          *openai.Client
	defaultModel string
	callTimeout  time.Duration
}

// NewOpenAI constructs an OpenAI-backed client.
func NewOpenAI(apiKey, defaultModel string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, errors.New("llm: api key is required")
	}
	if defaultModel == "" {
		return nil, errors.New("llm: default model is required")
	}
	return &OpenAI{
		api:          openai.NewClient(apiKey),
		defaultModel: defaultModel,
		callTimeout:  DefaultCallTimeout,
	}, nil
}

// NewOpenAIWithBaseURL constructs a client pointed at a compatible API,
// such as a proxy or a local server.
func NewOpenAIWithBaseURL(apiKey, baseURL, defaultModel string) (*OpenAI, error) {
	if defaultModel == "" {
		return nil, errors.New("llm: default model is required")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAI{
		api:          openai.NewClientWithConfig(cfg),
		defaultModel: defaultModel,
		callTimeout:  DefaultCallTimeout,
	}, nil
}

// WithCallTimeout sets the per-call deadline. Zero disables it.
func (c *OpenAI) WithCallTimeout(d time.Duration) *OpenAI {
	c.callTimeout = d
	return c
}

// callContext applies the per-call deadline on top of the caller's
// context.
func (c *OpenAI) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.callTimeout)
}

// Complete implements Client.
func (c *OpenAI) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	request, err := c.buildRequest(req)
	if err != nil {
		return nil, err
	}

	parent := ctx
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, request)
	if err != nil {
		return nil, classifyCall("complete", err, parent)
	}
	if len(resp.Choices) == 0 {
		return nil, &Error{Op: "complete", Message: "no choices in response"}
	}

	choice := resp.Choices[0]
	return &Completion{
		Content:      choice.Message.Content,
		ToolCalls:    decodeToolCalls(choice.Message.ToolCalls),
		FinishReason: string(choice.FinishReason),
		Usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
		Model: resp.Model,
	}, nil
}

// Stream implements Client. Text deltas are forwarded to fn as they
// arrive; tool call deltas are accumulated by index and surfaced only in
// the final Completion.
func (c *OpenAI) Stream(ctx context.Context, req CompletionRequest, fn StreamFunc) (*Completion, error) {
	request, err := c.buildRequest(req)
	if err != nil {
		return nil, err
	}
	request.Stream = true

	parent := ctx
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	stream, err := c.api.CreateChatCompletionStream(ctx, request)
	if err != nil {
		return nil, classifyCall("stream", err, parent)
	}
	defer stream.Close()

	var (
		content      []byte
		finishReason string
		toolCalls    []ToolCall
	)

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, classifyCall("stream", err, parent)
		}
		if len(resp.Choices) == 0 {
			continue
		}

		choice := resp.Choices[0]
		if choice.FinishReason != "" {
			finishReason = string(choice.FinishReason)
		}

		delta := choice.Delta
		for _, tc := range delta.ToolCalls {
			toolCalls = accumulateToolCall(toolCalls, tc)
		}

		if delta.Content == "" {
			continue
		}
		content = append(content, delta.Content...)
		if fn != nil {
			if err := fn(StreamChunk{Content: delta.Content}); err != nil {
				return nil, err
			}
		}
	}

	return &Completion{
		Content:      string(content),
		ToolCalls:    toolCalls,
		FinishReason: finishReason,
	}, nil
}

// buildRequest translates a CompletionRequest into the provider request.
func (c *OpenAI) buildRequest(req CompletionRequest) (openai.ChatCompletionRequest, error) {
	model := req.Model
	if model == "" {
		model = c.defaultModel
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	for _, m := range req.Messages {
		cm := openai.ChatCompletionMessage{
			Role:       m.Role,
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
		}
		for _, tc := range m.ToolCalls {
			cm.ToolCalls = append(cm.ToolCalls, openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Name,
					Arguments: tc.Arguments,
				},
			})
		}
		messages = append(messages, cm)
	}

	request := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	for _, t := range req.Tools {
		request.Tools = append(request.Tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}

	if req.ToolChoice != nil {
		switch req.ToolChoice.Mode {
		case "", ToolChoiceAuto:
			// Provider default.
		case ToolChoiceNone:
			request.ToolChoice = "none"
		case ToolChoiceTool:
			if req.ToolChoice.Name == "" {
				return request, errors.New("llm: tool choice requires a tool name")
			}
			request.ToolChoice = openai.ToolChoice{
				Type:     openai.ToolTypeFunction,
				Function: openai.ToolFunction{Name: req.ToolChoice.Name},
			}
		default:
			return request, errors.New("llm: unsupported tool choice mode " + req.ToolChoice.Mode)
		}
	}

	if req.ResponseFormat != nil {
		request.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   req.ResponseFormat.Name,
				Schema: req.ResponseFormat.Schema,
				Strict: req.ResponseFormat.Strict,
			},
		}
	}

	return request, nil
}

func decodeToolCalls(calls []openai.ToolCall) []ToolCall {
	if len(calls) == 0 {
		return nil
	}
	out := make([]ToolCall, 0, len(calls))
	for _, tc := range calls {
		out = append(out, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return out
}

// accumulateToolCall merges a streamed tool call delta into the
// accumulated list. Deltas carry an index; the first delta for an index
// holds the ID and name, later ones append argument fragments.
func accumulateToolCall(calls []ToolCall, delta openai.ToolCall) []ToolCall {
	idx := len(calls)
	if delta.Index != nil {
		idx = *delta.Index
	}
	for idx >= len(calls) {
		calls = append(calls, ToolCall{})
	}
	if delta.ID != "" {
		calls[idx].ID = delta.ID
	}
	if delta.Function.Name != "" {
		calls[idx].Name = delta.Function.Name
	}
	calls[idx].Arguments += delta.Function.Arguments
	return calls
}

// classify wraps a provider error with retry information.
// classifyCall distinguishes expiry of the per-call deadline, which is
// transient, from a cancellation that came from the caller.
func classifyCall(op string, err error, parent context.Context) error {
	if errors.Is(err, context.DeadlineExceeded) && parent.Err() == nil {
		return &Error{Op: op, Message: "call timed out", Retryable: true, Err: err}
	}
	return classify(op, err)
}

func classify(op string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &Error{
			Op:         op,
			StatusCode: apiErr.HTTPStatusCode,
			Message:    apiErr.Message,
			Retryable:  retryableStatus(apiErr.HTTPStatusCode),
			Err:        err,
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &Error{
			Op:         op,
			StatusCode: reqErr.HTTPStatusCode,
			Message:    reqErr.Error(),
			Retryable:  retryableStatus(reqErr.HTTPStatusCode),
			Err:        err,
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{Op: op, Message: err.Error(), Retryable: false, Err: err}
	}
	// Transport-level failures are worth one more try.
	return &Error{Op: op, Message: err.Error(), Retryable: true, Err: err}
}
