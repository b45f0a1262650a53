// Package llm abstracts the chat completion provider behind a small
// client interface with tool calling, structured output and streaming.
package llm

import (
	"context"
	"encoding/json"
)

// Message roles as sent to the provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is a single provider-facing conversation message.
type Message struct {
	Role    string
	Content string

	// ToolCalls is set on assistant messages that request tool use.
	ToolCalls []ToolCall

	// ToolCallID links a tool message to the call it answers.
	ToolCallID string
}

// ToolCall is a provider request to invoke a tool.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string // raw JSON
}

// Tool describes a callable function exposed to the model.
type Tool struct {
	Name        string
	Description string
	Parameters  json.RawMessage // JSON schema for the arguments
}

// ToolChoice constrains how the model may use tools.
type ToolChoice struct {
	// Mode is "auto", "none" or "tool". Empty means the provider default.
	Mode string

	// Name is required when Mode is "tool".
	Name string
}

// Tool choice modes.
const (
	ToolChoiceAuto = "auto"
	ToolChoiceNone = "none"
	ToolChoiceTool = "tool"
)

// ResponseFormat requests structured output conforming to a JSON schema.
type ResponseFormat struct {
	Name   string
	Schema json.RawMessage
	Strict bool
}

// CompletionRequest is a single completion call.
type CompletionRequest struct {
	Model        string
	SystemPrompt string
	Messages     []Message
	Tools        []Tool
	ToolChoice   *ToolChoice
	Temperature  float32
	MaxTokens    int

	// ResponseFormat, when set, forces the model to emit JSON matching
	// the schema. Incompatible with tool use on most providers.
	ResponseFormat *ResponseFormat
}

// Usage reports token consumption for a completion.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Completion is the full result of a completion call.
type Completion struct {
	Content      string
	ToolCalls    []ToolCall
	FinishReason string
	Usage        Usage
	Model        string
}

// StreamChunk is an incremental piece of a streamed completion.
// Content carries new text; tool call activity produces chunks with
// empty Content, visible only in the final accumulated Completion.
type StreamChunk struct {
	Content string
}

// StreamFunc receives chunks as they arrive. Returning an error aborts
// the stream.
type StreamFunc func(chunk StreamChunk) error

// Client is the provider abstraction used by the agents.
// Implementations must be safe for concurrent use.
type Client interface {
	// Complete performs a blocking completion call.
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)

	// Stream performs a streaming completion call, invoking fn for each
	// chunk, and returns the fully accumulated completion, including any
	// tool calls assembled from deltas.
	Stream(ctx context.Context, req CompletionRequest, fn StreamFunc) (*Completion, error)
}
