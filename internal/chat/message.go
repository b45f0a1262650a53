// Package chat holds the conversation state shared by the agents:
// role-tagged messages, the merge rules applied between turns, and
// per-thread serialization of turns.
package chat

import (
	"github.com/google/uuid"
	"github.com/monetalab/fincoach/pkg/llm"
)

// Message roles.
const (
	RoleHuman = "human"
	RoleAI    = "ai"
	RoleTool  = "tool"
)

// Message is a single conversation message. Every message carries a
// stable ID so streamed chunks and later replacements can refer to it.
type Message struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`

	// ToolCalls is set on AI messages that request tool use.
	ToolCalls []llm.ToolCall `json:"tool_calls,omitempty"`

	// ToolCallID links a tool message to the call it answers.
	ToolCallID string `json:"tool_call_id,omitempty"`

	// ResponseMetadata carries provider metadata such as the model name
	// and finish reason.
	ResponseMetadata map[string]any `json:"response_metadata,omitempty"`
}

// NewHuman creates a human message with a fresh ID.
func NewHuman(content string) Message {
	return Message{ID: uuid.New().String(), Role: RoleHuman, Content: content}
}

// NewAI creates an AI message with a fresh ID.
func NewAI(content string) Message {
	return Message{ID: uuid.New().String(), Role: RoleAI, Content: content}
}

// NewTool creates a tool result message answering the given call.
func NewTool(content, toolCallID string) Message {
	return Message{ID: uuid.New().String(), Role: RoleTool, Content: content, ToolCallID: toolCallID}
}

// AddMessages merges new messages into an existing history. A new
// message whose ID matches an existing one replaces it in place; all
// others are appended in order. The input slices are not modified.
//
// In-place replacement is what lets a streamed placeholder message be
// finalized once the full content is known.
func AddMessages(existing, incoming []Message) []Message {
	merged := make([]Message, len(existing))
	copy(merged, existing)

	index := make(map[string]int, len(merged))
	for i, m := range merged {
		if m.ID != "" {
			index[m.ID] = i
		}
	}

	for _, m := range incoming {
		if m.ID != "" {
			if i, ok := index[m.ID]; ok {
				merged[i] = m
				continue
			}
		}
		if m.ID != "" {
			index[m.ID] = len(merged)
		}
		merged = append(merged, m)
	}

	return merged
}

// ToLLM converts history to provider messages. Roles map human->user,
// ai->assistant, tool->tool.
func ToLLM(messages []Message) []llm.Message {
	out := make([]llm.Message, 0, len(messages))
	for _, m := range messages {
		role := llm.RoleUser
		switch m.Role {
		case RoleAI:
			role = llm.RoleAssistant
		case RoleTool:
			role = llm.RoleTool
		}
		out = append(out, llm.Message{
			Role:       role,
			Content:    m.Content,
			ToolCalls:  m.ToolCalls,
			ToolCallID: m.ToolCallID,
		})
	}
	return out
}

// LastAI returns the most recent AI message, or false if none exists.
func LastAI(messages []Message) (Message, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleAI {
			return messages[i], true
		}
	}
	return Message{}, false
}
