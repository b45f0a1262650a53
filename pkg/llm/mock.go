package llm

import (
	"context"
	"sync"
)

// Mock is a scriptable Client for tests. Queue responses with Enqueue;
// each call consumes the next one. For streaming calls the content is
// delivered to the callback in word-sized chunks before the completion
// is returned.
//
// CompleteFunc and StreamFunc, when set, take precedence over the queue.
type Mock struct {
	mu        sync.Mutex
	responses []*Completion
	requests  []CompletionRequest

	CompleteFunc func(ctx context.Context, req CompletionRequest) (*Completion, error)
	StreamFunc   func(ctx context.Context, req CompletionRequest, fn StreamFunc) (*Completion, error)
}

var _ Client = (*Mock)(nil)

// Enqueue appends a scripted response.
func (m *Mock) Enqueue(resp *Completion) *Mock {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
	return m
}

// EnqueueText appends a plain assistant text response.
func (m *Mock) EnqueueText(content string) *Mock {
	return m.Enqueue(&Completion{Content: content, FinishReason: "stop"})
}

// EnqueueToolCall appends a response requesting a single tool call.
func (m *Mock) EnqueueToolCall(id, name, arguments string) *Mock {
	return m.Enqueue(&Completion{
		ToolCalls:    []ToolCall{{ID: id, Name: name, Arguments: arguments}},
		FinishReason: "tool_calls",
	})
}

// Requests returns a copy of all requests seen so far.
func (m *Mock) Requests() []CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CompletionRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// Complete implements Client.
func (m *Mock) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, req)
	}
	return m.next(req)
}

// Stream implements Client.
func (m *Mock) Stream(ctx context.Context, req CompletionRequest, fn StreamFunc) (*Completion, error) {
	if m.StreamFunc != nil {
		return m.StreamFunc(ctx, req, fn)
	}

	resp, err := m.next(req)
	if err != nil {
		return nil, err
	}

	if fn != nil && resp.Content != "" {
		for _, chunk := range splitChunks(resp.Content) {
			if err := fn(StreamChunk{Content: chunk}); err != nil {
				return nil, err
			}
		}
	}
	return resp, nil
}

func (m *Mock) next(req CompletionRequest) (*Completion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	if len(m.responses) == 0 {
		return nil, &Error{Op: "complete", Message: "mock: no scripted responses left"}
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	return resp, nil
}

// splitChunks cuts text after each space so streamed chunks resemble
// provider token deltas.
func splitChunks(s string) []string {
	var chunks []string
	start := 0
	for i, r := range s {
		if r == ' ' {
			chunks = append(chunks, s[start:i+1])
			start = i + 1
		}
	}
	if start < len(s) {
		chunks = append(chunks, s[start:])
	}
	return chunks
}
