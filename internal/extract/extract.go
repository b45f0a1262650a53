// Package extract performs structured data extraction: it asks the
// model for JSON conforming to a schema and decodes it strictly into a
// typed value.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/monetalab/fincoach/pkg/llm"
)

// Error reports an extraction failure, distinguishing provider errors
// from malformed model output.
type Error struct {
	Stage string // "complete" or "decode"
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Extractor produces values of type T from conversation context.
type Extractor[T any] struct {
	client llm.Client
	model  string
	schema llm.ResponseFormat
}

// New creates an extractor. schemaName labels the response format;
// schema is the JSON schema the model output must conform to.
func New[T any](client llm.Client, model, schemaName string, schema json.RawMessage) *Extractor[T] {
	return &Extractor[T]{
		client: client,
		model:  model,
		schema: llm.ResponseFormat{
			Name:   schemaName,
			Schema: schema,
			Strict: true,
		},
	}
}

// Extract runs one structured completion call and decodes the result.
// Unknown fields in the model output are rejected so schema drift
// surfaces as an error instead of silently dropped data.
func (e *Extractor[T]) Extract(ctx context.Context, systemPrompt string, messages []llm.Message) (T, error) {
	var zero T

	resp, err := e.client.Complete(ctx, llm.CompletionRequest{
		Model:          e.model,
		SystemPrompt:   systemPrompt,
		Messages:       messages,
		ResponseFormat: &e.schema,
	})
	if err != nil {
		return zero, &Error{Stage: "complete", Err: err}
	}

	var out T
	dec := json.NewDecoder(bytes.NewReader([]byte(stripFences(resp.Content))))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return zero, &Error{Stage: "decode", Err: err}
	}

	return out, nil
}

// stripFences removes a markdown code fence if the model wrapped its
// JSON in one despite the response format.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
