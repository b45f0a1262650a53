// Package stream defines the event types emitted by graph nodes during a
// conversational turn, and emitters that carry them to the caller.
package stream

import "context"

// Event types emitted during a turn.
const (
	// TypeMessageChunk carries an incremental piece of assistant text.
	TypeMessageChunk = "ai_message_chunk"

	// TypeOnboardingCompleted signals that onboarding data collection
	// has finished for the thread.
	TypeOnboardingCompleted = "onboarding_completed"

	// TypeProgressUpdated carries the full replacement progress state of
	// an activity.
	TypeProgressUpdated = "progress_updated"

	// TypeError reports a turn that failed mid-stream.
	TypeError = "error"
)

// Chunk is an incremental piece of an assistant message. ID is stable
// across all chunks of the same message so consumers can stitch them
// back together.
type Chunk struct {
	ID               string         `json:"id"`
	Content          string         `json:"content"`
	ResponseMetadata map[string]any `json:"response_metadata,omitempty"`
}

// Event is a single streamed occurrence during a turn.
type Event struct {
	Type string `json:"type"`

	// Chunk is set for TypeMessageChunk events.
	Chunk *Chunk `json:"chunk,omitempty"`

	// Data carries event-specific payload for non-chunk events, such as
	// the progress list for TypeProgressUpdated or the error message for
	// TypeError.
	Data any `json:"data,omitempty"`
}

// MessageChunk builds a TypeMessageChunk event.
func MessageChunk(id, content string, metadata map[string]any) Event {
	return Event{
		Type: TypeMessageChunk,
		Chunk: &Chunk{
			ID:               id,
			Content:          content,
			ResponseMetadata: metadata,
		},
	}
}

// OnboardingCompleted builds a TypeOnboardingCompleted event carrying
// the completed profile.
func OnboardingCompleted(data any) Event {
	return Event{Type: TypeOnboardingCompleted, Data: data}
}

// ProgressUpdated builds a TypeProgressUpdated event carrying the full
// replacement progress state.
func ProgressUpdated(progress any) Event {
	return Event{Type: TypeProgressUpdated, Data: progress}
}

// Error builds a TypeError event.
func Error(msg string) Event {
	return Event{Type: TypeError, Data: msg}
}

// Emitter receives events as nodes produce them.
// Implementations must be safe for concurrent use.
type Emitter interface {
	// Emit delivers an event. Returns an error if the consumer is gone,
	// in which case the producer should stop.
	Emit(ctx context.Context, ev Event) error
}

// Noop discards all events. It is the default emitter when none is
// configured.
type Noop struct{}

// Emit implements Emitter.
func (Noop) Emit(context.Context, Event) error { return nil }
