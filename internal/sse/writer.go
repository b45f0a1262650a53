// Package sse writes Server-Sent Events and bridges agent event
// channels onto HTTP responses.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/monetalab/fincoach/pkg/graph/stream"
)

// Writer sends Server-Sent Events to an http.ResponseWriter.
type Writer struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewWriter creates a new SSE writer. Returns nil if the ResponseWriter
// doesn't support http.Flusher.
func NewWriter(w http.ResponseWriter) *Writer {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // nginx
	flusher.Flush()

	return &Writer{w: w, flusher: flusher}
}

// SendEvent writes a named SSE event with JSON data.
func (s *Writer) SendEvent(event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal SSE data: %w", err)
	}
	fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, jsonData)
	s.flusher.Flush()
	return nil
}

// SendComment writes an SSE comment (for keep-alive pings).
func (s *Writer) SendComment(text string) {
	fmt.Fprintf(s.w, ": %s\n\n", text)
	s.flusher.Flush()
}

// Pump drains agent events onto the SSE connection until events closes.
// Chunk events carry the chunk payload; other events carry their data
// payload as-is. Write errors stop the pump but do not stop the agent,
// which keeps running and persists its state.
func (s *Writer) Pump(events <-chan stream.Event) error {
	for ev := range events {
		var payload any
		switch {
		case ev.Chunk != nil:
			payload = ev.Chunk
		default:
			payload = ev.Data
		}
		if err := s.SendEvent(ev.Type, payload); err != nil {
			return err
		}
	}
	return nil
}
