package sse

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monetalab/fincoach/pkg/graph/stream"
)

// noFlushWriter wraps a ResponseWriter without exposing http.Flusher.
type noFlushWriter struct {
	http.ResponseWriter
}

func TestNewWriter_SetsHeaders(t *testing.T) {
	rec := httptest.NewRecorder()

	writer := NewWriter(rec)
	require.NotNil(t, writer)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "no", rec.Header().Get("X-Accel-Buffering"))
}

func TestNewWriter_RequiresFlusher(t *testing.T) {
	rec := httptest.NewRecorder()

	assert.Nil(t, NewWriter(noFlushWriter{rec}))
}

func TestSendEvent(t *testing.T) {
	rec := httptest.NewRecorder()
	writer := NewWriter(rec)

	err := writer.SendEvent("greeting", map[string]string{"text": "hello"})
	require.NoError(t, err)
	assert.Equal(t, "event: greeting\ndata: {\"text\":\"hello\"}\n\n", rec.Body.String())
}

func TestSendComment(t *testing.T) {
	rec := httptest.NewRecorder()
	writer := NewWriter(rec)

	writer.SendComment("ping")
	assert.Equal(t, ": ping\n\n", rec.Body.String())
}

// TestPump verifies that chunk events carry the chunk payload and other
// events carry their data payload.
func TestPump(t *testing.T) {
	rec := httptest.NewRecorder()
	writer := NewWriter(rec)

	events := make(chan stream.Event, 3)
	events <- stream.MessageChunk("m-1", "Hello ", nil)
	events <- stream.MessageChunk("m-1", "world", nil)
	events <- stream.ProgressUpdated(map[string]any{"steps": []any{}})
	close(events)

	require.NoError(t, writer.Pump(events))

	body := rec.Body.String()
	assert.Contains(t, body, "event: ai_message_chunk")
	assert.Contains(t, body, `"Hello "`)
	assert.Contains(t, body, "event: progress_updated")
	assert.Contains(t, body, `"steps"`)
}
