package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastRetry keeps test backoff negligible.
var fastRetry = RetryConfig{
	MaxAttempts:    3,
	InitialBackoff: time.Millisecond,
	MaxBackoff:     5 * time.Millisecond,
	BackoffFactor:  2.0,
}

func TestRetrying_CompleteRecoversFromTransientError(t *testing.T) {
	attempts := 0
	mock := &Mock{
		CompleteFunc: func(context.Context, CompletionRequest) (*Completion, error) {
			attempts++
			if attempts < 3 {
				return nil, &Error{Op: "complete", StatusCode: 429, Retryable: true}
			}
			return &Completion{Content: "ok"}, nil
		},
	}

	client := NewRetrying(mock, fastRetry)
	resp, err := client.Complete(context.Background(), CompletionRequest{})

	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, 3, attempts)
}

func TestRetrying_CompleteGivesUpAfterMaxAttempts(t *testing.T) {
	attempts := 0
	mock := &Mock{
		CompleteFunc: func(context.Context, CompletionRequest) (*Completion, error) {
			attempts++
			return nil, &Error{Op: "complete", StatusCode: 503, Retryable: true}
		},
	}

	client := NewRetrying(mock, fastRetry)
	_, err := client.Complete(context.Background(), CompletionRequest{})

	require.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetrying_CompleteDoesNotRetryPermanentError(t *testing.T) {
	attempts := 0
	mock := &Mock{
		CompleteFunc: func(context.Context, CompletionRequest) (*Completion, error) {
			attempts++
			return nil, &Error{Op: "complete", StatusCode: 400, Retryable: false}
		},
	}

	client := NewRetrying(mock, fastRetry)
	_, err := client.Complete(context.Background(), CompletionRequest{})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRetrying_CompleteStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mock := &Mock{
		CompleteFunc: func(context.Context, CompletionRequest) (*Completion, error) {
			t.Fatal("should not be called")
			return nil, nil
		},
	}

	client := NewRetrying(mock, fastRetry)
	_, err := client.Complete(ctx, CompletionRequest{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetrying_StreamRetriesBeforeFirstChunk(t *testing.T) {
	attempts := 0
	mock := &Mock{
		StreamFunc: func(_ context.Context, _ CompletionRequest, fn StreamFunc) (*Completion, error) {
			attempts++
			if attempts < 2 {
				return nil, &Error{Op: "stream", StatusCode: 500, Retryable: true}
			}
			require.NoError(t, fn(StreamChunk{Content: "hello"}))
			return &Completion{Content: "hello"}, nil
		},
	}

	var chunks []string
	client := NewRetrying(mock, fastRetry)
	resp, err := client.Stream(context.Background(), CompletionRequest{}, func(c StreamChunk) error {
		chunks = append(chunks, c.Content)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Content)
	assert.Equal(t, []string{"hello"}, chunks)
	assert.Equal(t, 2, attempts)
}

func TestRetrying_StreamNeverReplaysDeliveredChunks(t *testing.T) {
	attempts := 0
	mock := &Mock{
		StreamFunc: func(_ context.Context, _ CompletionRequest, fn StreamFunc) (*Completion, error) {
			attempts++
			require.NoError(t, fn(StreamChunk{Content: "partial "}))
			return nil, &Error{Op: "stream", StatusCode: 500, Retryable: true}
		},
	}

	var chunks []string
	client := NewRetrying(mock, fastRetry)
	_, err := client.Stream(context.Background(), CompletionRequest{}, func(c StreamChunk) error {
		chunks = append(chunks, c.Content)
		return nil
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts) // a partial stream is a hard failure
	assert.Equal(t, []string{"partial "}, chunks)
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.False(t, IsRetryable(errors.New("plain")))
	assert.False(t, IsRetryable(context.Canceled))
	assert.False(t, IsRetryable(context.DeadlineExceeded))

	assert.True(t, IsRetryable(&Error{StatusCode: 429, Retryable: true}))
	assert.True(t, IsRetryable(&Error{StatusCode: 503, Retryable: true}))
	assert.False(t, IsRetryable(&Error{StatusCode: 401, Retryable: false}))

	// Classification survives wrapping.
	wrapped := &Error{StatusCode: 500, Retryable: true}
	assert.True(t, IsRetryable(errors.Join(errors.New("outer"), wrapped)))
}

func TestMock_StreamChunksAndQueue(t *testing.T) {
	mock := (&Mock{}).EnqueueText("Hello streaming world")

	var chunks []string
	resp, err := mock.Stream(context.Background(), CompletionRequest{Model: "test"}, func(c StreamChunk) error {
		chunks = append(chunks, c.Content)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, "Hello streaming world", resp.Content)
	assert.Equal(t, []string{"Hello ", "streaming ", "world"}, chunks)

	reqs := mock.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "test", reqs[0].Model)

	_, err = mock.Complete(context.Background(), CompletionRequest{})
	assert.Error(t, err) // queue exhausted
}

func TestMock_EnqueueToolCall(t *testing.T) {
	mock := (&Mock{}).EnqueueToolCall("call-1", "update_activity_progress", `{"progress":{}}`)

	resp, err := mock.Complete(context.Background(), CompletionRequest{})
	require.NoError(t, err)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "call-1", resp.ToolCalls[0].ID)
	assert.Equal(t, "tool_calls", resp.FinishReason)
}
