package llm

import (
	"context"
	"math/rand/v2"
	"time"
)

// RetryConfig configures retry behavior for transient provider errors.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including initial).
	MaxAttempts int

	// InitialBackoff is the starting backoff duration.
	InitialBackoff time.Duration

	// MaxBackoff is the maximum backoff duration.
	MaxBackoff time.Duration

	// BackoffFactor is the multiplier applied to backoff after each attempt.
	BackoffFactor float64

	// Jitter is the random jitter factor (0.0-1.0).
	Jitter float64
}

// DefaultRetry is the standard retry configuration.
var DefaultRetry = RetryConfig{
	MaxAttempts:    3,
	InitialBackoff: 1 * time.Second,
	MaxBackoff:     30 * time.Second,
	BackoffFactor:  2.0,
	Jitter:         0.1,
}

// RetryingClient wraps a Client and retries transient failures with
// exponential backoff. Streaming calls are retried only when they fail
// before the first chunk is delivered, so consumers never see a partial
// message replayed.
type RetryingClient struct {
	inner Client
	cfg   RetryConfig
}

// NewRetrying wraps the given client in retry behavior.
func NewRetrying(inner Client, cfg RetryConfig) *RetryingClient {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryingClient{inner: inner, cfg: cfg}
}

// Complete implements Client.
func (r *RetryingClient) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	var lastErr error
	backoff := r.cfg.InitialBackoff

	for attempt := 0; attempt < r.cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := r.inner.Complete(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !IsRetryable(err) || attempt == r.cfg.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(withJitter(backoff, r.cfg.Jitter)):
		}
		backoff = nextBackoff(backoff, r.cfg)
	}

	return nil, lastErr
}

// Stream implements Client.
func (r *RetryingClient) Stream(ctx context.Context, req CompletionRequest, fn StreamFunc) (*Completion, error) {
	var lastErr error
	backoff := r.cfg.InitialBackoff

	for attempt := 0; attempt < r.cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		delivered := false
		wrapped := func(chunk StreamChunk) error {
			delivered = true
			if fn == nil {
				return nil
			}
			return fn(chunk)
		}

		resp, err := r.inner.Stream(ctx, req, wrapped)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if delivered || !IsRetryable(err) || attempt == r.cfg.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(withJitter(backoff, r.cfg.Jitter)):
		}
		backoff = nextBackoff(backoff, r.cfg)
	}

	return nil, lastErr
}

func nextBackoff(current time.Duration, cfg RetryConfig) time.Duration {
	next := time.Duration(float64(current) * cfg.BackoffFactor)
	if next > cfg.MaxBackoff {
		next = cfg.MaxBackoff
	}
	return next
}

func withJitter(base time.Duration, jitter float64) time.Duration {
	if jitter <= 0 {
		return base
	}
	amount := float64(base) * jitter * (rand.Float64()*2 - 1)
	return time.Duration(float64(base) + amount)
}
