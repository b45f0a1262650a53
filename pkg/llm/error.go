package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Error is a provider failure with enough detail to decide on retries.
type Error struct {
	Op         string // "complete" or "stream"
	StatusCode int    // HTTP status, 0 when not applicable
	Message    string
	Retryable  bool
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("llm %s: status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("llm %s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// IsRetryable reports whether the error is transient: rate limits,
// provider 5xx responses, and network timeouts qualify. Context
// cancellation never does.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var le *Error
	if errors.As(err, &le) {
		return le.Retryable
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	return false
}

// retryableStatus classifies an HTTP status for retry purposes.
func retryableStatus(status int) bool {
	switch {
	case status == 429:
		return true
	case status >= 500:
		return true
	default:
		return false
	}
}
