package stream

import (
	"context"
	"sync"
)

// ChannelEmitter delivers events over a Go channel. The consumer reads
// from Events() until it is closed by Close(). Emit blocks when the
// channel is full, which applies natural backpressure to the producer.
type ChannelEmitter struct {
	ch        chan Event
	closeOnce sync.Once
}

// NewChannelEmitter creates a channel-backed emitter with the given
// buffer size. A buffer of zero makes Emit fully synchronous.
func NewChannelEmitter(buffer int) *ChannelEmitter {
	if buffer < 0 {
		buffer = 0
	}
	return &ChannelEmitter{ch: make(chan Event, buffer)}
}

// Events returns the receive side of the emitter.
func (e *ChannelEmitter) Events() <-chan Event {
	return e.ch
}

// Emit implements Emitter. It respects context cancellation so a
// producer is never stuck on a consumer that went away.
func (e *ChannelEmitter) Emit(ctx context.Context, ev Event) error {
	select {
	case e.ch <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close closes the event channel. Safe to call more than once.
// The producer must not Emit after Close.
func (e *ChannelEmitter) Close() {
	e.closeOnce.Do(func() { close(e.ch) })
}
