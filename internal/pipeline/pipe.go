package pipeline

import (
	"context"
	"sync/atomic"
)

// DefaultCapacity is the pipe buffer size used when the configuration does
// not specify one.
const DefaultCapacity = 64

// Pipe is a bounded FIFO queue between exactly one producer stage and one
// consumer stage. Send blocks while the queue is full, Recv blocks while it
// is empty, and once the producer closes the pipe pending and future
// receives observe a clean end-of-stream.
type Pipe[T any] struct {
	ch   chan T
	sent atomic.Int64
}

// NewPipe creates a pipe with the given capacity; capacities below one fall
// back to DefaultCapacity.
func NewPipe[T any](capacity int) *Pipe[T] {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Pipe[T]{ch: make(chan T, capacity)}
}

// Send enqueues v, blocking while the pipe is full. When ctx is canceled
// (the pipeline aborted and the receiver is gone) it returns ErrPipeClosed.
func (p *Pipe[T]) Send(ctx context.Context, v T) error {
	select {
	case p.ch <- v:
		p.sent.Add(1)
		return nil
	case <-ctx.Done():
		return ErrPipeClosed
	}
}

// Sent returns how many values have been enqueued so far.
func (p *Pipe[T]) Sent() int64 {
	return p.sent.Load()
}

// Recv dequeues one value, blocking while the pipe is empty. ok is false
// after the producer closed the pipe and the buffer drained. When ctx is
// canceled mid-wait it returns ctx.Err.
func (p *Pipe[T]) Recv(ctx context.Context) (v T, ok bool, err error) {
	select {
	case v, ok = <-p.ch:
		return v, ok, nil
	case <-ctx.Done():
		return v, false, ctx.Err()
	}
}

// Close marks the producer side done. Only the producing stage may call it,
// exactly once.
func (p *Pipe[T]) Close() {
	close(p.ch)
}
