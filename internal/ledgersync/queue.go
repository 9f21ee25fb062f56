package ledgersync

import (
	"errors"
	"sync"
)

// ErrQueueFull reports a non-blocking send against a saturated channel.
var ErrQueueFull = errors.New("command queue full")

// Queue is a bounded mailbox for one command category. TrySend never blocks:
// when the buffer is full the command is dropped, shedding stale polls in
// favor of the next fresh one. Receive blocks until a command arrives or the
// queue closes.
type Queue[C any] struct {
	ch        chan C
	closeOnce sync.Once
}

// NewQueue builds a queue with the given capacity (minimum one).
func NewQueue[C any](capacity int) *Queue[C] {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue[C]{ch: make(chan C, capacity)}
}

// TrySend enqueues without blocking, returning ErrQueueFull at capacity.
// Must not be called after Close.
func (q *Queue[C]) TrySend(cmd C) error {
	if q == nil {
		return ErrQueueFull
	}
	select {
	case q.ch <- cmd:
		return nil
	default:
		return ErrQueueFull
	}
}

// Receive blocks for the next command; ok is false once the queue is closed
// and drained.
func (q *Queue[C]) Receive() (C, bool) {
	cmd, ok := <-q.ch
	return cmd, ok
}

// Close ends the receive loop. Safe to call more than once.
func (q *Queue[C]) Close() {
	if q == nil {
		return
	}
	q.closeOnce.Do(func() {
		close(q.ch)
	})
}

// Len reports the number of buffered commands.
func (q *Queue[C]) Len() int {
	if q == nil {
		return 0
	}
	return len(q.ch)
}

// Cap reports the channel capacity.
func (q *Queue[C]) Cap() int {
	if q == nil {
		return 0
	}
	return cap(q.ch)
}
