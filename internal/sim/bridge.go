package sim

import "context"

// Bridge lets async workers run closures against the world with the same
// exclusivity the loop itself has. Submissions queue up until the loop drains
// them, once per tick, on the simulation goroutine; the submitter blocks
// until its closure has run. Completion of the closure therefore
// happens-before Submit returns.
type Bridge struct {
	tasks chan bridgeTask
}

type bridgeTask struct {
	fn   func(*World)
	done chan struct{}
}

const defaultBridgeBuffer = 16

// NewBridge builds a bridge with the given submission buffer; values below
// one fall back to the default.
func NewBridge(buffer int) *Bridge {
	if buffer < 1 {
		buffer = defaultBridgeBuffer
	}
	return &Bridge{tasks: make(chan bridgeTask, buffer)}
}

// Submit queues fn for execution on the simulation goroutine and blocks until
// it has run or ctx is cancelled. Cancellation after enqueue abandons the
// wait, not the closure: the loop may still run it.
func (b *Bridge) Submit(ctx context.Context, fn func(*World)) error {
	if b == nil || fn == nil {
		return nil
	}
	task := bridgeTask{fn: fn, done: make(chan struct{})}
	select {
	case b.tasks <- task:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-task.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Drain runs every queued closure against the world. It must only be called
// from the goroutine that owns the world; the loop calls it at the start of
// each tick.
func (b *Bridge) Drain(w *World) {
	if b == nil {
		return
	}
	for {
		select {
		case task := <-b.tasks:
			task.fn(w)
			close(task.done)
		default:
			return
		}
	}
}
