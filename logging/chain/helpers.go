// Package chain defines the ledger-sync event vocabulary published through
// the logging router.
package chain

import (
	"context"

	"chain-racer/server/logging"
)

const (
	// EventCommandDropped is emitted when a sync command is shed because its
	// channel is at capacity.
	EventCommandDropped logging.EventType = "chain.command_dropped"
	// EventCallFailed is emitted when a ledger system call or component query
	// returns an error.
	EventCallFailed logging.EventType = "chain.call_failed"
	// EventWorkerStarted is emitted once a worker has resolved its handle.
	EventWorkerStarted logging.EventType = "chain.worker_started"
	// EventWorkerStopped is emitted when a worker exits, either on teardown
	// or after a fatal bootstrap failure.
	EventWorkerStopped logging.EventType = "chain.worker_stopped"
)

// DropPayload captures a shed command.
type DropPayload struct {
	Category string `json:"category"`
	Capacity int    `json:"capacity"`
}

// CommandDropped publishes a warning for a command shed under backpressure.
func CommandDropped(ctx context.Context, pub logging.Publisher, tick uint64, payload DropPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventCommandDropped,
		Tick:     tick,
		Actor:    logging.EntityRef{Kind: logging.EntityKindWorld},
		Severity: logging.SeverityWarn,
		Category: logging.CategorySync,
		Payload:  payload,
	})
}

// CallPayload captures a failed ledger round trip.
type CallPayload struct {
	Category string `json:"category"`
	Op       string `json:"op"`
	Error    string `json:"error"`
}

// CallFailed publishes an error for a failed system call or component query.
func CallFailed(ctx context.Context, pub logging.Publisher, payload CallPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventCallFailed,
		Actor:    logging.EntityRef{Kind: logging.EntityKindLedger},
		Severity: logging.SeverityError,
		Category: logging.CategoryLedger,
		Payload:  payload,
	})
}

// WorkerPayload identifies a worker lifecycle transition.
type WorkerPayload struct {
	Category string `json:"category"`
	Reason   string `json:"reason,omitempty"`
}

// WorkerStarted publishes a debug event after worker bootstrap succeeds.
func WorkerStarted(ctx context.Context, pub logging.Publisher, payload WorkerPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventWorkerStarted,
		Actor:    logging.EntityRef{Kind: logging.EntityKindLedger},
		Severity: logging.SeverityDebug,
		Category: logging.CategorySync,
		Payload:  payload,
	})
}

// WorkerStopped publishes the reason a worker loop exited.
func WorkerStopped(ctx context.Context, pub logging.Publisher, payload WorkerPayload) {
	if pub == nil {
		return
	}
	severity := logging.SeverityInfo
	if payload.Reason != "" && payload.Reason != "closed" {
		severity = logging.SeverityError
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventWorkerStopped,
		Actor:    logging.EntityRef{Kind: logging.EntityKindLedger},
		Severity: severity,
		Category: logging.CategorySync,
		Payload:  payload,
	})
}
