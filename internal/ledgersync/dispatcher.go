package ledgersync

import (
	"context"
	"time"

	"chain-racer/server/internal/telemetry"
	"chain-racer/server/logging"
	"chain-racer/server/logging/chain"
)

// Metric keys recorded by the sync layer.
const (
	metricCommandsEnqueued = "sync_commands_enqueued_total"
	metricCommandsDropped  = "sync_commands_dropped_total"
	metricCallsTotal       = "ledger_calls_total"
	metricCallErrors       = "ledger_call_errors_total"
	metricEventsBridged    = "sync_events_bridged_total"
)

// Dispatcher decides, once per sync period, which poll commands to enqueue
// based on whether the racer exists locally. It runs inside the simulation
// tick, performs only non-blocking sends, and never mutates world state.
type Dispatcher struct {
	timer     *Timer
	queues    *Queues
	publisher logging.Publisher
	metrics   telemetry.Metrics
}

// NewDispatcher wires the sync timer to the command queues.
func NewDispatcher(period time.Duration, queues *Queues, publisher logging.Publisher, metrics telemetry.Metrics) *Dispatcher {
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	return &Dispatcher{
		timer:     NewTimer(period),
		queues:    queues,
		publisher: publisher,
		metrics:   metrics,
	}
}

// Advance feeds the timer with the step delta and, on fire, enqueues the
// command subset for the current state: no racer yet means one spawn attempt,
// otherwise one refresh per remaining category. Each attempt is independent;
// a full channel drops the command with no retry this tick.
func (d *Dispatcher) Advance(dt time.Duration, tick uint64, racerPresent bool) {
	if d == nil || d.queues == nil {
		return
	}
	if !d.timer.Tick(dt) {
		return
	}

	if !racerPresent {
		d.record(tick, CategorySpawnRacers, d.queues.SpawnRacers.TrySend(SpawnRacersCommand{}), d.queues.SpawnRacers.Cap())
		return
	}

	d.record(tick, CategoryUpdateVehicle, d.queues.UpdateVehicle.TrySend(UpdateVehicleCommand{}), d.queues.UpdateVehicle.Cap())
	d.record(tick, CategoryDrive, d.queues.Drive.TrySend(DriveCommand{}), d.queues.Drive.Cap())
	d.record(tick, CategoryUpdateEnemies, d.queues.UpdateEnemies.TrySend(UpdateEnemiesCommand{}), d.queues.UpdateEnemies.Cap())
}

func (d *Dispatcher) record(tick uint64, category Category, err error, capacity int) {
	if err == nil {
		if d.metrics != nil {
			d.metrics.Add(metricCommandsEnqueued, 1)
		}
		return
	}
	if d.metrics != nil {
		d.metrics.Add(metricCommandsDropped, 1)
	}
	chain.CommandDropped(context.Background(), d.publisher, tick, chain.DropPayload{
		Category: string(category),
		Capacity: capacity,
	})
}
