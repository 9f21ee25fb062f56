// Package ledgersync bridges the frame-stepped simulation and the async
// ledger workers: a timer-driven dispatcher enqueues poll commands into
// bounded per-category channels, and one long-lived worker per category
// drains them, speaks to the ledger, and applies results through the
// main-thread bridge.
package ledgersync

// Category names one command channel and its worker.
type Category string

const (
	CategorySpawnRacers   Category = "spawn_racers"
	CategoryDrive         Category = "drive"
	CategoryUpdateVehicle Category = "update_vehicle"
	CategoryUpdateEnemies Category = "update_enemies"
)

// Channel capacities. Spawn and drive are small: a backlog of stale spawn or
// drive polls has no value. The read categories get more headroom so a slow
// block doesn't immediately shed every refresh.
const (
	spawnRacersCapacity   = 8
	driveCapacity         = 8
	updateVehicleCapacity = 16
	updateEnemiesCapacity = 16
)

// Commands are pure triggers; every input they need is resolved fresh by the
// worker at execution time.
type (
	SpawnRacersCommand   struct{}
	DriveCommand         struct{}
	UpdateVehicleCommand struct{}
	UpdateEnemiesCommand struct{}
)

// Queues bundles the four category channels. Created once at startup; the
// dispatcher holds the send side, each worker owns its receive side for its
// entire lifetime.
type Queues struct {
	SpawnRacers   *Queue[SpawnRacersCommand]
	Drive         *Queue[DriveCommand]
	UpdateVehicle *Queue[UpdateVehicleCommand]
	UpdateEnemies *Queue[UpdateEnemiesCommand]
}

// NewQueues builds the channel set with the fixed per-category capacities.
func NewQueues() *Queues {
	return &Queues{
		SpawnRacers:   NewQueue[SpawnRacersCommand](spawnRacersCapacity),
		Drive:         NewQueue[DriveCommand](driveCapacity),
		UpdateVehicle: NewQueue[UpdateVehicleCommand](updateVehicleCapacity),
		UpdateEnemies: NewQueue[UpdateEnemiesCommand](updateEnemiesCapacity),
	}
}

// Close closes every channel, ending each worker's receive loop. Senders must
// already be stopped.
func (q *Queues) Close() {
	if q == nil {
		return
	}
	q.SpawnRacers.Close()
	q.Drive.Close()
	q.UpdateVehicle.Close()
	q.UpdateEnemies.Close()
}
