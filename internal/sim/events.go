package sim

import "chain-racer/server/internal/ledger"

// Event is a downstream state change produced by the sync workers and applied
// to the world on the simulation goroutine.
type Event interface {
	kind() string
}

// SpawnCar asks the world to create the player's racer.
type SpawnCar struct{}

// SpawnEnemies asks the world to create the configured enemy set. Positions
// are unknown until the first position sync lands.
type SpawnEnemies struct{}

// UpdateCar carries the raw vehicle record read from the ledger.
type UpdateCar struct {
	Vehicle ledger.Record
}

// UpdateEnemy carries the raw position record for one enemy index.
type UpdateEnemy struct {
	Position ledger.Record
	EnemyID  int
}

func (SpawnCar) kind() string     { return "spawn_car" }
func (SpawnEnemies) kind() string { return "spawn_enemies" }
func (UpdateCar) kind() string    { return "update_car" }
func (UpdateEnemy) kind() string  { return "update_enemy" }
