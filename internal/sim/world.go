package sim

import (
	"chain-racer/server/internal/ledger"
	"chain-racer/server/internal/telemetry"
	"chain-racer/server/internal/transcode"
)

// WorldConfig fixes the world's ledger-facing parameters at construction.
type WorldConfig struct {
	ModelID    ledger.FieldValue
	EnemyCount int
	Transform  transcode.Transform
}

// Racer is the player's car. Its model id correlates it with the remote
// racer entity.
type Racer struct {
	ModelID ledger.FieldValue
	X       float64
	Y       float64
}

// Enemy is one ledger-driven opponent, addressed by its index.
type Enemy struct {
	ID int
	X  float64
	Y  float64
}

// World holds the simulation state. It is single-threaded by contract: only
// the loop goroutine may touch it, either directly during a step or through
// a bridge closure.
type World struct {
	cfg    WorldConfig
	logger telemetry.Logger

	tick    uint64
	racer   *Racer
	enemies []*Enemy
	pending []Event
}

// NewWorld constructs an empty world; the racer and enemies appear only once
// the ledger confirms the spawn.
func NewWorld(cfg WorldConfig, logger telemetry.Logger) *World {
	return &World{cfg: cfg, logger: logger}
}

// RacerModelID reports the racer's model id, looked up fresh from live state.
// It returns false while no racer entity exists.
func (w *World) RacerModelID() (ledger.FieldValue, bool) {
	if w == nil || w.racer == nil {
		return ledger.FieldValue{}, false
	}
	return w.racer.ModelID, true
}

// RacerPresent reports whether the racer entity exists.
func (w *World) RacerPresent() bool {
	return w != nil && w.racer != nil
}

// QueueEvent stages a downstream event for the next step. Must be called on
// the simulation goroutine (directly or via the bridge).
func (w *World) QueueEvent(ev Event) {
	if w == nil || ev == nil {
		return
	}
	w.pending = append(w.pending, ev)
}

// Step advances the world one tick, applying every staged event in order.
func (w *World) Step(dt float64) {
	if w == nil {
		return
	}
	w.tick++
	if len(w.pending) == 0 {
		return
	}
	staged := w.pending
	w.pending = nil
	for _, ev := range staged {
		w.apply(ev)
	}
}

func (w *World) apply(ev Event) {
	switch e := ev.(type) {
	case SpawnCar:
		w.spawnRacer()
	case SpawnEnemies:
		w.spawnEnemies()
	case UpdateCar:
		w.updateRacer(e.Vehicle)
	case UpdateEnemy:
		w.updateEnemy(e.EnemyID, e.Position)
	default:
		w.logf("ignoring unknown event %q", ev.kind())
	}
}

func (w *World) spawnRacer() {
	if w.racer != nil {
		return
	}
	x, y := w.cfg.Transform.Apply(0, 0)
	w.racer = &Racer{ModelID: w.cfg.ModelID, X: x, Y: y}
}

func (w *World) spawnEnemies() {
	if len(w.enemies) > 0 {
		return
	}
	// Spawned at the track origin: the remote positions are unknown until the
	// first position sync lands.
	x, y := w.cfg.Transform.Apply(0, 0)
	w.enemies = make([]*Enemy, 0, w.cfg.EnemyCount)
	for i := 0; i < w.cfg.EnemyCount; i++ {
		w.enemies = append(w.enemies, &Enemy{ID: i, X: x, Y: y})
	}
}

func (w *World) updateRacer(vehicle ledger.Record) {
	if w.racer == nil {
		return
	}
	x, y, ok := w.recordPoint(vehicle)
	if !ok {
		w.logf("vehicle record too short: %d fields", len(vehicle))
		return
	}
	w.racer.X = x
	w.racer.Y = y
}

func (w *World) updateEnemy(id int, position ledger.Record) {
	x, y, ok := w.recordPoint(position)
	if !ok {
		w.logf("position record for enemy %d too short: %d fields", id, len(position))
		return
	}
	for _, enemy := range w.enemies {
		if enemy.ID == id {
			enemy.X = x
			enemy.Y = y
			return
		}
	}
}

// recordPoint decodes the leading two fixed-point fields of a record and maps
// them into simulation space.
func (w *World) recordPoint(rec ledger.Record) (float64, float64, bool) {
	if len(rec) < 2 {
		return 0, 0, false
	}
	x := transcode.FixedToFloat(rec[0])
	y := transcode.FixedToFloat(rec[1])
	x, y = w.cfg.Transform.Apply(x, y)
	return x, y, true
}

func (w *World) logf(format string, args ...any) {
	if w.logger == nil {
		return
	}
	w.logger.Printf(format, args...)
}

// Tick reports the current tick counter.
func (w *World) Tick() uint64 {
	if w == nil {
		return 0
	}
	return w.tick
}

// Snapshot copies the visible world state for broadcasting.
func (w *World) Snapshot() Snapshot {
	if w == nil {
		return Snapshot{}
	}
	snap := Snapshot{Tick: w.tick, Enemies: make([]EnemySnapshot, 0, len(w.enemies))}
	if w.racer != nil {
		snap.Racer = &RacerSnapshot{ModelID: w.racer.ModelID.String(), X: w.racer.X, Y: w.racer.Y}
	}
	for _, enemy := range w.enemies {
		snap.Enemies = append(snap.Enemies, EnemySnapshot{ID: enemy.ID, X: enemy.X, Y: enemy.Y})
	}
	return snap
}

// Snapshot is an immutable copy of the world for subscribers.
type Snapshot struct {
	Tick    uint64          `json:"tick"`
	Racer   *RacerSnapshot  `json:"racer,omitempty"`
	Enemies []EnemySnapshot `json:"enemies"`
}

// RacerSnapshot is the racer's broadcast view.
type RacerSnapshot struct {
	ModelID string  `json:"modelId"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

// EnemySnapshot is one enemy's broadcast view.
type EnemySnapshot struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// RacerPresent reports whether the snapshot contains a racer.
func (s Snapshot) RacerPresent() bool {
	return s.Racer != nil
}
