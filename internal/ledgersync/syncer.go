package ledgersync

import (
	"context"
	"fmt"
	"sync"

	"chain-racer/server/internal/ledger"
	"chain-racer/server/internal/sim"
	"chain-racer/server/internal/telemetry"
	"chain-racer/server/logging"
	"chain-racer/server/logging/chain"
)

// Ledger names of the systems and components the workers speak to.
const (
	systemSpawnRacer  = "spawn_racer"
	systemDrive       = "drive"
	componentVehicle  = "Vehicle"
	componentPosition = "Position"
)

// Config carries the sync-facing game parameters.
type Config struct {
	// ModelName is the configured racer model, encoded as a short string when
	// spawning.
	ModelName string
	// EnemyCount is how many enemy positions each refresh polls.
	EnemyCount int
	// SpawnSeed overrides the randomized spawn seed; tests pin it. Nil means
	// ledger.RandFixedSeed.
	SpawnSeed func() ledger.FieldValue
}

// Syncer owns the four category workers. Each worker holds the exclusive
// receive side of its queue, resolves its ledger handle once at bootstrap,
// and then processes one command to completion at a time: the round trip and
// any bridge callback finish before the next command is accepted.
type Syncer struct {
	resolver  Resolver
	bridge    MainThread
	queues    *Queues
	cfg       Config
	modelID   ledger.FieldValue
	spawnSeed func() ledger.FieldValue
	publisher logging.Publisher
	metrics   telemetry.Metrics

	wg sync.WaitGroup
}

// NewSyncer validates the model name and wires the workers' dependencies.
func NewSyncer(resolver Resolver, bridge MainThread, queues *Queues, cfg Config, publisher logging.Publisher, metrics telemetry.Metrics) (*Syncer, error) {
	if resolver == nil {
		return nil, fmt.Errorf("syncer: nil resolver")
	}
	if bridge == nil {
		return nil, fmt.Errorf("syncer: nil bridge")
	}
	if queues == nil {
		return nil, fmt.Errorf("syncer: nil queues")
	}
	modelID, err := ledger.ShortString(cfg.ModelName)
	if err != nil {
		return nil, fmt.Errorf("syncer: model name: %w", err)
	}
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	seed := cfg.SpawnSeed
	if seed == nil {
		seed = ledger.RandFixedSeed
	}
	return &Syncer{
		resolver:  resolver,
		bridge:    bridge,
		queues:    queues,
		cfg:       cfg,
		modelID:   modelID,
		spawnSeed: seed,
		publisher: publisher,
		metrics:   metrics,
	}, nil
}

// Start launches one goroutine per category. ctx bounds the ledger calls and
// bridge waits; closing the queues is the teardown path for the loops
// themselves.
func (s *Syncer) Start(ctx context.Context) {
	if s == nil {
		return
	}
	s.wg.Add(4)
	go s.runSpawnRacers(ctx)
	go s.runDrive(ctx)
	go s.runUpdateVehicle(ctx)
	go s.runUpdateEnemies(ctx)
}

// Stop closes the command queues and waits for every worker to exit.
func (s *Syncer) Stop() {
	if s == nil {
		return
	}
	s.queues.Close()
	s.wg.Wait()
}

func (s *Syncer) runSpawnRacers(ctx context.Context) {
	defer s.wg.Done()
	system, ok := s.bootstrapSystem(ctx, CategorySpawnRacers, systemSpawnRacer)
	if !ok {
		return
	}
	for {
		if _, open := s.queues.SpawnRacers.Receive(); !open {
			s.stopped(ctx, CategorySpawnRacers, "closed")
			return
		}
		args := []ledger.FieldValue{s.modelID, s.spawnSeed(), ledger.Zero, ledger.Zero, ledger.Zero}
		if !s.call(ctx, CategorySpawnRacers, systemSpawnRacer, func() error {
			return system.Execute(ctx, args)
		}) {
			continue
		}
		// Both spawn events land in a single closure so the world observes
		// them atomically.
		s.emit(ctx, func(w *sim.World) {
			w.QueueEvent(sim.SpawnEnemies{})
			w.QueueEvent(sim.SpawnCar{})
		})
	}
}

func (s *Syncer) runDrive(ctx context.Context) {
	defer s.wg.Done()
	system, ok := s.bootstrapSystem(ctx, CategoryDrive, systemDrive)
	if !ok {
		return
	}
	for {
		if _, open := s.queues.Drive.Receive(); !open {
			s.stopped(ctx, CategoryDrive, "closed")
			return
		}
		modelID, present, err := s.racerModelID(ctx)
		if err != nil || !present {
			continue
		}
		s.call(ctx, CategoryDrive, systemDrive, func() error {
			return system.Execute(ctx, []ledger.FieldValue{modelID})
		})
	}
}

func (s *Syncer) runUpdateVehicle(ctx context.Context) {
	defer s.wg.Done()
	component, ok := s.bootstrapComponent(ctx, CategoryUpdateVehicle, componentVehicle)
	if !ok {
		return
	}
	for {
		if _, open := s.queues.UpdateVehicle.Receive(); !open {
			s.stopped(ctx, CategoryUpdateVehicle, "closed")
			return
		}
		modelID, present, err := s.racerModelID(ctx)
		if err != nil || !present {
			continue
		}
		var vehicle ledger.Record
		if !s.call(ctx, CategoryUpdateVehicle, componentVehicle, func() error {
			var qerr error
			vehicle, qerr = component.Entity(ctx, ledger.Zero, []ledger.FieldValue{modelID})
			return qerr
		}) {
			continue
		}
		s.emit(ctx, func(w *sim.World) {
			w.QueueEvent(sim.UpdateCar{Vehicle: vehicle})
		})
	}
}

func (s *Syncer) runUpdateEnemies(ctx context.Context) {
	defer s.wg.Done()
	component, ok := s.bootstrapComponent(ctx, CategoryUpdateEnemies, componentPosition)
	if !ok {
		return
	}
	for {
		if _, open := s.queues.UpdateEnemies.Receive(); !open {
			s.stopped(ctx, CategoryUpdateEnemies, "closed")
			return
		}
		modelID, present, err := s.racerModelID(ctx)
		if err != nil || !present {
			continue
		}
		// TODO: fold these into one multi-entity query when the ledger
		// exposes a batched component read.
		for i := 0; i < s.cfg.EnemyCount; i++ {
			enemyID := i
			var position ledger.Record
			if !s.call(ctx, CategoryUpdateEnemies, componentPosition, func() error {
				var qerr error
				position, qerr = component.Entity(ctx, ledger.Zero, []ledger.FieldValue{modelID, ledger.FieldFromUint64(uint64(enemyID))})
				return qerr
			}) {
				continue
			}
			s.emit(ctx, func(w *sim.World) {
				w.QueueEvent(sim.UpdateEnemy{Position: position, EnemyID: enemyID})
			})
		}
	}
}

// racerModelID reads the racer's model id from live world state through the
// bridge. The id is never cached: the racer may not exist yet, and its
// absence is an expected precondition, not an error.
func (s *Syncer) racerModelID(ctx context.Context) (ledger.FieldValue, bool, error) {
	var id ledger.FieldValue
	var present bool
	err := s.bridge.Submit(ctx, func(w *sim.World) {
		id, present = w.RacerModelID()
	})
	return id, present, err
}

// call runs one ledger round trip, logging and counting failures. It returns
// true on success; the worker loop continues either way.
func (s *Syncer) call(ctx context.Context, category Category, op string, fn func() error) bool {
	if s.metrics != nil {
		s.metrics.Add(metricCallsTotal, 1)
	}
	if err := fn(); err != nil {
		if s.metrics != nil {
			s.metrics.Add(metricCallErrors, 1)
		}
		chain.CallFailed(ctx, s.publisher, chain.CallPayload{
			Category: string(category),
			Op:       op,
			Error:    err.Error(),
		})
		return false
	}
	return true
}

// emit pushes world events through the bridge, waiting for the closure to
// run. A failed submit only happens on shutdown; the counter is skipped.
func (s *Syncer) emit(ctx context.Context, fn func(*sim.World)) {
	if err := s.bridge.Submit(ctx, fn); err != nil {
		return
	}
	if s.metrics != nil {
		s.metrics.Add(metricEventsBridged, 1)
	}
}

func (s *Syncer) bootstrapSystem(ctx context.Context, category Category, name string) (SystemCaller, bool) {
	system, err := s.resolver.System(ctx, name)
	if err != nil {
		s.stopped(ctx, category, err.Error())
		return nil, false
	}
	s.started(ctx, category)
	return system, true
}

func (s *Syncer) bootstrapComponent(ctx context.Context, category Category, name string) (ComponentReader, bool) {
	component, err := s.resolver.Component(ctx, name)
	if err != nil {
		s.stopped(ctx, category, err.Error())
		return nil, false
	}
	s.started(ctx, category)
	return component, true
}

func (s *Syncer) started(ctx context.Context, category Category) {
	chain.WorkerStarted(ctx, s.publisher, chain.WorkerPayload{Category: string(category)})
}

func (s *Syncer) stopped(ctx context.Context, category Category, reason string) {
	chain.WorkerStopped(ctx, s.publisher, chain.WorkerPayload{Category: string(category), Reason: reason})
}
