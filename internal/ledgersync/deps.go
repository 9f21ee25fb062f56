package ledgersync

import (
	"context"

	"chain-racer/server/internal/ledger"
	"chain-racer/server/internal/sim"
)

// SystemCaller executes a resolved ledger system with ordered calldata.
type SystemCaller interface {
	Execute(ctx context.Context, args []ledger.FieldValue) error
}

// ComponentReader queries a resolved ledger component by entity key.
type ComponentReader interface {
	Entity(ctx context.Context, partition ledger.FieldValue, keys []ledger.FieldValue) (ledger.Record, error)
}

// Resolver looks up system and component handles on the world contract.
// Workers resolve once at bootstrap and hold the handle for their lifetime.
type Resolver interface {
	System(ctx context.Context, name string) (SystemCaller, error)
	Component(ctx context.Context, name string) (ComponentReader, error)
}

// MainThread submits a closure for exclusive execution against the world on
// the simulation goroutine, blocking until it completes. *sim.Bridge
// satisfies it.
type MainThread interface {
	Submit(ctx context.Context, fn func(*sim.World)) error
}

// worldResolver adapts the concrete ledger world to the Resolver interface.
type worldResolver struct {
	world *ledger.World
}

// NewWorldResolver wraps a ledger world contract handle.
func NewWorldResolver(world *ledger.World) Resolver {
	return worldResolver{world: world}
}

func (r worldResolver) System(ctx context.Context, name string) (SystemCaller, error) {
	return r.world.System(ctx, name)
}

func (r worldResolver) Component(ctx context.Context, name string) (ComponentReader, error) {
	return r.world.Component(ctx, name)
}
