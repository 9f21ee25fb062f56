package sim

import (
	"time"

	"chain-racer/server/logging"
)

// LoopConfig tunes the fixed-timestep runner.
type LoopConfig struct {
	TickRate        int
	CatchupMaxTicks int
}

// LoopHooks let the caller observe each completed step without the loop
// depending on downstream packages.
type LoopHooks struct {
	AfterStep func(LoopStepResult)
}

// LoopStepResult describes one completed simulation step.
type LoopStepResult struct {
	Tick     uint64
	Now      time.Time
	Delta    float64
	Duration time.Duration
	Budget   time.Duration
	Snapshot Snapshot
}

// Loop owns the world and its bridge and drives them at a fixed rate. The
// loop goroutine is the only place world state is touched; it never blocks
// on network I/O.
type Loop struct {
	world  *World
	bridge *Bridge
	cfg    LoopConfig
	hooks  LoopHooks
	clock  logging.Clock
}

// NewLoop wires a world and bridge into a runnable loop.
func NewLoop(world *World, bridge *Bridge, cfg LoopConfig, hooks LoopHooks) *Loop {
	return &Loop{
		world:  world,
		bridge: bridge,
		cfg:    cfg,
		hooks:  hooks,
		clock:  logging.SystemClock{},
	}
}

// SetClock overrides the loop clock; tests use it to pin time.
func (l *Loop) SetClock(clock logging.Clock) {
	if l == nil || clock == nil {
		return
	}
	l.clock = clock
}

// Advance executes a single step: drain bridge closures, then step the world.
func (l *Loop) Advance(now time.Time, dt float64) LoopStepResult {
	if l == nil {
		return LoopStepResult{}
	}
	l.bridge.Drain(l.world)
	l.world.Step(dt)
	return LoopStepResult{
		Tick:     l.world.Tick(),
		Now:      now,
		Delta:    dt,
		Snapshot: l.world.Snapshot(),
	}
}

// Run drives the fixed-timestep loop until the stop channel closes.
func (l *Loop) Run(stop <-chan struct{}) {
	if l == nil {
		return
	}
	tickRate := l.cfg.TickRate
	if tickRate <= 0 {
		tickRate = 15
	}
	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()

	budgetSeconds := 1.0 / float64(tickRate)
	maxDt := budgetSeconds
	if l.cfg.CatchupMaxTicks > 1 {
		maxDt = budgetSeconds * float64(l.cfg.CatchupMaxTicks)
	}
	budgetDuration := time.Second / time.Duration(tickRate)

	last := l.clock.Now()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			now := l.clock.Now()
			dt := now.Sub(last).Seconds()
			if dt <= 0 {
				dt = budgetSeconds
			} else if dt > maxDt {
				dt = maxDt
			}
			last = now

			start := l.clock.Now()
			result := l.Advance(now, dt)
			result.Duration = l.clock.Now().Sub(start)
			result.Budget = budgetDuration

			if l.hooks.AfterStep != nil {
				l.hooks.AfterStep(result)
			}
		}
	}
}
