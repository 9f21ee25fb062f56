package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	server "chain-racer/server"
	"chain-racer/server/internal/config"
	"chain-racer/server/internal/ledger"
	"chain-racer/server/internal/ledgersync"
	servernet "chain-racer/server/internal/net"
	"chain-racer/server/internal/sim"
	"chain-racer/server/internal/telemetry"
	"chain-racer/server/internal/transcode"
	"chain-racer/server/logging"
	loggingSinks "chain-racer/server/logging/sinks"
)

// Options carries the entrypoint inputs.
type Options struct {
	// ConfigPath is an optional YAML config file.
	ConfigPath string
	Logger     telemetry.Logger
}

// Run wires the whole server together and blocks until ctx is cancelled or
// the HTTP listener fails.
func Run(ctx context.Context, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = telemetry.WrapLogger(log.Default())
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	logConfig := logging.DefaultConfig()
	var namedSinks []logging.NamedSink
	if logConfig.HasSink("console") {
		namedSinks = append(namedSinks, logging.NamedSink{Name: "console", Sink: loggingSinks.NewConsoleSink(os.Stdout, logConfig.Console)})
	}
	if logConfig.HasSink("memory") {
		namedSinks = append(namedSinks, logging.NamedSink{Name: "memory", Sink: loggingSinks.NewMemorySink()})
	}
	router, err := logging.NewRouter(logging.SystemClock{}, logConfig, namedSinks)
	if err != nil {
		return fmt.Errorf("construct logging router: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if cerr := router.Close(closeCtx); cerr != nil {
			logger.Printf("failed to close logging router: %v", cerr)
		}
	}()
	metrics := telemetry.WrapMetrics(router.Metrics())

	env, err := buildLedgerEnv(cfg)
	if err != nil {
		return err
	}

	modelID, err := ledger.ShortString(cfg.ModelName)
	if err != nil {
		return fmt.Errorf("model name: %w", err)
	}
	world := sim.NewWorld(sim.WorldConfig{
		ModelID:    modelID,
		EnemyCount: cfg.EnemyCount,
		Transform:  transcode.Transform{ScaleX: cfg.ScaleX, ScaleY: cfg.ScaleY, OffsetX: cfg.OffsetX},
	}, logger)
	bridge := sim.NewBridge(0)
	hub := server.NewHub(logger)

	queues := ledgersync.NewQueues()
	dispatcher := ledgersync.NewDispatcher(cfg.SyncInterval.Std(), queues, router, metrics)
	syncer, err := ledgersync.NewSyncer(
		ledgersync.NewWorldResolver(env.World()),
		bridge,
		queues,
		ledgersync.Config{ModelName: cfg.ModelName, EnemyCount: cfg.EnemyCount},
		router,
		metrics,
	)
	if err != nil {
		return err
	}

	loop := sim.NewLoop(world, bridge, sim.LoopConfig{
		TickRate:        cfg.TickRate,
		CatchupMaxTicks: cfg.CatchupMaxTicks,
	}, sim.LoopHooks{
		AfterStep: func(result sim.LoopStepResult) {
			dispatcher.Advance(time.Duration(result.Delta*float64(time.Second)), result.Tick, result.Snapshot.RacerPresent())
			hub.RecordTickDuration(result.Duration)
			hub.Broadcast(result.Snapshot)
		},
	})

	syncCtx, cancelSync := context.WithCancel(ctx)
	syncer.Start(syncCtx)

	stop := make(chan struct{})
	loopDone := make(chan struct{})
	go func() {
		loop.Run(stop)
		close(loopDone)
	}()

	handler := servernet.NewHTTPHandler(hub, servernet.HTTPHandlerConfig{
		Logger:      logger,
		Counters:    router.Metrics(),
		RouterStats: router.Stats,
	})
	srv := &http.Server{Addr: cfg.ListenAddr, Handler: handler}
	logger.Printf("server listening on %s", srv.Addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	var runErr error
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Printf("http shutdown: %v", err)
		}
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			runErr = fmt.Errorf("server failed: %w", err)
		}
	}

	// Teardown order matters: halt the loop so the dispatcher stops sending,
	// unblock any worker parked on the bridge, then close the queues.
	close(stop)
	<-loopDone
	cancelSync()
	syncer.Stop()

	return runErr
}

func buildLedgerEnv(cfg config.Config) (*ledger.Env, error) {
	account, err := ledger.ParseField(cfg.AccountAddress)
	if err != nil {
		return nil, fmt.Errorf("account address: %w", err)
	}
	secret, err := ledger.ParseField(cfg.AccountSecret)
	if err != nil {
		return nil, fmt.Errorf("account secret: %w", err)
	}
	worldAddr, err := ledger.ParseField(cfg.WorldAddress)
	if err != nil {
		return nil, fmt.Errorf("world address: %w", err)
	}
	return ledger.NewEnv(ledger.EnvConfig{
		Endpoint:     cfg.LedgerEndpoint,
		Account:      ledger.Identity{Address: account, Secret: secret},
		WorldAddress: worldAddr,
		Block:        ledger.BlockLatest,
	})
}
