package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/circuitlab"
	"github.com/aretw0/circuitlab/internal/adapters/file"
	"github.com/aretw0/circuitlab/internal/config"
	"github.com/aretw0/circuitlab/pkg/adapters/badger"
	loamadapter "github.com/aretw0/circuitlab/pkg/adapters/loam"
	"github.com/aretw0/circuitlab/pkg/adapters/memory"
	redisadapter "github.com/aretw0/circuitlab/pkg/adapters/redis"
	"github.com/aretw0/circuitlab/pkg/challenge"
	"github.com/aretw0/circuitlab/pkg/observability"
	"github.com/aretw0/circuitlab/pkg/ports"
	"github.com/aretw0/circuitlab/pkg/sandbox"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// App carries the configuration-derived dependencies shared by the commands.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Registry *prometheus.Registry
	Metrics  *observability.Metrics
	Debug    bool
}

// NewApp builds the logger and the metrics registry for cfg.
func NewApp(cfg *config.Config, debug bool) (*App, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	return &App{
		Config:   cfg,
		Logger:   NewLogger(debug, cfg.Log.Level),
		Registry: reg,
		Metrics:  metrics,
		Debug:    debug,
	}, nil
}

// GraphOptions maps the engine section of the config onto circuitlab options.
// Metrics hooks are always installed; debug mode adds log hooks.
func (a *App) GraphOptions() []circuitlab.Option {
	hooks := a.Metrics.Hooks()
	if a.Debug {
		hooks = observability.Chain(hooks, observability.LogHooks(a.Logger))
	}

	e := a.Config.Engine
	return []circuitlab.Option{
		circuitlab.WithLogger(a.Logger),
		circuitlab.WithLifecycleHooks(hooks),
		circuitlab.WithSnapThreshold(e.SnapThreshold),
		circuitlab.WithStepLimit(e.StepLimit),
		circuitlab.WithNominalVoltage(e.NominalVoltage),
		circuitlab.WithMergeMode(circuitlab.ParseMergeMode(e.MergeMode)),
	}
}

// OpenStore opens the layout store selected by store.driver. The returned close func
// releases the backend and is never nil. Redis also yields a distributed locker.
func (a *App) OpenStore() (ports.LayoutStore, ports.DistributedLocker, func() error, error) {
	sc := a.Config.Store
	noop := func() error { return nil }

	switch sc.Driver {
	case config.DriverMemory, "":
		return memory.NewStore(), nil, noop, nil

	case config.DriverFile:
		return file.New(sc.Path), nil, noop, nil

	case config.DriverRedis:
		ttl, err := sc.Redis.TTLDuration()
		if err != nil {
			return nil, nil, nil, err
		}
		opts := []redisadapter.Option{redisadapter.WithTTL(ttl)}
		lockPrefix := "circuitlab:"
		if sc.Redis.Prefix != "" {
			opts = append(opts, redisadapter.WithPrefix(sc.Redis.Prefix))
			lockPrefix = sc.Redis.Prefix
		}
		store := redisadapter.New(sc.Redis.Addr, sc.Redis.Password, sc.Redis.DB, opts...)
		return store, redisadapter.NewLocker(store.Client(), lockPrefix), store.Close, nil

	case config.DriverBadger:
		store, err := badger.Open(badger.Config{
			Path:       sc.Path,
			InMemory:   sc.Badger.InMemory,
			SyncWrites: sc.Badger.SyncWrites,
			Logger:     a.Logger,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to open badger store: %w", err)
		}
		return store, nil, store.Close, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown store driver %q", sc.Driver)
	}
}

// SandboxManager opens the configured store and wraps it in a sandbox manager.
func (a *App) SandboxManager() (*sandbox.Manager, func() error, error) {
	store, locker, closeFn, err := a.OpenStore()
	if err != nil {
		return nil, nil, err
	}

	opts := []sandbox.Option{
		sandbox.WithLogger(a.Logger),
		sandbox.WithGraphOptions(a.GraphOptions()...),
	}
	if locker != nil {
		opts = append(opts, sandbox.WithLocker(locker), sandbox.WithLockTTL(30*time.Second))
	}
	return sandbox.NewManager(store, opts...), closeFn, nil
}

// Leaderboard returns the Redis leaderboard when the store driver is redis, so scores
// outlive the process; every other driver ranks in memory.
func (a *App) Leaderboard() (ports.Leaderboard, func() error, error) {
	sc := a.Config.Store
	if sc.Driver != config.DriverRedis {
		return memory.NewLeaderboard(), func() error { return nil }, nil
	}

	prefix := ""
	if sc.Redis.Prefix != "" {
		prefix = sc.Redis.Prefix + "leaderboard:"
	}
	store := redisadapter.New(sc.Redis.Addr, sc.Redis.Password, sc.Redis.DB)
	return redisadapter.NewLeaderboard(store.Client(), prefix), store.Close, nil
}

// Catalog returns the loam catalog of challenges.dir, or the built-in challenges when no
// directory is configured.
func (a *App) Catalog(ctx context.Context) (ports.ChallengeCatalog, error) {
	if dir := a.Config.Challenges.Dir; dir != "" {
		catalog, err := loamadapter.Open(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to open challenges at %s: %w", dir, err)
		}
		a.Logger.DebugContext(ctx, "Loaded challenge catalog", "dir", dir)
		return catalog, nil
	}
	return memory.NewCatalog(challenge.Builtin()...)
}
