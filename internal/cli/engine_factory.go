package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/cmdgraph"
	"github.com/aretw0/cmdgraph/internal/config"
	"github.com/aretw0/cmdgraph/pkg/adapters/file"
	"github.com/aretw0/cmdgraph/pkg/adapters/redis"
	"github.com/aretw0/cmdgraph/pkg/domain"
	"github.com/aretw0/cmdgraph/pkg/observability"
	"github.com/aretw0/cmdgraph/pkg/ports"
)

// createEngine initializes a cmdgraph engine with standard CLI conventions.
func createEngine(h *Host, cfg config.Config, debug bool, logger *slog.Logger) (*cmdgraph.Engine, error) {
	engineOpts := []cmdgraph.Option{
		cmdgraph.WithLogger(logger),
		cmdgraph.WithPluginName(h.Manifest.Plugin),
		cmdgraph.WithExecutionTree(h.Exec),
		cmdgraph.WithPublishedTree(h.Published),
		cmdgraph.WithRegistry(h.Registry),
	}

	// 1. Hooks: SSE clients and metrics always, logs in debug mode.
	metrics, err := observability.NewMetrics(h.Metrics)
	if err != nil {
		return nil, fmt.Errorf("error initializing metrics: %w", err)
	}
	hooks := []domain.LifecycleHooks{h.Streams.Hooks(), metrics.Hooks()}
	if debug {
		hooks = append(hooks, observability.LogHooks(logger))
	}
	engineOpts = append(engineOpts, cmdgraph.WithLifecycleHooks(domain.Join(hooks...)))

	// 2. Convention: Redis backs permissions, help and cross-process notifications when configured.
	notifiers := fanout{h.Streams}
	if cfg.RedisAddr != "" {
		store := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, redis.WithPrefix(cfg.RedisPrefix))
		h.closers = append(h.closers, store.Client().Close)
		notifiers = append(notifiers, redis.NewNotifier(store.Client(), cfg.RedisPrefix))
		engineOpts = append(engineOpts,
			cmdgraph.WithPermissionStore(store),
			cmdgraph.WithHelpMap(store),
		)
		logger.Info("using redis", "addr", cfg.RedisAddr, "prefix", cfg.RedisPrefix)
	}
	var notifier ports.ClientNotifier = notifiers
	engineOpts = append(engineOpts, cmdgraph.WithNotifier(notifier))

	// 3. Dispatcher snapshot
	if cfg.SnapshotPath != "" {
		engineOpts = append(engineOpts, cmdgraph.WithSnapshotWriter(file.NewSnapshotWriter(cfg.SnapshotPath)))
	}

	return cmdgraph.New(engineOpts...), nil
}
