package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/cmdgraph"
	"github.com/aretw0/cmdgraph/internal/config"
	"github.com/aretw0/cmdgraph/internal/manifest"
	httpAdapter "github.com/aretw0/cmdgraph/pkg/adapters/http"
	"github.com/aretw0/cmdgraph/pkg/adapters/memory"
	"github.com/aretw0/cmdgraph/pkg/domain"
	"github.com/aretw0/cmdgraph/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
)

// Stage is how far Start drives the host lifecycle.
type Stage string

const (
	// StagePreLoad registers the manifest's early commands only.
	StagePreLoad Stage = "preload"
	// StageEnabled also runs the checkpoint.
	StageEnabled Stage = "enabled"
	// StageLoaded also seals the host and registers late commands inline.
	StageLoaded Stage = "loaded"
)

// ParseStage validates a stage flag.
func ParseStage(s string) (Stage, error) {
	switch Stage(s) {
	case StagePreLoad, StageEnabled, StageLoaded:
		return Stage(s), nil
	}
	return "", fmt.Errorf("unknown stage %q (expected preload, enabled or loaded)", s)
}

// HostOptions configures an in-process host.
type HostOptions struct {
	Config config.Config
	Debug  bool
}

// Host is an in-process stand-in for the application that owns the
// command structures: in-memory trees and registry, seeded with the
// manifest's built-ins and foreign commands.
type Host struct {
	Engine   *cmdgraph.Engine
	Manifest *manifest.Manifest

	Exec      *memory.Tree
	Published *memory.Tree
	Registry  *memory.Registry
	Streams   *httpAdapter.StreamManager
	Metrics   *prometheus.Registry

	early, late []domain.RegisteredCommand
	closers     []func() error
	logger      *slog.Logger
}

// NewHost builds the host structures and the engine for m.
func NewHost(m *manifest.Manifest, opts HostOptions, logger *slog.Logger) (*Host, error) {
	early, late, err := m.Split()
	if err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	exec, err := memory.NewTree()
	if err != nil {
		return nil, err
	}
	published, err := memory.NewTree()
	if err != nil {
		return nil, err
	}

	h := &Host{
		Manifest:  m,
		Exec:      exec,
		Published: published,
		Registry:  memory.NewRegistry(),
		Streams:   httpAdapter.NewStreamManager(logger),
		Metrics:   prometheus.NewRegistry(),
		early:     early,
		late:      late,
		logger:    logger,
	}

	for _, name := range m.Builtins {
		if err := seedBuiltin(h.Exec, h.Published, h.Registry, name); err != nil {
			return nil, err
		}
	}
	for _, f := range m.Foreign {
		if err := seedForeign(h.Published, h.Registry, f.Name, f.Owner); err != nil {
			return nil, err
		}
	}

	h.Engine, err = createEngine(h, opts.Config, opts.Debug, logger)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// Start registers the manifest's commands and drives the lifecycle up to stage.
func (h *Host) Start(ctx context.Context, stage Stage) error {
	var errs []error
	for _, cmd := range h.early {
		if err := h.Engine.Register(ctx, cmd); err != nil {
			errs = append(errs, fmt.Errorf("register %q: %w", cmd.Name, err))
		}
	}
	if stage == StagePreLoad {
		return errors.Join(errs...)
	}

	if err := h.Engine.Enable(ctx); err != nil {
		errs = append(errs, fmt.Errorf("enable: %w", err))
	}
	if stage == StageEnabled {
		return errors.Join(errs...)
	}

	if err := h.Engine.Seal(ctx); err != nil {
		errs = append(errs, fmt.Errorf("seal: %w", err))
	}
	for _, cmd := range h.late {
		if err := h.Engine.Register(ctx, cmd); err != nil {
			errs = append(errs, fmt.Errorf("register %q: %w", cmd.Name, err))
		}
	}

	h.logger.Info("host started", "phase", h.Engine.Phase(), "commands", len(h.Engine.Commands()))
	return errors.Join(errs...)
}

// Handler exposes the engine over HTTP, metrics included.
func (h *Host) Handler() http.Handler {
	return httpAdapter.NewHandler(h.Engine,
		httpAdapter.WithStreams(h.Streams),
		httpAdapter.WithMetrics(observability.Handler(h.Metrics)),
		httpAdapter.WithLogger(h.logger),
	)
}

// Close disconnects SSE clients and releases backend connections.
func (h *Host) Close() error {
	h.Streams.Close()
	var errs []error
	for _, c := range h.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
