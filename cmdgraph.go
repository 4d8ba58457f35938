package cmdgraph

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/aretw0/cmdgraph/internal/runtime"
	"github.com/aretw0/cmdgraph/pkg/adapters/memory"
	"github.com/aretw0/cmdgraph/pkg/domain"
	"github.com/aretw0/cmdgraph/pkg/ports"
)

// Engine is the high-level entry point for the cmdgraph library.
// It wraps the internal runtime, serializes every call and fires lifecycle
// hooks once the call has released the engine.
type Engine struct {
	mu      sync.Mutex
	runtime *runtime.Engine

	exec      ports.Tree
	published ports.Tree
	registry  ports.Registry
	store     ports.PermissionStore
	helpMap   ports.HelpMap
	notifier  ports.ClientNotifier
	snapshots ports.SnapshotWriter

	hooks  domain.LifecycleHooks
	logger *slog.Logger
	Name   string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithPluginName labels the engine's registry wrappers and generated help.
func WithPluginName(name string) Option {
	return func(e *Engine) {
		e.Name = name
	}
}

// WithExecutionTree injects the host's execution tree.
func WithExecutionTree(t ports.Tree) Option {
	return func(e *Engine) {
		e.exec = t
	}
}

// WithPublishedTree injects the tree clients see.
func WithPublishedTree(t ports.Tree) Option {
	return func(e *Engine) {
		e.published = t
	}
}

// WithRegistry injects the host's name to handler registry.
func WithRegistry(r ports.Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// WithPermissionStore injects the host's permission store.
func WithPermissionStore(s ports.PermissionStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithHelpMap injects the host's help topic map.
func WithHelpMap(h ports.HelpMap) Option {
	return func(e *Engine) {
		e.helpMap = h
	}
}

// WithNotifier injects the notifier used once the host is loaded.
func WithNotifier(n ports.ClientNotifier) Option {
	return func(e *Engine) {
		e.notifier = n
	}
}

// WithSnapshotWriter injects the dispatcher snapshot writer.
func WithSnapshotWriter(w ports.SnapshotWriter) Option {
	return func(e *Engine) {
		e.snapshots = w
	}
}

// New initializes an Engine in the PreLoad phase.
// Structures not injected with an option default to in-memory adapters.
func New(opts ...Option) *Engine {
	eng := &Engine{Name: "cmdgraph"}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.exec == nil {
		eng.exec, _ = memory.NewTree()
	}
	if eng.published == nil {
		eng.published, _ = memory.NewTree()
	}
	if eng.registry == nil {
		eng.registry = memory.NewRegistry()
	}
	if eng.store == nil {
		eng.store = memory.NewPermissionStore()
	}
	if eng.helpMap == nil {
		eng.helpMap = memory.NewHelpMap()
	}

	// Ensure logger is initialized (so we don't pass nil to runtime)
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	eng.logger = eng.logger.With("plugin", eng.Name)

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
		runtime.WithPluginName(eng.Name),
		runtime.WithPermissionStore(eng.store),
		runtime.WithHelpMap(eng.helpMap),
	}
	if eng.notifier != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithNotifier(eng.notifier))
	}
	if eng.snapshots != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithSnapshotWriter(eng.snapshots))
	}

	eng.runtime = runtime.NewEngine(eng.exec, eng.published, eng.registry, runtimeOpts...)
	return eng
}

// Register declares a command. Before Enable it only touches the execution
// tree; afterwards every structure is brought in sync immediately.
func (e *Engine) Register(ctx context.Context, cmd domain.RegisteredCommand) error {
	e.mu.Lock()
	err := e.runtime.Register(ctx, cmd)
	hooks := e.runtime.Flush()
	e.mu.Unlock()

	fire(ctx, hooks)
	return err
}

// Unregister removes name within scope and returns the names that were
// actually removed. Unknown names are a no-op.
func (e *Engine) Unregister(ctx context.Context, name string, includeNamespaced bool, scope domain.Scope) ([]string, error) {
	e.mu.Lock()
	removed, err := e.runtime.Unregister(ctx, name, includeNamespaced, scope)
	hooks := e.runtime.Flush()
	e.mu.Unlock()

	fire(ctx, hooks)
	return removed, err
}

// Enable runs the synchronization checkpoint. The host calls it once,
// when the plugin is enabled.
func (e *Engine) Enable(ctx context.Context) error {
	e.mu.Lock()
	err := e.runtime.Enable(ctx)
	hooks := e.runtime.Flush()
	e.mu.Unlock()

	fire(ctx, hooks)
	return err
}

// Seal marks the host as loaded. It is the lifecycle trigger and may only
// fire once, after Enable.
func (e *Engine) Seal(ctx context.Context) error {
	e.mu.Lock()
	err := e.runtime.Seal(ctx)
	hooks := e.runtime.Flush()
	e.mu.Unlock()

	fire(ctx, hooks)
	return err
}

// Phase returns the current lifecycle phase.
func (e *Engine) Phase() domain.Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.runtime.Phase()
}

// Lookup walks the execution tree and returns the subtree at path.
func (e *Engine) Lookup(path ...string) (domain.NodeSnapshot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	n, ok := e.runtime.Graph().Lookup(path...)
	if !ok {
		return domain.NodeSnapshot{}, false
	}
	return n.Snapshot(), true
}

// Commands returns the registered commands in declaration order.
func (e *Engine) Commands() []domain.RegisteredCommand {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.runtime.Commands()
}

// Snapshot captures every structure the engine manages.
func (e *Engine) Snapshot(ctx context.Context) (domain.GraphSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.runtime.Snapshot(ctx)
}

// WriteSnapshot writes the dispatcher snapshot through the configured writer.
func (e *Engine) WriteSnapshot(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.runtime.WriteSnapshot(ctx)
}

// Registry returns the registry the engine writes to.
func (e *Engine) Registry() ports.Registry {
	return e.registry
}

// HelpMap returns the help map the engine publishes to.
func (e *Engine) HelpMap() ports.HelpMap {
	return e.helpMap
}

// Permissions returns the permission store the engine registers into.
func (e *Engine) Permissions() ports.PermissionStore {
	return e.store
}

func fire(ctx context.Context, hooks []func(context.Context)) {
	for _, h := range hooks {
		h(ctx)
	}
}
