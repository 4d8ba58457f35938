package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/cmdgraph/pkg/domain"
	"github.com/aretw0/cmdgraph/pkg/ports"
)

// Engine keeps the execution tree, the published tree and the registry in
// sync for the commands one plugin declares.
//
// Engine is not safe for concurrent use. The host serializes calls.
type Engine struct {
	graph    *Graph
	fixups   *FixupSet
	resolver *Resolver
	sync     *Synchronizer
	binder   *Binder
	help     *HelpGenerator

	published ports.Tree
	registry  ports.Registry
	store     ports.PermissionStore
	helpMap   ports.HelpMap
	notifier  ports.ClientNotifier
	snapshots ports.SnapshotWriter

	phase    domain.Phase
	queue    []mirrorOp
	commands []domain.RegisteredCommand

	plugin string
	hooks  domain.LifecycleHooks
	logger *slog.Logger
	now    func() time.Time
	outbox []func(context.Context)
}

// EngineOption configures the runtime engine.
type EngineOption func(*Engine)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithPluginName labels wrappers and generated help.
func WithPluginName(name string) EngineOption {
	return func(e *Engine) {
		e.plugin = name
	}
}

// WithPermissionStore sets where named permissions are registered.
func WithPermissionStore(store ports.PermissionStore) EngineOption {
	return func(e *Engine) {
		e.store = store
	}
}

// WithHelpMap sets where help topics are published.
func WithHelpMap(hm ports.HelpMap) EngineOption {
	return func(e *Engine) {
		e.helpMap = hm
	}
}

// WithNotifier sets the client notifier used once the host is loaded.
func WithNotifier(n ports.ClientNotifier) EngineOption {
	return func(e *Engine) {
		e.notifier = n
	}
}

// WithSnapshotWriter sets where the dispatcher snapshot is written.
func WithSnapshotWriter(w ports.SnapshotWriter) EngineOption {
	return func(e *Engine) {
		e.snapshots = w
	}
}

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an engine in the PreLoad phase over the host's structures.
func NewEngine(exec, published ports.Tree, registry ports.Registry, opts ...EngineOption) *Engine {
	e := &Engine{
		published: published,
		registry:  registry,
		plugin:    "cmdgraph",
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.graph = NewGraph(exec)
	e.fixups = NewFixupSet()
	e.resolver = NewResolver(e.graph, e.fixups, e.logger)
	e.sync = NewSynchronizer(e.graph, published, registry, e.plugin, e.logger)
	e.binder = NewBinder(e.store, e.logger)
	e.help = NewHelpGenerator(registry, e.plugin)
	return e
}

// Phase returns the current lifecycle phase.
func (e *Engine) Phase() domain.Phase {
	return e.phase
}

// Graph exposes the execution tree view.
func (e *Engine) Graph() *Graph {
	return e.graph
}

// Commands returns the registered commands in declaration order.
func (e *Engine) Commands() []domain.RegisteredCommand {
	out := make([]domain.RegisteredCommand, len(e.commands))
	copy(out, e.commands)
	return out
}

// Register places cmd and its aliases in the execution tree. Before the
// checkpoint the mirror work is queued; afterwards it runs inline.
//
// Invariant violations are returned before anything is mutated where they can
// be detected up front. Adapter failures are returned after the structural
// edit has been committed.
func (e *Engine) Register(ctx context.Context, cmd domain.RegisteredCommand) error {
	if cmd.Name == "" {
		return domain.ErrEmptyName
	}
	if err := cmd.Permission.Validate(); err != nil {
		return fmt.Errorf("invalid permission for %q: %w", cmd.Name, err)
	}
	for _, alias := range cmd.Aliases {
		if alias == "" {
			return fmt.Errorf("empty alias for %q: %w", cmd.Name, domain.ErrEmptyName)
		}
	}

	e.preRegistration(cmd.Name)
	cmd.Namespace = e.resolver.Namespace(cmd.Name, cmd.Namespace)

	var errs []error
	if err := e.binder.Register(ctx, cmd.Permission); err != nil {
		e.logger.Warn("permission store failed", "command", cmd.Name, "error", err)
		errs = append(errs, err)
	}

	root := cmd.Build(domain.OriginEngine)
	nodes := []*domain.CommandNode{root}
	for _, alias := range cmd.Aliases {
		nodes = append(nodes, root.Renamed(alias))
	}

	ops := make([]mirrorOp, 0, len(nodes))
	for _, node := range nodes {
		p, err := e.resolver.Place(node, cmd.Permission)
		if err != nil {
			return errors.Join(append(errs, fmt.Errorf("failed to place %q: %w", node.Name, err))...)
		}
		ops = append(ops, mirrorOp{placement: p, permission: cmd.Permission})
	}
	e.commands = append(e.commands, cmd)

	mode := domain.SyncQueued
	if e.phase.Synced() {
		mode = domain.SyncInline
		if err := e.syncInline(ctx, ops, e.sharingName(cmd.Name)); err != nil {
			errs = append(errs, err)
		}
	} else {
		e.queue = append(e.queue, ops...)
	}

	e.logger.Debug("command registered", "command", cmd.Name, "namespace", cmd.Namespace, "mode", mode)
	e.emitCommand(domain.EventRegister, &domain.CommandEvent{Name: cmd.Name, Namespace: cmd.Namespace, Mode: mode})
	return errors.Join(errs...)
}

// syncInline performs the checkpoint work for a single registration.
func (e *Engine) syncInline(ctx context.Context, ops []mirrorOp, cmds []domain.RegisteredCommand) error {
	var errs []error
	var binds []binding
	for _, op := range ops {
		binds = append(binds, e.sync.MirrorInsert(op)...)
	}
	drained, err := e.drain()
	if err != nil {
		errs = append(errs, err)
	}
	binds = append(binds, drained...)
	if err := e.binder.BindAll(binds); err != nil {
		errs = append(errs, err)
	}
	if err := e.publishHelp(ctx, cmds); err != nil {
		errs = append(errs, err)
	}
	if e.phase == domain.PhaseLoaded {
		if err := e.notify(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// sharingName returns every registered command called name. Their help
// topics list each other's usage, so they are regenerated together.
func (e *Engine) sharingName(name string) []domain.RegisteredCommand {
	var out []domain.RegisteredCommand
	for _, c := range e.commands {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

func (e *Engine) drain() ([]binding, error) {
	binds, relocated, err := e.sync.Drain(e.fixups)
	for _, name := range relocated {
		_, bare, _ := domain.SplitQualified(name)
		e.logger.Debug("command re-homed", "name", name)
		e.emitCommand(domain.EventRelocate, &domain.CommandEvent{Name: bare, Namespace: domain.ReservedNamespace})
	}
	return binds, err
}

func (e *Engine) publishHelp(ctx context.Context, cmds []domain.RegisteredCommand) error {
	if e.helpMap == nil || len(cmds) == 0 {
		return nil
	}
	topics, namespaced := e.help.Generate(cmds, e.commands)
	var errs []error
	if err := e.helpMap.PutAll(ctx, topics); err != nil {
		errs = append(errs, fmt.Errorf("failed to store help topics: %w", err))
	}
	for _, name := range namespaced {
		if err := e.helpMap.Remove(ctx, name); err != nil {
			errs = append(errs, fmt.Errorf("failed to drop help topic %q: %w", name, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		e.logger.Warn("help map update failed", "error", err)
		return err
	}
	return nil
}

func (e *Engine) notify(ctx context.Context) error {
	if e.notifier == nil {
		return nil
	}
	if err := e.notifier.NotifyAll(ctx); err != nil {
		e.logger.Warn("client notification failed", "error", err)
		return fmt.Errorf("failed to notify clients: %w", err)
	}
	return nil
}

// preRegistration warns when another actor already holds the bare name.
func (e *Engine) preRegistration(name string) {
	entry, ok := e.registry.Get(name)
	if !ok || entry.Owned() {
		return
	}
	if entry.Owner == e.plugin {
		e.logger.Warn("command is already registered by the host for this plugin; did you forget to remove it from the manifest?",
			"command", name, "owner", entry.Owner)
		return
	}
	e.logger.Info("command is registered by another plugin; the reserved form may be needed to run it",
		"command", name, "owner", entry.Owner, "fallback", "/"+domain.Reserved(name))
}

// WriteSnapshot writes the dispatcher snapshot, if a writer is configured.
func (e *Engine) WriteSnapshot(ctx context.Context) error {
	if e.snapshots == nil {
		return nil
	}
	if err := e.snapshots.WriteSnapshot(ctx, domain.SnapshotNodes(e.graph.Tree().Children())); err != nil {
		e.logger.Warn("failed to write dispatcher snapshot", "error", err)
		return fmt.Errorf("failed to write dispatcher snapshot: %w", err)
	}
	return nil
}

// Snapshot captures the execution tree, published tree, registry and help map.
func (e *Engine) Snapshot(ctx context.Context) (domain.GraphSnapshot, error) {
	s := domain.GraphSnapshot{
		Phase:     e.phase,
		Execution: domain.SnapshotNodes(e.graph.Tree().Children()),
		Published: domain.SnapshotNodes(e.published.Children()),
		Registry:  make(map[string]domain.RegistrySnapshot),
	}
	for _, name := range e.registry.Names() {
		if entry, ok := e.registry.Get(name); ok {
			s.Registry[name] = entry.Snapshot()
		}
	}
	if e.helpMap != nil {
		topics, err := e.helpMap.Topics(ctx)
		if err != nil {
			return s, fmt.Errorf("failed to read help topics: %w", err)
		}
		s.Help = topics
	}
	return s, nil
}

// Flush hands over the hook calls collected since the last flush.
// Callers run them once they no longer hold the engine.
func (e *Engine) Flush() []func(context.Context) {
	out := e.outbox
	e.outbox = nil
	return out
}

func (e *Engine) emitCommand(kind domain.EventType, ev *domain.CommandEvent) {
	ev.EventBase = domain.EventBase{Timestamp: e.now(), Type: kind, Phase: e.phase}
	var hook func(context.Context, *domain.CommandEvent)
	switch kind {
	case domain.EventRegister:
		hook = e.hooks.OnRegister
	case domain.EventUnregister:
		hook = e.hooks.OnUnregister
	case domain.EventRelocate:
		hook = e.hooks.OnRelocate
	}
	if hook == nil {
		return
	}
	e.outbox = append(e.outbox, func(ctx context.Context) { hook(ctx, ev) })
}

func (e *Engine) emitPhase(from, to domain.Phase) {
	if e.hooks.OnPhaseChange == nil {
		return
	}
	ev := &domain.PhaseEvent{
		EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventPhase, Phase: to},
		From:      from,
		To:        to,
	}
	hook := e.hooks.OnPhaseChange
	e.outbox = append(e.outbox, func(ctx context.Context) { hook(ctx, ev) })
}
