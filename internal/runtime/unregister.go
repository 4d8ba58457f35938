package runtime

import (
	"context"
	"errors"

	"github.com/aretw0/cmdgraph/pkg/domain"
)

// Unregister removes name from the structures the scope and the phase allow:
//
//   - the execution tree, for ScopeOwned;
//   - the registry, for ScopeForeign or once the trees are in sync;
//   - the published tree and the help topic, once the trees are in sync.
//
// Before the checkpoint the registry and published-tree removals for
// ScopeOwned are queued with the registrations, so the checkpoint replays
// them in declaration order. Clients are notified when something was removed
// after the host loaded. Unknown names are a no-op.
func (e *Engine) Unregister(ctx context.Context, name string, includeNamespaced bool, scope domain.Scope) ([]string, error) {
	e.logger.Info("unregistering command", "command", name, "namespaced", includeNamespaced, "scope", scope)

	var errs []error
	var removed []string
	if scope == domain.ScopeOwned {
		fromTree := e.graph.Remove(name, includeNamespaced, matchAll)
		removed = append(removed, fromTree...)
		if len(fromTree) > 0 {
			if err := e.WriteSnapshot(ctx); err != nil {
				errs = append(errs, err)
			}
		}
		e.forget(name, includeNamespaced)
		if !e.phase.Synced() {
			e.queue = append(e.queue, mirrorOp{removal: &removal{name: name, includeNamespaced: includeNamespaced}})
		}
	}

	synced := e.phase.Synced()
	if scope == domain.ScopeForeign || synced {
		removed = append(removed, e.sync.RemoveRegistry(name, includeNamespaced, scope)...)
	}
	if synced {
		removed = append(removed, e.sync.RemovePublished(name, includeNamespaced, scope)...)
		if e.helpMap != nil {
			if err := e.helpMap.Remove(ctx, domain.HelpPrefix(name)); err != nil {
				e.logger.Warn("failed to drop help topic", "command", name, "error", err)
				errs = append(errs, err)
			}
		}
	}
	if e.phase == domain.PhaseLoaded && len(removed) > 0 {
		if err := e.notify(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if len(removed) > 0 {
		e.emitCommand(domain.EventUnregister, &domain.CommandEvent{Name: name, Scope: scope, Removed: dedupe(removed)})
	}
	return dedupe(removed), errors.Join(errs...)
}

// forget drops queued work and bookkeeping for a command this engine owns.
func (e *Engine) forget(name string, includeNamespaced bool) {
	if includeNamespaced {
		e.fixups.Forget(name)
	}

	// Queued work for the bare node is dropped. The "ns:name" node survives
	// unless namespaced variants were removed too.
	queue := e.queue[:0]
	for _, op := range e.queue {
		if op.removal == nil && op.placement.Name == name {
			if includeNamespaced || op.placement.Namespaced == nil {
				continue
			}
			op.placement.Node = nil
		}
		queue = append(queue, op)
	}
	e.queue = queue

	commands := e.commands[:0]
	for _, c := range e.commands {
		if c.Name != name {
			commands = append(commands, c)
		}
	}
	e.commands = commands
}

func dedupe(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
