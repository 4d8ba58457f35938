package runtime

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/cmdgraph/pkg/domain"
	"github.com/aretw0/cmdgraph/pkg/ports"
)

// mirrorOp is the published-tree and registry work for one placement.
// Before the checkpoint it is queued; afterwards it is applied at once.
type mirrorOp struct {
	placement  Placement
	permission domain.PermissionSpec

	// removal is set instead of placement for an unregistration made
	// before the checkpoint.
	removal *removal
}

// removal is the registry and published-tree half of an owned unregistration.
type removal struct {
	name              string
	includeNamespaced bool
}

// binding is a permission waiting to be attached to a registry entry.
type binding struct {
	entry *domain.RegistryEntry
	spec  domain.PermissionSpec
}

// Synchronizer mirrors execution-tree edits into the published tree and the
// registry. It is the only component that creates or drops wrappers.
type Synchronizer struct {
	graph     *Graph
	published ports.Tree
	registry  ports.Registry
	owner     string
	logger    *slog.Logger
}

// NewSynchronizer creates a synchronizer. owner labels the wrappers it creates.
func NewSynchronizer(graph *Graph, published ports.Tree, registry ports.Registry, owner string, logger *slog.Logger) *Synchronizer {
	return &Synchronizer{
		graph:     graph,
		published: published,
		registry:  registry,
		owner:     owner,
		logger:    logger,
	}
}

// Replay applies one queued operation at the checkpoint.
func (s *Synchronizer) Replay(op mirrorOp) []binding {
	if op.removal != nil {
		s.RemoveRegistry(op.removal.name, op.removal.includeNamespaced, domain.ScopeOwned)
		s.RemovePublished(op.removal.name, op.removal.includeNamespaced, domain.ScopeOwned)
		return nil
	}
	return s.MirrorInsert(op)
}

// MirrorInsert publishes a placement and wraps it in the registry.
// The bare slot is first-writer-wins against live handlers; a wrapper whose
// node has left the execution tree is replaced. The "ns:name" slot is always
// written and, for the reserved namespace, "minecraft:name" aliases the bare
// wrapper. Nodes displaced or removed since the placement are skipped.
// It returns the entries whose permission must be bound.
func (s *Synchronizer) MirrorInsert(op mirrorOp) []binding {
	p := op.placement
	if p.Relocated {
		return nil
	}

	var out []binding
	if p.Node != nil && s.live(p.Node) {
		w := domain.NewWrapper(p.Name, p.Node, s.ownerOf(p.Node))
		wrote := s.putUnlessLive(p.Name, w)
		s.publish(p.Node)

		if p.Namespace == domain.ReservedNamespace {
			if s.putUnlessLive(domain.Reserved(p.Name), w) {
				wrote = true
			}
			s.publish(p.Node.Renamed(domain.Reserved(p.Name)))
		}
		if wrote {
			out = append(out, binding{entry: w, spec: op.permission})
		} else {
			s.logger.Debug("registry slot held by another handler", "command", p.Name)
		}
	}

	if p.Namespace != domain.ReservedNamespace && p.Namespaced != nil && s.live(p.Namespaced) {
		full := p.Namespaced.Name
		nw := domain.NewWrapper(full, p.Namespaced, s.ownerOf(p.Namespaced))
		s.registry.Put(full, nw)
		s.publish(p.Namespaced)
		out = append(out, binding{entry: nw, spec: op.permission})
	}
	return out
}

// Drain frees the claimed reserved names, then re-homes the chained nodes
// under them in all three structures. Nodes chained under the same name are
// folded together: later entries win the node's own fields, earlier entries
// contribute children the later ones lack.
func (s *Synchronizer) Drain(f *FixupSet) ([]binding, []string, error) {
	claimed, chain := f.Drain()
	for _, name := range claimed {
		s.registry.Remove(name)
		s.published.RemoveChild(name)
	}

	var binds []binding
	var relocated []string
	for _, group := range chain {
		name := group[0].node.Name

		var acc *domain.CommandNode
		if existing, ok := s.graph.Detach(name); ok {
			acc = existing.Clone()
		}
		perm := domain.NoPermission()
		for _, r := range group {
			acc = overlay(acc, r.node)
			perm = r.permission
		}

		if _, err := s.graph.Insert(acc); err != nil {
			return binds, relocated, fmt.Errorf("failed to re-home %q: %w", name, err)
		}
		s.publish(acc)
		w := domain.NewWrapper(name, acc, s.ownerOf(acc))
		s.registry.Put(name, w)
		binds = append(binds, binding{entry: w, spec: perm})
		relocated = append(relocated, name)
	}
	return binds, relocated, nil
}

// RemoveRegistry drops registry entries for name (and its namespaced
// variants) that fall in scope.
func (s *Synchronizer) RemoveRegistry(name string, includeNamespaced bool, scope domain.Scope) []string {
	var removed []string
	drop := func(n string) {
		if e, ok := s.registry.Get(n); ok && scope.Matches(e.Owned()) {
			s.registry.Remove(n)
			removed = append(removed, n)
		}
	}
	drop(name)
	if includeNamespaced {
		for _, n := range s.registry.Names() {
			if domain.IsNamespacedVariant(n, name) {
				drop(n)
			}
		}
	}
	return removed
}

// RemovePublished drops published nodes for name that fall in scope.
func (s *Synchronizer) RemovePublished(name string, includeNamespaced bool, scope domain.Scope) []string {
	return removeMatching(s.published, name, includeNamespaced, func(n *domain.CommandNode) bool {
		return scope.Matches(n.Owned())
	})
}

// live reports whether node is the execution tree's node under its own name.
func (s *Synchronizer) live(node *domain.CommandNode) bool {
	cur, ok := s.graph.Lookup(node.Name)
	return ok && cur == node
}

// putUnlessLive writes w under name unless the slot holds a foreign entry or
// a wrapper of a node still in the execution tree. It reports whether w was written.
func (s *Synchronizer) putUnlessLive(name string, w *domain.RegistryEntry) bool {
	if s.registry.PutIfAbsent(name, w) {
		return true
	}
	cur, ok := s.registry.Get(name)
	if ok && (!cur.Owned() || cur.Node == nil || s.live(cur.Node)) {
		return false
	}
	if ok {
		s.logger.Debug("replacing stale registry wrapper", "command", name, "previous", cur.Node.Namespace)
	}
	s.registry.Put(name, w)
	return true
}

// publish adds node to the published tree. An occupant we own is replaced,
// a foreign one is kept.
func (s *Synchronizer) publish(node *domain.CommandNode) {
	if cur, ok := s.published.Child(node.Name); ok {
		if cur == node {
			return
		}
		if !cur.Owned() {
			s.logger.Debug("published slot held by a foreign node", "command", node.Name)
			return
		}
		s.published.RemoveChild(node.Name)
	}
	if err := s.published.AddChild(node); err != nil {
		s.logger.Warn("failed to publish node", "command", node.Name, "error", err)
	}
}

func (s *Synchronizer) ownerOf(node *domain.CommandNode) string {
	if node.Origin == domain.OriginHost {
		return domain.ReservedNamespace
	}
	return s.owner
}

// overlay folds next into acc. acc must be private to the caller.
func overlay(acc, next *domain.CommandNode) *domain.CommandNode {
	if acc == nil {
		return next.Clone()
	}
	acc.Merge(next.Clone())
	acc.Name = next.Name
	acc.Kind = next.Kind
	acc.ArgumentType = next.ArgumentType
	acc.Namespace = next.Namespace
	acc.Origin = next.Origin
	acc.Target = next.Target
	return acc
}
