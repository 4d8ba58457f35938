package runtime

import (
	"log/slog"
	"strings"

	"github.com/aretw0/cmdgraph/pkg/domain"
)

// relocation is a node that must live under the reserved prefix ("minecraft:name").
type relocation struct {
	node       *domain.CommandNode
	permission domain.PermissionSpec
}

// FixupSet collects reserved-prefix names to free and the nodes to re-home
// under them. It is drained at every synchronization checkpoint and keeps
// nothing across two drains.
type FixupSet struct {
	claimed   []string
	isClaimed map[string]struct{}
	chain     []relocation
}

// NewFixupSet creates an empty set.
func NewFixupSet() *FixupSet {
	return &FixupSet{isClaimed: make(map[string]struct{})}
}

// Claim marks a reserved name for removal. It reports whether this is the
// first claim since the last drain.
func (f *FixupSet) Claim(full string) bool {
	if f.Wants(full) {
		return false
	}
	f.isClaimed[full] = struct{}{}
	f.claimed = append(f.claimed, full)
	return true
}

// Wants reports whether the reserved name is claimed.
func (f *FixupSet) Wants(full string) bool {
	_, ok := f.isClaimed[full]
	return ok
}

// Relocate appends node (already named "minecraft:name") to the chain.
// Several nodes may target the same name; they are merged on drain.
func (f *FixupSet) Relocate(node *domain.CommandNode, perm domain.PermissionSpec) {
	f.chain = append(f.chain, relocation{node: node, permission: perm})
}

// Pending reports whether a drain has work to do.
func (f *FixupSet) Pending() bool {
	return len(f.claimed) > 0 || len(f.chain) > 0
}

// Drain returns the claimed names and the relocations, grouped by name in
// first-seen order, and resets the set.
func (f *FixupSet) Drain() ([]string, [][]relocation) {
	claimed := f.claimed

	var order []string
	groups := make(map[string][]relocation)
	for _, r := range f.chain {
		if _, seen := groups[r.node.Name]; !seen {
			order = append(order, r.node.Name)
		}
		groups[r.node.Name] = append(groups[r.node.Name], r)
	}
	chain := make([][]relocation, 0, len(order))
	for _, name := range order {
		chain = append(chain, groups[name])
	}

	f.claimed = nil
	f.isClaimed = make(map[string]struct{})
	f.chain = nil
	return claimed, chain
}

// Forget drops every claim and relocation for "minecraft:name" and its
// namespaced variants. It runs when an unregistration removes the namespaced
// forms too; removing only the bare name leaves pending re-homing alone.
func (f *FixupSet) Forget(name string) {
	hit := func(full string) bool {
		rest := strings.TrimPrefix(full, domain.ReservedNamespace+":")
		return strings.EqualFold(rest, name) || domain.IsNamespacedVariant(rest, name)
	}

	claimed := f.claimed[:0]
	for _, c := range f.claimed {
		if hit(c) {
			delete(f.isClaimed, c)
			continue
		}
		claimed = append(claimed, c)
	}
	f.claimed = claimed

	chain := f.chain[:0]
	for _, r := range f.chain {
		if !hit(r.node.Name) {
			chain = append(chain, r)
		}
	}
	f.chain = chain
}

// Placement describes where a command ended up in the execution tree.
type Placement struct {
	Name      string
	Namespace string
	// Node is the node now living under the bare name. Nil when relocated.
	Node *domain.CommandNode
	// Namespaced is the "ns:name" node. Nil for the reserved namespace.
	Namespaced *domain.CommandNode
	// Relocated is set when the command only lives under "minecraft:name".
	Relocated bool
	// Displaced is the node that held the bare name before, if any.
	Displaced *domain.CommandNode
}

// Resolver places commands in the execution tree and records the reserved
// names that must be freed or re-homed at the next checkpoint.
type Resolver struct {
	graph  *Graph
	fixups *FixupSet
	logger *slog.Logger

	// permissions remembers what reserved-namespace commands placed at the
	// bare name were declared with, so a displaced one keeps it when re-homed.
	permissions map[*domain.CommandNode]domain.PermissionSpec
}

// NewResolver creates a resolver over graph.
func NewResolver(graph *Graph, fixups *FixupSet, logger *slog.Logger) *Resolver {
	return &Resolver{
		graph:       graph,
		fixups:      fixups,
		logger:      logger,
		permissions: make(map[*domain.CommandNode]domain.PermissionSpec),
	}
}

// Namespace returns ns, or the reserved namespace when ns is empty or invalid.
func (r *Resolver) Namespace(name, ns string) string {
	if ns == "" {
		r.logger.Info("registering command using the default namespace because an empty namespace was given",
			"command", name)
		return domain.ReservedNamespace
	}
	if !domain.ValidNamespace(ns) {
		r.logger.Info("registering command using the default namespace because an invalid namespace was given",
			"command", name, "namespace", ns, "allowed", "0-9, a-z, underscores, periods and hyphens")
		return domain.ReservedNamespace
	}
	return ns
}

// Place puts node into the execution tree under its own name.
// node.Namespace must already be normalized.
func (r *Resolver) Place(node *domain.CommandNode, perm domain.PermissionSpec) (Placement, error) {
	if node == nil || node.Name == "" {
		return Placement{}, domain.ErrEmptyName
	}
	if node.Namespace == domain.ReservedNamespace {
		return r.placeReserved(node, perm)
	}
	return r.placeNamespaced(node, perm)
}

func (r *Resolver) placeReserved(node *domain.CommandNode, perm domain.PermissionSpec) (Placement, error) {
	name := node.Name
	p := Placement{Name: name, Namespace: domain.ReservedNamespace}
	occupant, occupied := r.graph.Lookup(name)

	full := domain.Reserved(name)
	if r.fixups.Wants(full) || r.homed(full) || (occupied && occupant.Namespace != domain.ReservedNamespace) {
		node.Name = full
		r.fixups.Relocate(node, perm)
		p.Relocated = true
		r.logger.Debug("command re-homed under reserved namespace", "command", name)
		return p, nil
	}

	resident, err := r.graph.Merge(node)
	if err != nil {
		return p, err
	}
	r.permissions[resident] = perm
	p.Node = resident
	return p, nil
}

func (r *Resolver) placeNamespaced(node *domain.CommandNode, perm domain.PermissionSpec) (Placement, error) {
	name, ns := node.Name, node.Namespace
	p := Placement{Name: name, Namespace: ns}

	// A reserved occupant is saved before it is displaced. The reserved name
	// is only freed when nothing has been re-homed there yet.
	reserved := domain.Reserved(name)
	if !r.homed(reserved) {
		r.fixups.Claim(reserved)
	}
	if cur, ok := r.graph.Lookup(name); ok && cur.Namespace == domain.ReservedNamespace {
		kept, ok := r.permissions[cur]
		if !ok {
			kept = domain.NoPermission()
		}
		delete(r.permissions, cur)
		r.fixups.Relocate(cur.Renamed(reserved), kept)
	}
	if qualified := domain.Reserved(domain.QualifiedName(ns, name)); !r.homed(qualified) {
		r.fixups.Claim(qualified)
	}

	occupant, occupied := r.graph.Lookup(name)
	switch {
	case occupied && occupant.Namespace == ns && occupant.Origin == domain.OriginEngine:
		occupant.Merge(node)
		p.Node = occupant
	case occupied:
		r.graph.Detach(name)
		p.Displaced = occupant
		if _, err := r.graph.Insert(node); err != nil {
			return p, err
		}
		p.Node = node
		r.logger.Debug("command displaced bare name", "command", name, "namespace", ns, "previous", occupant.Namespace)
	default:
		if _, err := r.graph.Insert(node); err != nil {
			return p, err
		}
		p.Node = node
	}

	full := domain.QualifiedName(ns, name)
	if existing, ok := r.graph.Lookup(full); ok {
		existing.Merge(node)
		p.Namespaced = existing
	} else {
		nsNode := p.Node.Namespaced(ns)
		if _, err := r.graph.Insert(nsNode); err != nil {
			return p, err
		}
		p.Namespaced = nsNode
	}
	return p, nil
}

// homed reports whether a node already lives under the reserved name in the
// execution tree. Such a name is merged into, never freed.
func (r *Resolver) homed(full string) bool {
	_, ok := r.graph.Lookup(full)
	return ok
}
