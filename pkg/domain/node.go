package domain

import (
	"fmt"
	"sort"
)

// NodeKind distinguishes fixed tokens from parsed arguments.
type NodeKind string

const (
	// KindLiteral is a fixed-token step (e.g. "teleport").
	KindLiteral NodeKind = "literal"
	// KindArgument is a typed, parsed step (e.g. a player name).
	KindArgument NodeKind = "argument"
)

// Origin records which actor placed a node or registry entry.
type Origin string

const (
	// OriginEngine marks nodes inserted by this engine.
	OriginEngine Origin = "engine"
	// OriginHost marks built-in nodes the host placed in the execution tree.
	OriginHost Origin = "host"
	// OriginForeign marks nodes other actors placed directly in a host structure.
	OriginForeign Origin = "foreign"
)

// CommandNode is one step of a command tree.
// Trees never share a name between two siblings.
type CommandNode struct {
	Name         string   `json:"name"`
	Kind         NodeKind `json:"kind"`
	ArgumentType string   `json:"argument_type,omitempty"`
	Executable   bool     `json:"executable,omitempty"`

	// Namespace of the command that declared this node.
	// Host built-ins carry ReservedNamespace.
	Namespace string `json:"namespace,omitempty"`
	Origin    Origin `json:"origin"`

	// Target is set on renamed copies (aliases, namespaced and relocated nodes)
	// and points at the node whose identity they share.
	Target *CommandNode `json:"-"`

	// Run is carried to the leaf for the host's execution path.
	// The engine never calls it.
	Run Executor `json:"-"`

	children map[string]*CommandNode
}

// NewLiteral creates an empty literal node.
func NewLiteral(name string) *CommandNode {
	return &CommandNode{Name: name, Kind: KindLiteral}
}

// NewArgument creates an empty argument node of the given type.
func NewArgument(name, argType string) *CommandNode {
	return &CommandNode{Name: name, Kind: KindArgument, ArgumentType: argType}
}

// Child returns the direct child with the given name.
func (n *CommandNode) Child(name string) (*CommandNode, bool) {
	c, ok := n.children[name]
	return c, ok
}

// Children returns the direct children sorted by name.
func (n *CommandNode) Children() []*CommandNode {
	list := make([]*CommandNode, 0, len(n.children))
	for _, c := range n.children {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list
}

// AddChild attaches child. It never overwrites an existing sibling.
func (n *CommandNode) AddChild(child *CommandNode) error {
	if child == nil || child.Name == "" {
		return ErrEmptyName
	}
	if _, exists := n.children[child.Name]; exists {
		return fmt.Errorf("%w: %q under %q", ErrDuplicateChild, child.Name, n.Name)
	}
	if n.children == nil {
		n.children = make(map[string]*CommandNode)
	}
	n.children[child.Name] = child
	return nil
}

// RemoveChild detaches and returns the named child.
func (n *CommandNode) RemoveChild(name string) (*CommandNode, bool) {
	c, ok := n.children[name]
	if ok {
		delete(n.children, name)
	}
	return c, ok
}

// Identity follows Target links back to the node that owns the identity.
func (n *CommandNode) Identity() *CommandNode {
	cur := n
	for cur.Target != nil {
		cur = cur.Target
	}
	return cur
}

// Owned reports whether the node lives in (or wraps) the execution tree.
func (n *CommandNode) Owned() bool {
	return n.Origin != OriginForeign
}

// Renamed returns a copy of n under a new name. The copy shares n's children
// and identity, the way an alias or namespaced literal redirects to the original.
func (n *CommandNode) Renamed(name string) *CommandNode {
	cp := &CommandNode{
		Name:         name,
		Kind:         KindLiteral,
		ArgumentType: n.ArgumentType,
		Executable:   n.Executable,
		Namespace:    n.Namespace,
		Origin:       n.Origin,
		Target:       n.Identity(),
		Run:          n.Run,
	}
	if len(n.children) > 0 {
		cp.children = make(map[string]*CommandNode, len(n.children))
		for k, v := range n.children {
			cp.children[k] = v
		}
	}
	return cp
}

// Namespaced returns the "ns:name" copy of n.
func (n *CommandNode) Namespaced(ns string) *CommandNode {
	return n.Renamed(QualifiedName(ns, n.Name))
}

// Merge folds other's subtree into n: missing children are attached,
// same-named children are merged recursively and executability is kept
// if either side is executable.
func (n *CommandNode) Merge(other *CommandNode) {
	if other == nil || other == n {
		return
	}
	if other.Executable {
		n.Executable = true
		if other.Run != nil {
			n.Run = other.Run
		}
	}
	for name, oc := range other.children {
		if mine, ok := n.children[name]; ok {
			mine.Merge(oc)
			continue
		}
		if n.children == nil {
			n.children = make(map[string]*CommandNode)
		}
		n.children[name] = oc
	}
}

// Clone deep-copies the subtree rooted at n. Target links are preserved.
func (n *CommandNode) Clone() *CommandNode {
	cp := *n
	cp.children = nil
	for name, c := range n.children {
		if cp.children == nil {
			cp.children = make(map[string]*CommandNode, len(n.children))
		}
		cp.children[name] = c.Clone()
	}
	return &cp
}

// NodeSnapshot is the public, serializable shape of a subtree.
type NodeSnapshot struct {
	Name         string         `json:"name"`
	Kind         NodeKind       `json:"kind"`
	ArgumentType string         `json:"argument_type,omitempty"`
	Executable   bool           `json:"executable,omitempty"`
	Namespace    string         `json:"namespace,omitempty"`
	Origin       Origin         `json:"origin"`
	Children     []NodeSnapshot `json:"children,omitempty"`
}

// Snapshot captures the subtree rooted at n.
func (n *CommandNode) Snapshot() NodeSnapshot {
	s := NodeSnapshot{
		Name:         n.Name,
		Kind:         n.Kind,
		ArgumentType: n.ArgumentType,
		Executable:   n.Executable,
		Namespace:    n.Namespace,
		Origin:       n.Origin,
	}
	for _, c := range n.Children() {
		s.Children = append(s.Children, c.Snapshot())
	}
	return s
}
