package runtime

import (
	"fmt"

	"github.com/aretw0/cmdgraph/pkg/domain"
	"github.com/aretw0/cmdgraph/pkg/ports"
)

// Graph owns the engine's edits to the execution tree.
// It never overwrites a node: inserts that collide fail, merges are explicit.
type Graph struct {
	tree ports.Tree
}

// NewGraph wraps the host's execution tree.
func NewGraph(tree ports.Tree) *Graph {
	return &Graph{tree: tree}
}

// Tree returns the underlying execution tree.
func (g *Graph) Tree() ports.Tree {
	return g.tree
}

// Lookup walks the tree along path.
func (g *Graph) Lookup(path ...string) (*domain.CommandNode, bool) {
	if len(path) == 0 {
		return nil, false
	}
	cur, ok := g.tree.Child(path[0])
	if !ok {
		return nil, false
	}
	for _, name := range path[1:] {
		if cur, ok = cur.Child(name); !ok {
			return nil, false
		}
	}
	return cur, true
}

// Insert attaches node at the top level.
func (g *Graph) Insert(node *domain.CommandNode) (*domain.CommandNode, error) {
	if node == nil || node.Name == "" {
		return nil, domain.ErrEmptyName
	}
	if err := g.tree.AddChild(node); err != nil {
		return nil, fmt.Errorf("failed to insert %q: %w", node.Name, err)
	}
	return node, nil
}

// AddChild attaches child under the node at parentPath.
// An empty path means the top level.
func (g *Graph) AddChild(parentPath []string, child *domain.CommandNode) error {
	if len(parentPath) == 0 {
		_, err := g.Insert(child)
		return err
	}
	parent, ok := g.Lookup(parentPath...)
	if !ok {
		return fmt.Errorf("%w: %v", domain.ErrMissingParent, parentPath)
	}
	return parent.AddChild(child)
}

// Merge inserts node, or folds it into the top-level node of the same name.
// It returns the node that now lives in the tree.
func (g *Graph) Merge(node *domain.CommandNode) (*domain.CommandNode, error) {
	if existing, ok := g.tree.Child(node.Name); ok {
		existing.Merge(node)
		return existing, nil
	}
	return g.Insert(node)
}

// Detach removes a top-level node regardless of owner.
func (g *Graph) Detach(name string) (*domain.CommandNode, bool) {
	return g.tree.RemoveChild(name)
}

// Remove drops the top-level node called name, and its namespaced variants
// when includeNamespaced is set, for which match returns true.
// It returns the names actually removed.
func (g *Graph) Remove(name string, includeNamespaced bool, match func(*domain.CommandNode) bool) []string {
	return removeMatching(g.tree, name, includeNamespaced, match)
}

func removeMatching(tree ports.Tree, name string, includeNamespaced bool, match func(*domain.CommandNode) bool) []string {
	var removed []string
	if n, ok := tree.Child(name); ok && match(n) {
		tree.RemoveChild(name)
		removed = append(removed, name)
	}
	if !includeNamespaced {
		return removed
	}
	for _, c := range tree.Children() {
		if domain.IsNamespacedVariant(c.Name, name) && match(c) {
			tree.RemoveChild(c.Name)
			removed = append(removed, c.Name)
		}
	}
	return removed
}

func matchAll(*domain.CommandNode) bool { return true }
