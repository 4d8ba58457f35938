package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/cmdgraph/pkg/domain"
)

// Tree implements ports.Tree in memory.
// Safe for concurrent use.
type Tree struct {
	root map[string]*domain.CommandNode
	mu   sync.RWMutex
}

// NewTree creates a tree seeded with the given top-level nodes.
func NewTree(nodes ...*domain.CommandNode) (*Tree, error) {
	t := &Tree{root: make(map[string]*domain.CommandNode)}
	for _, n := range nodes {
		if err := t.AddChild(n); err != nil {
			return nil, fmt.Errorf("failed to seed node %q: %w", n.Name, err)
		}
	}
	return t, nil
}

// Children returns top-level nodes sorted by name.
func (t *Tree) Children() []*domain.CommandNode {
	t.mu.RLock()
	defer t.mu.RUnlock()

	list := make([]*domain.CommandNode, 0, len(t.root))
	for _, n := range t.root {
		list = append(list, n)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// Child returns the top-level node with the given name.
func (t *Tree) Child(name string) (*domain.CommandNode, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.root[name]
	return n, ok
}

// AddChild attaches a top-level node without overwriting.
func (t *Tree) AddChild(node *domain.CommandNode) error {
	if node == nil || node.Name == "" {
		return domain.ErrEmptyName
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.root[node.Name]; exists {
		return fmt.Errorf("%w: %q", domain.ErrDuplicateChild, node.Name)
	}
	t.root[node.Name] = node
	return nil
}

// RemoveChild detaches a top-level node.
func (t *Tree) RemoveChild(name string) (*domain.CommandNode, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, ok := t.root[name]
	if ok {
		delete(t.root, name)
	}
	return n, ok
}
