package ports

import "github.com/aretw0/cmdgraph/pkg/domain"

// Tree is the root of a host-owned command tree: the execution tree the
// dispatcher walks, or the published tree clients see.
//
// The engine only reaches a tree through this interface.
type Tree interface {
	// Children returns the top-level nodes sorted by name.
	Children() []*domain.CommandNode

	// Child returns the top-level node with the given name.
	Child(name string) (*domain.CommandNode, bool)

	// AddChild attaches a top-level node.
	// Returns domain.ErrDuplicateChild if the name is taken.
	AddChild(node *domain.CommandNode) error

	// RemoveChild detaches and returns the top-level node with the given name.
	RemoveChild(name string) (*domain.CommandNode, bool)
}

// Registry is the host's name to handler map.
type Registry interface {
	// PutIfAbsent stores the entry under name unless the name is taken.
	// It reports whether it wrote. One entry may be stored under several names.
	PutIfAbsent(name string, entry *domain.RegistryEntry) bool

	// Put stores the entry under name, replacing any previous one.
	Put(name string, entry *domain.RegistryEntry)

	// Get returns the entry stored under name.
	Get(name string) (*domain.RegistryEntry, bool)

	// Remove drops the entry stored under name.
	Remove(name string) (*domain.RegistryEntry, bool)

	// Names returns every registered name, sorted.
	Names() []string
}
