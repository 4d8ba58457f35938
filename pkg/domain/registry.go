package domain

// EntryKind distinguishes engine wrappers from entries other actors registered.
type EntryKind string

const (
	// EntryWrapped wraps an execution-tree node.
	EntryWrapped EntryKind = "wrapped"
	// EntryForeign was registered directly in the registry by another actor.
	EntryForeign EntryKind = "foreign"
)

// RegistryEntry is the handler stored under a name in the host registry.
type RegistryEntry struct {
	Name  string       `json:"name"`
	Kind  EntryKind    `json:"kind"`
	Node  *CommandNode `json:"-"`
	Owner string       `json:"owner,omitempty"`
	// Permission is the unpacked permission; "" means the host default.
	Permission string `json:"permission,omitempty"`
}

// NewWrapper wraps an execution-tree node.
func NewWrapper(name string, node *CommandNode, owner string) *RegistryEntry {
	return &RegistryEntry{Name: name, Kind: EntryWrapped, Node: node, Owner: owner}
}

// Owned reports whether the entry wraps a node of the execution tree.
func (e *RegistryEntry) Owned() bool {
	return e.Kind == EntryWrapped
}

// Scope selects which actor's entries an unregistration touches.
type Scope string

const (
	// ScopeOwned touches entries living in or wrapping the execution tree.
	ScopeOwned Scope = "owned"
	// ScopeForeign touches entries other actors registered directly.
	ScopeForeign Scope = "foreign"
)

// ParseScope maps a user-provided label to a Scope. Unknown labels default to ScopeOwned.
func ParseScope(s string) Scope {
	if Scope(s) == ScopeForeign {
		return ScopeForeign
	}
	return ScopeOwned
}

// Matches reports whether an entry of the given ownership falls in the scope.
func (s Scope) Matches(owned bool) bool {
	return (s == ScopeForeign) != owned
}

// RegistrySnapshot is the public shape of a registry entry.
type RegistrySnapshot struct {
	Name       string    `json:"name"`
	Kind       EntryKind `json:"kind"`
	Owner      string    `json:"owner,omitempty"`
	Permission string    `json:"permission,omitempty"`
	Target     string    `json:"target,omitempty"`
}

// Snapshot captures e. Target names the identity node the wrapper points at.
func (e *RegistryEntry) Snapshot() RegistrySnapshot {
	s := RegistrySnapshot{
		Name:       e.Name,
		Kind:       e.Kind,
		Owner:      e.Owner,
		Permission: e.Permission,
	}
	if e.Node != nil {
		s.Target = e.Node.Identity().Name
	}
	return s
}
