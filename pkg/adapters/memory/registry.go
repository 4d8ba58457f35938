package memory

import (
	"sort"
	"sync"

	"github.com/aretw0/cmdgraph/pkg/domain"
)

// Registry implements ports.Registry in memory.
// Safe for concurrent use.
type Registry struct {
	entries map[string]*domain.RegistryEntry
	mu      sync.RWMutex
}

// NewRegistry creates a registry holding the given entries under their own names.
func NewRegistry(entries ...*domain.RegistryEntry) *Registry {
	r := &Registry{entries: make(map[string]*domain.RegistryEntry)}
	for _, e := range entries {
		r.entries[e.Name] = e
	}
	return r
}

func (r *Registry) PutIfAbsent(name string, entry *domain.RegistryEntry) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[name]; exists {
		return false
	}
	r.entries[name] = entry
	return true
}

func (r *Registry) Put(name string, entry *domain.RegistryEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = entry
}

func (r *Registry) Get(name string) (*domain.RegistryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e, ok
}

func (r *Registry) Remove(name string) (*domain.RegistryEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[name]
	if ok {
		delete(r.entries, name)
	}
	return e, ok
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for n := range r.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
