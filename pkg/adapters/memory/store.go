package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/aretw0/cmdgraph/pkg/domain"
)

// PermissionStore implements ports.PermissionStore in memory.
// Safe for concurrent use.
type PermissionStore struct {
	known map[string]struct{}
	mu    sync.RWMutex
}

// NewPermissionStore creates an empty permission store.
func NewPermissionStore() *PermissionStore {
	return &PermissionStore{known: make(map[string]struct{})}
}

// RegisterPermission records a node. Known nodes return domain.ErrPermissionExists.
func (s *PermissionStore) RegisterPermission(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.known[name]; ok {
		return fmt.Errorf("%w: %s", domain.ErrPermissionExists, name)
	}
	s.known[name] = struct{}{}
	return nil
}

// Permissions lists known nodes.
func (s *PermissionStore) Permissions(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]string, 0, len(s.known))
	for p := range s.known {
		list = append(list, p)
	}
	sort.Strings(list)
	return list, nil
}

// HelpMap implements ports.HelpMap in memory.
// Safe for concurrent use.
type HelpMap struct {
	topics map[string]domain.HelpTopic
	mu     sync.RWMutex
}

// NewHelpMap creates an empty help map.
func NewHelpMap() *HelpMap {
	return &HelpMap{topics: make(map[string]domain.HelpTopic)}
}

func (h *HelpMap) PutAll(ctx context.Context, topics []domain.HelpTopic) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, t := range topics {
		h.topics[t.Name] = t
	}
	return nil
}

func (h *HelpMap) Remove(ctx context.Context, name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.topics, name)
	return nil
}

func (h *HelpMap) Get(ctx context.Context, name string) (domain.HelpTopic, bool, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	t, ok := h.topics[name]
	return t, ok, nil
}

func (h *HelpMap) Topics(ctx context.Context) ([]domain.HelpTopic, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	list := make([]domain.HelpTopic, 0, len(h.topics))
	for _, t := range h.topics {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// Notifier implements ports.ClientNotifier by counting notifications.
// Useful for hosts without connected clients and in tests.
type Notifier struct {
	count atomic.Int64
}

func (n *Notifier) NotifyAll(ctx context.Context) error {
	n.count.Add(1)
	return nil
}

// Count returns how many times clients were notified.
func (n *Notifier) Count() int {
	return int(n.count.Load())
}
