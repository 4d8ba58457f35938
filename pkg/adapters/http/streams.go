package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aretw0/cmdgraph/pkg/domain"
)

// Message is one server-sent event.
type Message struct {
	Event string
	Data  string
}

// StreamManager handles active SSE connections. It implements
// ports.ClientNotifier, so connected clients learn when to refetch the
// published tree.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan Message]struct{}
	logger      *slog.Logger
}

func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamManager{
		subscribers: make(map[chan Message]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a client. The returned func unsubscribes and closes the channel.
func (sm *StreamManager) Subscribe() (<-chan Message, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan Message, 10)
	sm.subscribers[ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if _, ok := sm.subscribers[ch]; ok {
			delete(sm.subscribers, ch)
			close(ch)
		}
	}
}

// Close disconnects every client. Pending messages are still delivered.
func (sm *StreamManager) Close() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for ch := range sm.subscribers {
		delete(sm.subscribers, ch)
		close(ch)
	}
}

// Subscribers returns the number of connected clients.
func (sm *StreamManager) Subscribers() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

func (sm *StreamManager) Broadcast(msg Message) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sm.logger.Debug("StreamManager: Broadcasting", "event", msg.Event, "subscribers", len(sm.subscribers))
	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: Client buffer full, dropping message", "event", msg.Event)
		}
	}
}

// NotifyAll tells every client that the published tree changed.
func (sm *StreamManager) NotifyAll(ctx context.Context) error {
	sm.Broadcast(Message{Event: "commands", Data: `{"changed":true}`})
	return nil
}

// Hooks returns lifecycle hooks that forward engine events to clients.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRegister:   func(ctx context.Context, e *domain.CommandEvent) { sm.forward(string(e.Type), e) },
		OnUnregister: func(ctx context.Context, e *domain.CommandEvent) { sm.forward(string(e.Type), e) },
		OnRelocate:   func(ctx context.Context, e *domain.CommandEvent) { sm.forward(string(e.Type), e) },
		OnPhaseChange: func(ctx context.Context, e *domain.PhaseEvent) {
			sm.forward(string(e.Type), e)
		},
	}
}

func (sm *StreamManager) forward(event string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		sm.logger.Error("SSE: failed to encode event", "event", event, "error", err)
		return
	}
	sm.Broadcast(Message{Event: event, Data: string(data)})
}
