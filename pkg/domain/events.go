package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRegister   EventType = "register"
	EventUnregister EventType = "unregister"
	EventRelocate   EventType = "relocate"
	EventPhase      EventType = "phase"
)

// SyncMode tells whether mirror work was queued or applied immediately.
type SyncMode string

const (
	SyncQueued SyncMode = "queued"
	SyncInline SyncMode = "inline"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Phase     Phase     `json:"phase"`
}

// CommandEvent reports a registration, unregistration or relocation.
type CommandEvent struct {
	EventBase
	Name      string   `json:"name"`
	Namespace string   `json:"namespace,omitempty"`
	Mode      SyncMode `json:"mode,omitempty"`
	Scope     Scope    `json:"scope,omitempty"`
	// Removed lists the names an unregistration actually dropped.
	Removed []string `json:"removed,omitempty"`
}

// PhaseEvent reports a lifecycle transition.
type PhaseEvent struct {
	EventBase
	From Phase `json:"from"`
	To   Phase `json:"to"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnRegister    func(context.Context, *CommandEvent)
	OnUnregister  func(context.Context, *CommandEvent)
	OnRelocate    func(context.Context, *CommandEvent)
	OnPhaseChange func(context.Context, *PhaseEvent)
}

// Join combines hooks so each callback fans out to every non-nil member.
func Join(hooks ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRegister: func(ctx context.Context, e *CommandEvent) {
			for _, h := range hooks {
				if h.OnRegister != nil {
					h.OnRegister(ctx, e)
				}
			}
		},
		OnUnregister: func(ctx context.Context, e *CommandEvent) {
			for _, h := range hooks {
				if h.OnUnregister != nil {
					h.OnUnregister(ctx, e)
				}
			}
		},
		OnRelocate: func(ctx context.Context, e *CommandEvent) {
			for _, h := range hooks {
				if h.OnRelocate != nil {
					h.OnRelocate(ctx, e)
				}
			}
		},
		OnPhaseChange: func(ctx context.Context, e *PhaseEvent) {
			for _, h := range hooks {
				if h.OnPhaseChange != nil {
					h.OnPhaseChange(ctx, e)
				}
			}
		},
	}
}
