package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/cmdgraph/pkg/domain"
)

// LogHooks returns lifecycle hooks that log every event.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRegister: func(ctx context.Context, e *domain.CommandEvent) {
			logger.InfoContext(ctx, "command_register",
				"command", e.Name,
				"namespace", e.Namespace,
				"mode", e.Mode,
				"phase", e.Phase,
			)
		},
		OnUnregister: func(ctx context.Context, e *domain.CommandEvent) {
			logger.InfoContext(ctx, "command_unregister",
				"command", e.Name,
				"scope", e.Scope,
				"removed", e.Removed,
			)
		},
		OnRelocate: func(ctx context.Context, e *domain.CommandEvent) {
			logger.InfoContext(ctx, "command_relocate", "command", e.Name, "namespace", e.Namespace)
		},
		OnPhaseChange: func(ctx context.Context, e *domain.PhaseEvent) {
			logger.InfoContext(ctx, "phase_change", "from", e.From, "to", e.To)
		},
	}
}
