package runtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/cmdgraph/pkg/domain"
)

// Enable runs the one-shot checkpoint and moves to CanRegister: queued mirror
// work is replayed in declaration order, the fixup set is drained, pending
// permissions are bound and help topics are generated for every command.
func (e *Engine) Enable(ctx context.Context) error {
	if err := e.advance(domain.PhasePreLoad); err != nil {
		return err
	}

	var errs []error
	var binds []binding
	for _, op := range e.queue {
		binds = append(binds, e.sync.Replay(op)...)
	}
	queued := len(e.queue)
	e.queue = nil

	drained, err := e.drain()
	if err != nil {
		errs = append(errs, err)
	}
	binds = append(binds, drained...)
	if err := e.binder.BindAll(binds); err != nil {
		errs = append(errs, err)
	}
	if err := e.publishHelp(ctx, e.commands); err != nil {
		errs = append(errs, err)
	}

	e.logger.Info("checkpoint complete", "mirrored", queued, "permissions", len(binds), "commands", len(e.commands))
	return errors.Join(errs...)
}

// Seal moves to Loaded. From here on every registration and unregistration
// also notifies connected clients. It may only be called once, after Enable.
func (e *Engine) Seal(ctx context.Context) error {
	if err := e.advance(domain.PhaseCanRegister); err != nil {
		return err
	}
	e.logger.Info("host loaded; registrations now sync inline")
	return nil
}

func (e *Engine) advance(from domain.Phase) error {
	if e.phase != from {
		return fmt.Errorf("%w: cannot leave %s while in %s", domain.ErrPhaseTransition, from, e.phase)
	}
	to, ok := from.Next()
	if !ok {
		return fmt.Errorf("%w: %s is final", domain.ErrPhaseTransition, from)
	}
	e.phase = to
	e.logger.Debug("phase changed", "from", from, "to", to)
	e.emitPhase(from, to)
	return nil
}
