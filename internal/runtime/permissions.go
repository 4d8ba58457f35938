package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/cmdgraph/pkg/domain"
	"github.com/aretw0/cmdgraph/pkg/ports"
)

// Binder attaches unpacked permissions to registry entries.
type Binder struct {
	store  ports.PermissionStore
	logger *slog.Logger
}

// NewBinder creates a binder. store may be nil.
func NewBinder(store ports.PermissionStore, logger *slog.Logger) *Binder {
	return &Binder{store: store, logger: logger}
}

// Bind unpacks spec onto entry. Only wrapped entries are touched, and
// binding the same spec twice changes nothing.
func (b *Binder) Bind(entry *domain.RegistryEntry, spec domain.PermissionSpec) error {
	perm, err := spec.Unpack()
	if err != nil {
		return fmt.Errorf("failed to bind permission to %q: %w", entry.Name, err)
	}
	if !entry.Owned() {
		return nil
	}
	entry.Permission = perm
	return nil
}

// BindAll binds every pending entry and joins the failures.
func (b *Binder) BindAll(binds []binding) error {
	var errs []error
	for _, bd := range binds {
		if err := b.Bind(bd.entry, bd.spec); err != nil {
			errs = append(errs, err)
		}
	}
	if len(binds) > 0 {
		b.logger.Debug("linked permissions to commands", "count", len(binds))
	}
	return errors.Join(errs...)
}

// Register records a named permission in the store. Nodes the store already
// knows are not an error.
func (b *Binder) Register(ctx context.Context, spec domain.PermissionSpec) error {
	if b.store == nil || spec.Kind != domain.PermissionNamed || spec.Node == "" {
		return nil
	}
	err := b.store.RegisterPermission(ctx, spec.Node)
	if err == nil || errors.Is(err, domain.ErrPermissionExists) {
		return nil
	}
	return fmt.Errorf("failed to register permission %q: %w", spec.Node, err)
}
