package cli

import (
	"fmt"

	"github.com/aretw0/cmdgraph/pkg/domain"
	"github.com/aretw0/cmdgraph/pkg/ports"
)

// seedBuiltin places a host command the way the host registers its own:
// one node in both trees, wrapped under "name" and "minecraft:name".
func seedBuiltin(exec, published ports.Tree, registry ports.Registry, name string) error {
	n := domain.NewLiteral(name)
	n.Namespace = domain.ReservedNamespace
	n.Origin = domain.OriginHost
	n.Executable = true
	if err := exec.AddChild(n); err != nil {
		return fmt.Errorf("failed to seed built-in %q: %w", name, err)
	}
	if err := published.AddChild(n); err != nil {
		return fmt.Errorf("failed to publish built-in %q: %w", name, err)
	}
	w := domain.NewWrapper(name, n, domain.ReservedNamespace)
	registry.Put(name, w)
	registry.Put(domain.Reserved(name), w)
	return nil
}

// seedForeign places a command another plugin registered directly in the
// published tree and the registry, bypassing the execution tree.
func seedForeign(published ports.Tree, registry ports.Registry, name, owner string) error {
	n := domain.NewLiteral(name)
	n.Origin = domain.OriginForeign
	n.Namespace = owner
	n.Executable = true
	if err := published.AddChild(n); err != nil {
		return fmt.Errorf("failed to seed foreign command %q: %w", name, err)
	}
	entry := &domain.RegistryEntry{Name: name, Kind: domain.EntryForeign, Owner: owner}
	registry.Put(name, entry)
	if domain.ValidNamespace(owner) {
		registry.Put(domain.QualifiedName(owner, name), entry)
	}
	return nil
}
