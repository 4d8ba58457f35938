package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/cmdgraph/pkg/domain"
)

// Builder collects the commands of one plugin in declaration order.
type Builder struct {
	namespace string
	order     []string
	commands  map[string]*CommandBuilder
}

// New creates a builder whose commands default to namespace.
func New(namespace string) *Builder {
	return &Builder{
		namespace: namespace,
		commands:  make(map[string]*CommandBuilder),
	}
}

// Add starts a command declaration.
// If the command already exists, it returns the existing builder.
func (b *Builder) Add(name string) *CommandBuilder {
	if cb, ok := b.commands[name]; ok {
		return cb
	}
	cb := Command(name).Namespace(b.namespace)
	b.commands[name] = cb
	b.order = append(b.order, name)
	return cb
}

// Build validates and returns every declared command in declaration order.
func (b *Builder) Build() ([]domain.RegisteredCommand, error) {
	cmds := make([]domain.RegisteredCommand, 0, len(b.order))
	var errs []error
	for _, name := range b.order {
		cmd := b.commands[name].Build()
		if err := Validate(cmd); err != nil {
			errs = append(errs, err)
			continue
		}
		cmds = append(cmds, cmd)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("failed to build commands: %w", err)
	}
	return cmds, nil
}

// Validate checks what the engine would otherwise reject at registration.
// An invalid namespace is not an error: the engine falls back to the reserved one.
func Validate(cmd domain.RegisteredCommand) error {
	if cmd.Name == "" {
		return domain.ErrEmptyName
	}
	if err := cmd.Permission.Validate(); err != nil {
		return fmt.Errorf("command %q: %w", cmd.Name, err)
	}
	seen := map[string]bool{}
	for _, a := range cmd.Arguments {
		if a.Name == "" {
			return fmt.Errorf("command %q has an unnamed argument: %w", cmd.Name, domain.ErrEmptyName)
		}
		if seen[a.Name] {
			return fmt.Errorf("command %q repeats argument %q: %w", cmd.Name, a.Name, domain.ErrDuplicateChild)
		}
		seen[a.Name] = true
	}
	for _, alias := range cmd.Aliases {
		if alias == "" {
			return fmt.Errorf("command %q has an empty alias: %w", cmd.Name, domain.ErrEmptyName)
		}
	}
	return nil
}
