package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/cmdgraph/internal/manifest"
	"github.com/aretw0/cmdgraph/pkg/domain"
	"github.com/aretw0/cmdgraph/pkg/dsl"
)

// ValidateManifest checks what the engine would reject or silently repair.
// Errors make registration fail. Warnings describe recoveries the engine
// performs on its own: namespace fallbacks, bare names held by other actors
// and commands shadowing host built-ins.
func ValidateManifest(m *manifest.Manifest) (warnings []string, err error) {
	var errors []string

	if m.Plugin == "" {
		errors = append(errors, "plugin name is empty")
	}

	builtins := make(map[string]bool, len(m.Builtins))
	for _, b := range m.Builtins {
		if b == "" {
			errors = append(errors, "empty built-in name")
			continue
		}
		builtins[b] = true
	}
	foreign := make(map[string]string, len(m.Foreign))
	for _, f := range m.Foreign {
		if f.Name == "" {
			errors = append(errors, "foreign entry without a name")
			continue
		}
		foreign[f.Name] = f.Owner
	}

	seen := make(map[string]bool)
	for i, c := range m.Commands {
		cmd, convErr := c.ToDomain(m.Namespace)
		if convErr != nil {
			errors = append(errors, convErr.Error())
			continue
		}
		if vErr := dsl.Validate(cmd); vErr != nil {
			errors = append(errors, fmt.Sprintf("command #%d: %v", i+1, vErr))
			continue
		}

		key := domain.QualifiedName(cmd.Namespace, cmd.Name)
		if seen[key] {
			warnings = append(warnings, fmt.Sprintf("'%s' is declared more than once; the declarations are merged", key))
		}
		seen[key] = true

		if !domain.ValidNamespace(cmd.Namespace) {
			warnings = append(warnings, fmt.Sprintf("'%s' has invalid namespace %q; it falls back to '%s'", cmd.Name, cmd.Namespace, domain.ReservedNamespace))
		}
		for _, name := range append([]string{cmd.Name}, cmd.Aliases...) {
			if owner, ok := foreign[name]; ok {
				warnings = append(warnings, fmt.Sprintf("'%s' is held by %s; it stays reachable as '%s'", name, owner, domain.QualifiedName(cmd.Namespace, name)))
			}
			if builtins[name] {
				warnings = append(warnings, fmt.Sprintf("'%s' shadows a built-in; the built-in stays reachable as '%s'", name, domain.Reserved(name)))
			}
		}
	}

	if len(errors) > 0 {
		return warnings, fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}
	return warnings, nil
}
