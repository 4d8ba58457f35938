package domain

import "fmt"

// PermissionKind selects the permission variant.
type PermissionKind string

const (
	PermissionNone     PermissionKind = "none"
	PermissionElevated PermissionKind = "op"
	PermissionNamed    PermissionKind = "named"
)

// PermissionSpec describes who may run a command.
// The zero value means no permission.
type PermissionSpec struct {
	Kind    PermissionKind `json:"kind" yaml:"kind" mapstructure:"kind"`
	Node    string         `json:"node,omitempty" yaml:"node,omitempty" mapstructure:"node"`
	Negated bool           `json:"negated,omitempty" yaml:"negated,omitempty" mapstructure:"negated"`
}

// NoPermission is the default spec.
func NoPermission() PermissionSpec {
	return PermissionSpec{Kind: PermissionNone}
}

// RequireElevated requires the host's operator status.
func RequireElevated() PermissionSpec {
	return PermissionSpec{Kind: PermissionElevated}
}

// Named requires the permission node.
func Named(node string) PermissionSpec {
	return PermissionSpec{Kind: PermissionNamed, Node: node}
}

// Negate returns the negated form of p.
func (p PermissionSpec) Negate() PermissionSpec {
	p.Negated = !p.Negated
	return p
}

// Unpack returns the concrete permission string stored on a registry entry.
// Only a non-negated Named spec yields a value. Everything else that is known
// yields "" so the host's default applies.
func (p PermissionSpec) Unpack() (string, error) {
	switch p.Kind {
	case "", PermissionNone, PermissionElevated:
		return "", nil
	case PermissionNamed:
		if p.Node == "" {
			return "", fmt.Errorf("%w: named permission without a node", ErrUnknownPermission)
		}
		if p.Negated {
			return "", nil
		}
		return p.Node, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPermission, p.Kind)
	}
}

// Validate checks that p can be unpacked.
func (p PermissionSpec) Validate() error {
	_, err := p.Unpack()
	return err
}

func (p PermissionSpec) String() string {
	switch {
	case p.Kind == PermissionNamed && p.Negated:
		return "!" + p.Node
	case p.Kind == PermissionNamed:
		return p.Node
	case p.Kind == "":
		return string(PermissionNone)
	default:
		return string(p.Kind)
	}
}
