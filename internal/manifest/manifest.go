package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/cmdgraph/pkg/domain"
	"github.com/aretw0/cmdgraph/pkg/dsl"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Manifest declares a plugin's commands and the host state they meet.
type Manifest struct {
	Plugin    string `json:"plugin" yaml:"plugin"`
	Namespace string `json:"namespace" yaml:"namespace"`

	// Builtins are host commands already in the execution tree.
	Builtins []string `json:"builtins,omitempty" yaml:"builtins,omitempty"`
	// Foreign are commands other plugins registered directly in the host.
	Foreign []ForeignEntry `json:"foreign,omitempty" yaml:"foreign,omitempty"`

	Commands []Command `json:"commands" yaml:"commands"`
}

// ForeignEntry is a command another actor owns.
type ForeignEntry struct {
	Name  string `json:"name" yaml:"name"`
	Owner string `json:"owner" yaml:"owner"`
}

// Command is the file form of domain.RegisteredCommand.
type Command struct {
	Name      string     `json:"name" yaml:"name"`
	Namespace string     `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Aliases   []string   `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Arguments []Argument `json:"arguments,omitempty" yaml:"arguments,omitempty"`

	// Permission is "none", "op", a node name, "!node", or a map
	// with kind/node/negated keys.
	Permission any `json:"permission,omitempty" yaml:"permission,omitempty"`

	Description     string            `json:"description,omitempty" yaml:"description,omitempty"`
	FullDescription string            `json:"full_description,omitempty" yaml:"full_description,omitempty"`
	Usage           []string          `json:"usage,omitempty" yaml:"usage,omitempty"`
	Help            *domain.HelpTopic `json:"help,omitempty" yaml:"help,omitempty"`

	// Late commands are registered after the host has loaded.
	Late bool `json:"late,omitempty" yaml:"late,omitempty"`
}

// Argument is one step after the root literal. Without a type it is a literal.
type Argument struct {
	Name     string `json:"name" yaml:"name"`
	Type     string `json:"type,omitempty" yaml:"type,omitempty"`
	Optional bool   `json:"optional,omitempty" yaml:"optional,omitempty"`
}

// Load reads a manifest file. The format is chosen by extension:
// ".json" is JSON, anything else YAML.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes manifest data in the format named by ext.
func Parse(data []byte, ext string) (*Manifest, error) {
	var m Manifest
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("failed to parse manifest json: %w", err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("failed to parse manifest yaml: %w", err)
		}
	}
	return &m, nil
}

// Split converts the commands, separating those registered while the plugin
// loads from those registered after the host has loaded.
func (m *Manifest) Split() (early, late []domain.RegisteredCommand, err error) {
	for _, c := range m.Commands {
		cmd, err := c.ToDomain(m.Namespace)
		if err != nil {
			return nil, nil, err
		}
		if c.Late {
			late = append(late, cmd)
		} else {
			early = append(early, cmd)
		}
	}
	return early, late, nil
}

// ToDomain builds the registered command. defaultNamespace applies when the
// command names none.
func (c Command) ToDomain(defaultNamespace string) (domain.RegisteredCommand, error) {
	perm, err := ParsePermission(c.Permission)
	if err != nil {
		return domain.RegisteredCommand{}, fmt.Errorf("command %q: %w", c.Name, err)
	}

	ns := c.Namespace
	if ns == "" {
		ns = defaultNamespace
	}

	b := dsl.Command(c.Name).
		Namespace(ns).
		Aliases(c.Aliases...).
		Permission(perm).
		Describe(c.Description, c.FullDescription).
		Usage(c.Usage...)
	for _, a := range c.Arguments {
		switch {
		case a.Type == "":
			b.Literal(a.Name)
		case a.Optional:
			b.Optional(a.Name, a.Type)
		default:
			b.Argument(a.Name, a.Type)
		}
	}
	if c.Help != nil {
		b.Help(*c.Help)
	}
	return b.Build(), nil
}

// ParsePermission decodes the permission field of a command.
func ParsePermission(raw any) (domain.PermissionSpec, error) {
	switch v := raw.(type) {
	case nil:
		return domain.NoPermission(), nil
	case string:
		switch {
		case v == "" || v == string(domain.PermissionNone):
			return domain.NoPermission(), nil
		case v == string(domain.PermissionElevated):
			return domain.RequireElevated(), nil
		case strings.HasPrefix(v, "!"):
			return domain.Named(strings.TrimPrefix(v, "!")).Negate(), nil
		default:
			return domain.Named(v), nil
		}
	case map[string]any, map[any]any:
		var spec domain.PermissionSpec
		if err := mapstructure.Decode(v, &spec); err != nil {
			return spec, fmt.Errorf("failed to decode permission: %w", err)
		}
		return spec, nil
	default:
		return domain.PermissionSpec{}, fmt.Errorf("%w: invalid permission definition type %T", domain.ErrUnknownPermission, v)
	}
}
