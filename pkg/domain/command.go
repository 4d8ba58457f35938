package domain

import (
	"context"
	"strings"
)

// Invoker is the opaque sender of a command. The engine never inspects it.
type Invoker any

// Executor runs a command once a leaf has been reached.
type Executor func(ctx context.Context, invoker Invoker, args map[string]any) error

// Argument is one step after the command's root literal.
type Argument struct {
	Name string   `json:"name" yaml:"name"`
	Kind NodeKind `json:"kind" yaml:"kind"`
	// Type is opaque to the engine (e.g. "player", "integer").
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
	// Optional arguments make the node before them executable too.
	Optional bool `json:"optional,omitempty" yaml:"optional,omitempty"`
}

// HelpString renders the argument the way usage lines show it.
func (a Argument) HelpString() string {
	if a.Kind == KindLiteral {
		return a.Name
	}
	if a.Optional {
		return "[" + a.Name + "]"
	}
	return "<" + a.Name + ">"
}

// RegisteredCommand is a command declared by the host application.
// It is treated as immutable once handed to the engine.
type RegisteredCommand struct {
	Name       string
	Namespace  string
	Arguments  []Argument
	Aliases    []string
	Permission PermissionSpec

	// HelpTopic overrides generated help when set.
	HelpTopic        *HelpTopic
	ShortDescription string
	FullDescription  string
	// Usage replaces the generated usage lines when set.
	Usage []string

	Run Executor
}

// UsageLine renders "/name <arg> ...".
func (c RegisteredCommand) UsageLine() string {
	parts := []string{"/" + c.Name}
	for _, a := range c.Arguments {
		parts = append(parts, a.HelpString())
	}
	return strings.Join(parts, " ")
}

// Build returns a fresh execution subtree for the command rooted at a literal
// named after the command. The last argument is executable, as is every node
// that precedes an optional argument.
func (c RegisteredCommand) Build(origin Origin) *CommandNode {
	return c.buildAs(c.Name, origin)
}

// BuildAlias builds the same subtree under the alias name.
func (c RegisteredCommand) BuildAlias(alias string, origin Origin) *CommandNode {
	return c.buildAs(alias, origin)
}

func (c RegisteredCommand) buildAs(name string, origin Origin) *CommandNode {
	root := NewLiteral(name)
	root.Namespace = c.Namespace
	root.Origin = origin

	cur := root
	for _, a := range c.Arguments {
		if a.Optional {
			cur.Executable = true
			cur.Run = c.Run
		}
		var next *CommandNode
		if a.Kind == KindLiteral {
			next = NewLiteral(a.Name)
		} else {
			next = NewArgument(a.Name, a.Type)
		}
		next.Namespace = c.Namespace
		next.Origin = origin
		// Arguments of one command never collide; a repeated name is folded.
		if existing, ok := cur.Child(next.Name); ok {
			cur = existing
			continue
		}
		_ = cur.AddChild(next)
		cur = next
	}
	cur.Executable = true
	cur.Run = c.Run
	return root
}
