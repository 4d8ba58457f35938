package dsl

import "github.com/aretw0/cmdgraph/pkg/domain"

// CommandBuilder provides a fluent API for declaring a command.
type CommandBuilder struct {
	cmd domain.RegisteredCommand
}

// Command starts a standalone command declaration.
func Command(name string) *CommandBuilder {
	return &CommandBuilder{cmd: domain.RegisteredCommand{Name: name}}
}

// Namespace sets the namespace of the "ns:name" form.
func (c *CommandBuilder) Namespace(ns string) *CommandBuilder {
	c.cmd.Namespace = ns
	return c
}

// Literal appends a fixed token.
func (c *CommandBuilder) Literal(name string) *CommandBuilder {
	c.cmd.Arguments = append(c.cmd.Arguments, domain.Argument{Name: name, Kind: domain.KindLiteral})
	return c
}

// Argument appends a required typed argument.
func (c *CommandBuilder) Argument(name, argType string) *CommandBuilder {
	c.cmd.Arguments = append(c.cmd.Arguments, domain.Argument{Name: name, Kind: domain.KindArgument, Type: argType})
	return c
}

// Optional appends an optional typed argument. The node before it becomes executable.
func (c *CommandBuilder) Optional(name, argType string) *CommandBuilder {
	c.cmd.Arguments = append(c.cmd.Arguments, domain.Argument{Name: name, Kind: domain.KindArgument, Type: argType, Optional: true})
	return c
}

// Aliases adds alternative root names.
func (c *CommandBuilder) Aliases(aliases ...string) *CommandBuilder {
	c.cmd.Aliases = append(c.cmd.Aliases, aliases...)
	return c
}

// Permission sets the permission required to run the command.
func (c *CommandBuilder) Permission(p domain.PermissionSpec) *CommandBuilder {
	c.cmd.Permission = p
	return c
}

// Describe sets the short description and, optionally, the full one.
func (c *CommandBuilder) Describe(short string, full ...string) *CommandBuilder {
	c.cmd.ShortDescription = short
	if len(full) > 0 {
		c.cmd.FullDescription = full[0]
	}
	return c
}

// Usage replaces the generated usage lines.
func (c *CommandBuilder) Usage(lines ...string) *CommandBuilder {
	c.cmd.Usage = append(c.cmd.Usage, lines...)
	return c
}

// Help overrides the generated help topic.
func (c *CommandBuilder) Help(topic domain.HelpTopic) *CommandBuilder {
	c.cmd.HelpTopic = &topic
	return c
}

// Executes sets the executor carried to the command's executable nodes.
func (c *CommandBuilder) Executes(run domain.Executor) *CommandBuilder {
	c.cmd.Run = run
	return c
}

// Build returns the declared command.
// Slices are copied so later builder calls do not leak into it.
func (c *CommandBuilder) Build() domain.RegisteredCommand {
	out := c.cmd
	out.Arguments = append([]domain.Argument(nil), c.cmd.Arguments...)
	out.Aliases = append([]string(nil), c.cmd.Aliases...)
	out.Usage = append([]string(nil), c.cmd.Usage...)
	return out
}
