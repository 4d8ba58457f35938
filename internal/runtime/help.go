package runtime

import (
	"strings"

	"github.com/aretw0/cmdgraph/pkg/domain"
	"github.com/aretw0/cmdgraph/pkg/ports"
)

// HelpGenerator builds help topics for registered commands.
type HelpGenerator struct {
	registry ports.Registry
	plugin   string
}

// NewHelpGenerator creates a generator. plugin names the fallback description.
func NewHelpGenerator(registry ports.Registry, plugin string) *HelpGenerator {
	return &HelpGenerator{registry: registry, plugin: plugin}
}

// Generate returns the topics to store for cmds and the namespaced topic
// names to drop. all is every registered command; usage lines are collected
// from all commands sharing a name.
func (h *HelpGenerator) Generate(cmds, all []domain.RegisteredCommand) ([]domain.HelpTopic, []string) {
	topics := make(map[string]domain.HelpTopic)
	var order []string
	put := func(t domain.HelpTopic) {
		if _, seen := topics[t.Name]; !seen {
			order = append(order, t.Name)
		}
		topics[t.Name] = t
	}
	var namespaced []string

	for _, cmd := range cmds {
		permission := ""
		if cmd.Permission.Kind == domain.PermissionNamed {
			permission = cmd.Permission.Node
		}

		prefix := h.prefix(cmd.Name)
		if ns, ok := h.namespacedPrefix(cmd.Name, cmd.Namespace); ok {
			namespaced = append(namespaced, ns)
		}

		if cmd.HelpTopic != nil {
			put(h.custom(*cmd.HelpTopic, prefix))
			for _, alias := range cmd.Aliases {
				put(h.custom(*cmd.HelpTopic, h.prefix(alias)))
				if ns, ok := h.namespacedPrefix(alias, cmd.Namespace); ok {
					namespaced = append(namespaced, ns)
				}
			}
			continue
		}

		short := cmd.ShortDescription
		switch {
		case short != "":
		case cmd.FullDescription != "":
			short = cmd.FullDescription
		default:
			short = "A command by the " + h.plugin + " plugin."
		}

		var sb strings.Builder
		if cmd.FullDescription != "" {
			sb.WriteString("Description: " + cmd.FullDescription + "\n")
		}
		writeUsage(&sb, usageList(cmd, all))
		sb.WriteString("\n")
		base := sb.String()

		full := base
		if len(cmd.Aliases) > 0 {
			full += "Aliases: " + strings.Join(cmd.Aliases, ", ")
		}
		put(domain.HelpTopic{Name: prefix, ShortText: short, FullText: strings.TrimSpace(full), Permission: permission})

		for _, alias := range cmd.Aliases {
			others := make([]string, 0, len(cmd.Aliases))
			for _, a := range cmd.Aliases {
				if a != alias {
					others = append(others, a)
				}
			}
			others = append(others, cmd.Name)
			text := base + "Aliases: " + strings.Join(others, ", ")
			put(domain.HelpTopic{Name: h.prefix(alias), ShortText: short, FullText: strings.TrimSpace(text), Permission: permission})
			if ns, ok := h.namespacedPrefix(alias, cmd.Namespace); ok {
				namespaced = append(namespaced, ns)
			}
		}
	}

	out := make([]domain.HelpTopic, 0, len(order))
	for _, name := range order {
		out = append(out, topics[name])
	}
	return out, namespaced
}

// prefix is "/name", or "/minecraft:name" when another actor holds the bare name.
func (h *HelpGenerator) prefix(name string) string {
	if h.foreignHolds(name) {
		return domain.HelpPrefix(domain.Reserved(name))
	}
	return domain.HelpPrefix(name)
}

// namespacedPrefix is the "/ns:name" topic that must not exist. When another
// actor holds the bare name the reserved form is the real topic, so nothing is dropped.
func (h *HelpGenerator) namespacedPrefix(name, ns string) (string, bool) {
	if h.foreignHolds(name) {
		return "", false
	}
	return domain.HelpPrefix(domain.QualifiedName(ns, name)), true
}

func (h *HelpGenerator) foreignHolds(name string) bool {
	e, ok := h.registry.Get(name)
	return ok && !e.Owned()
}

func (h *HelpGenerator) custom(t domain.HelpTopic, name string) domain.HelpTopic {
	t.Name = name
	return t
}

func usageList(cmd domain.RegisteredCommand, all []domain.RegisteredCommand) []string {
	if len(cmd.Usage) > 0 {
		return cmd.Usage
	}
	var usages []string
	for _, other := range all {
		if other.Name == cmd.Name {
			usages = append(usages, other.UsageLine())
		}
	}
	return usages
}

func writeUsage(sb *strings.Builder, usages []string) {
	switch len(usages) {
	case 0:
		return
	case 1:
		sb.WriteString("Usage: " + usages[0])
	default:
		sb.WriteString("Usage:")
		for _, u := range usages {
			sb.WriteString("\n- " + u)
		}
	}
}
