package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/cmdgraph/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// If the terminal renderer cannot be built, markdown is returned as is.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// HelpMarkdown lays help topics out as a markdown document.
func HelpMarkdown(topics []domain.HelpTopic) string {
	var sb strings.Builder
	sb.WriteString("# Commands\n")
	if len(topics) == 0 {
		sb.WriteString("\n_No help topics._\n")
		return sb.String()
	}
	for _, t := range topics {
		sb.WriteString(fmt.Sprintf("\n## `%s`\n\n", t.Name))
		if t.ShortText != "" {
			sb.WriteString(t.ShortText + "\n\n")
		}
		if t.FullText != "" {
			sb.WriteString("```\n" + t.FullText + "\n```\n")
		}
		if t.Permission != "" {
			sb.WriteString(fmt.Sprintf("\nPermission: `%s`\n", t.Permission))
		}
	}
	return sb.String()
}

// RenderHelp renders help topics with render, typically from NewRenderer.
func RenderHelp(topics []domain.HelpTopic, render func(string) (string, error)) (string, error) {
	out, err := render(HelpMarkdown(topics))
	if err != nil {
		return "", fmt.Errorf("failed to render help: %w", err)
	}
	return out, nil
}
