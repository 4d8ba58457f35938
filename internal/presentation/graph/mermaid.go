package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/cmdgraph/pkg/domain"
)

// GraphOverlay highlights parts of the tree.
type GraphOverlay struct {
	// Highlight lists root command names to mark.
	Highlight []string
}

// GenerateMermaid produces a Mermaid flowchart of a command tree.
// It applies semantic styling:
// - Root literal: ([Stadium])
// - Literal: [Rectangle]
// - Argument: [/Parallelogram/]
// Executable nodes, host built-ins and foreign nodes get their own classes.
func GenerateMermaid(nodes []domain.NodeSnapshot, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	classes := map[string][]string{}
	for _, n := range nodes {
		writeNode(&sb, n, "", true, classes)
	}

	sb.WriteString("\n    classDef executable stroke:#2e7d32,stroke-width:3px;\n")
	sb.WriteString("    classDef host fill:#eceff1,color:#000;\n")
	sb.WriteString("    classDef foreign fill:#fff3e0,stroke-dasharray:4 2,color:#000;\n")
	for _, class := range []string{"executable", "host", "foreign"} {
		if ids := classes[class]; len(ids) > 0 {
			sb.WriteString(fmt.Sprintf("    class %s %s;\n", strings.Join(ids, ","), class))
		}
	}

	if overlay != nil && len(overlay.Highlight) > 0 {
		// Force black text (color:#000) for high-contrast on light backgrounds
		sb.WriteString("    classDef highlight fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		for _, name := range overlay.Highlight {
			sb.WriteString(fmt.Sprintf("    class %s highlight;\n", sanitizeMermaidID(name)))
		}
	}

	return sb.String()
}

func writeNode(sb *strings.Builder, n domain.NodeSnapshot, parent string, root bool, classes map[string][]string) {
	id := sanitizeMermaidID(n.Name)
	if parent != "" {
		id = parent + "__" + id
	}

	opener, closer := "[", "]"
	label := n.Name
	switch {
	case root:
		opener, closer = "([", "])"
		label = "/" + n.Name
	case n.Kind == domain.KindArgument:
		opener, closer = "[/", "/]"
		label = "&lt;" + n.Name + "&gt;"
		if n.ArgumentType != "" {
			label += " : " + n.ArgumentType
		}
	}
	sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, label, closer))
	if parent != "" {
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", parent, id))
	}

	if n.Executable {
		classes["executable"] = append(classes["executable"], id)
	}
	switch n.Origin {
	case domain.OriginHost:
		classes["host"] = append(classes["host"], id)
	case domain.OriginForeign:
		classes["foreign"] = append(classes["foreign"], id)
	}

	for _, c := range n.Children {
		writeNode(sb, c, id, false, classes)
	}
}

func sanitizeMermaidID(id string) string {
	r := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", ":", "__")
	return r.Replace(id)
}
