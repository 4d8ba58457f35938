package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/cmdgraph/internal/presentation/graph"
	"github.com/aretw0/cmdgraph/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		nodes    []domain.NodeSnapshot
		overlay  *graph.GraphOverlay
		contains []string
		excludes []string
	}{
		{
			name:  "Root Literal Shape",
			nodes: []domain.NodeSnapshot{{Name: "heal", Kind: domain.KindLiteral}},
			contains: []string{
				"heal([\"/heal\"])",
			},
		},
		{
			name: "Argument Shape And Edge",
			nodes: []domain.NodeSnapshot{{
				Name: "heal",
				Kind: domain.KindLiteral,
				Children: []domain.NodeSnapshot{
					{Name: "target", Kind: domain.KindArgument, ArgumentType: "player", Executable: true},
				},
			}},
			contains: []string{
				"heal__target[/\"&lt;target&gt; : player\"/]",
				"heal --> heal__target",
				"class heal__target executable;",
			},
		},
		{
			name: "Namespaced ID Sanitization",
			nodes: []domain.NodeSnapshot{
				{Name: "minecraft:give", Kind: domain.KindLiteral, Origin: domain.OriginHost},
				{Name: "my-plugin.x", Kind: domain.KindLiteral, Origin: domain.OriginForeign},
			},
			contains: []string{
				"minecraft__give([\"/minecraft:give\"])",
				"my_plugin_x([\"/my-plugin.x\"])",
				"class minecraft__give host;",
				"class my_plugin_x foreign;",
			},
		},
		{
			name:     "Overlay Highlight",
			nodes:    []domain.NodeSnapshot{{Name: "warp"}},
			overlay:  &graph.GraphOverlay{Highlight: []string{"warp"}},
			contains: []string{"class warp highlight;"},
		},
		{
			name:     "No Empty Classes",
			nodes:    []domain.NodeSnapshot{{Name: "warp"}},
			excludes: []string{"class  executable", "highlight"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.nodes, tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("GenerateMermaid() = \n%v\nUnexpected substring: %v", got, bad)
				}
			}
		})
	}
}
