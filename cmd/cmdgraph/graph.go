package main

import (
	"fmt"

	"github.com/aretw0/cmdgraph/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the command tree visualization",
	Long:  `Runs the manifest through the host lifecycle and outputs a Mermaid diagram (graph LR) of the chosen tree.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		host, _, _, err := startHost(cmd)
		if err != nil {
			return err
		}
		defer host.Close()

		snap, err := host.Engine.Snapshot(cmd.Context())
		if err != nil {
			return err
		}

		tree, _ := cmd.Flags().GetString("tree")
		nodes := snap.Execution
		switch tree {
		case "execution":
		case "published":
			nodes = snap.Published
		default:
			return fmt.Errorf("unknown tree %q (expected execution or published)", tree)
		}

		highlight, _ := cmd.Flags().GetStringSlice("highlight")
		var overlay *graph.GraphOverlay
		if len(highlight) > 0 {
			overlay = &graph.GraphOverlay{Highlight: highlight}
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(nodes, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("tree", "execution", "Tree to draw: execution or published")
	graphCmd.Flags().StringSlice("highlight", nil, "Root commands to highlight")
}
