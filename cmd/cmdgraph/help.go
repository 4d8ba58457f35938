package main

import (
	"fmt"

	"github.com/aretw0/cmdgraph/internal/presentation/tui"
	"github.com/aretw0/cmdgraph/pkg/domain"
	"github.com/spf13/cobra"
)

var helpTopicsCmd = &cobra.Command{
	Use:   "topics [command]",
	Short: "Render the generated help topics",
	Long:  `Runs the manifest through the host lifecycle and renders the help topics the engine published.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		host, _, _, err := startHost(cmd)
		if err != nil {
			return err
		}
		defer host.Close()

		ctx := cmd.Context()
		var topics []domain.HelpTopic
		if len(args) > 0 {
			topic, ok, err := host.Engine.HelpMap().Get(ctx, domain.HelpPrefix(args[0]))
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no help topic for %q", args[0])
			}
			topics = append(topics, topic)
		} else {
			topics, err = host.Engine.HelpMap().Topics(ctx)
			if err != nil {
				return err
			}
		}

		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			fmt.Fprint(cmd.OutOrStdout(), tui.HelpMarkdown(topics))
			return nil
		}
		out, err := tui.RenderHelp(topics, tui.NewRenderer())
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(helpTopicsCmd)
	helpTopicsCmd.Flags().Bool("raw", false, "Print markdown without terminal styling")
}
