package main

import (
	"fmt"

	"github.com/aretw0/cmdgraph/pkg/domain"
	"github.com/spf13/cobra"
)

var unregisterCmd = &cobra.Command{
	Use:   "unregister <command>",
	Short: "Unregister a command and show what was removed",
	Long: `Runs the manifest through the host lifecycle, then unregisters the command
with the given scope. Owned scope removes this plugin's nodes; foreign scope
removes what other actors registered directly in the host.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		host, _, _, err := startHost(cmd)
		if err != nil {
			return err
		}
		defer host.Close()

		namespaced, _ := cmd.Flags().GetBool("namespaced")
		rawScope, _ := cmd.Flags().GetString("scope")
		removed, err := host.Engine.Unregister(cmd.Context(), args[0], namespaced, domain.ParseScope(rawScope))

		out := cmd.OutOrStdout()
		if len(removed) == 0 {
			fmt.Fprintln(out, "nothing removed")
		}
		for _, name := range removed {
			fmt.Fprintf(out, "removed %s\n", name)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(unregisterCmd)
	unregisterCmd.Flags().Bool("namespaced", false, "Also remove namespaced variants (ns:name)")
	unregisterCmd.Flags().String("scope", string(domain.ScopeOwned), "Scope: owned or foreign")
}
