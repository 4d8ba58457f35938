package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print every structure the engine keeps in sync",
	Long: `Runs the manifest through the host lifecycle and prints the execution tree,
published tree, registry and help topics as JSON. With --dispatcher the
execution tree is also written to the dispatcher snapshot file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		host, cfg, _, err := startHost(cmd)
		if err != nil {
			return err
		}
		defer host.Close()

		ctx := cmd.Context()
		if dispatcher, _ := cmd.Flags().GetBool("dispatcher"); dispatcher {
			if err := host.Engine.WriteSnapshot(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "dispatcher snapshot written to %s\n", cfg.SnapshotPath)
		}

		snap, err := host.Engine.Snapshot(ctx)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.Flags().Bool("dispatcher", false, "Also write the dispatcher snapshot file")
}
