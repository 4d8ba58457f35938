package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/cmdgraph"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of cmdgraph",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "cmdgraph version %s\n", strings.TrimSpace(cmdgraph.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
