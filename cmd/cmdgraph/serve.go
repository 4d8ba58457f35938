package main

import (
	"fmt"

	"github.com/aretw0/cmdgraph/internal/cli"
	"github.com/aretw0/cmdgraph/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the inspection HTTP server",
	Long: `Starts an in-process host for the manifest and exposes the engine over HTTP:
trees, registry, help, Mermaid graph, unregistration, the seal trigger,
server-sent events and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		host, cfg, logger, err := startHost(cmd)
		if err != nil {
			return err
		}
		defer host.Close()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}

		tui.PrintBanner(cmd.ErrOrStderr())
		fmt.Fprintf(cmd.ErrOrStderr(), "plugin %s, phase %s, listening on %s\n",
			host.Manifest.Plugin, tui.PhaseLabel(host.Engine.Phase()), cfg.Addr)

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()
		err = cli.Serve(ctx, host, cfg.Addr, logger)
		if sig := ctx.Signal(); sig != nil {
			logger.Info("server stopped", "signal", sig.String())
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Address to listen on; defaults to $CMDGRAPH_ADDR")
}
