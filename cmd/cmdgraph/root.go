package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/cmdgraph/internal/cli"
	"github.com/aretw0/cmdgraph/internal/config"
	"github.com/aretw0/cmdgraph/internal/manifest"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cmdgraph",
	Short: "cmdgraph keeps a plugin's commands in sync with its host",
	Long: `cmdgraph loads a command manifest into an in-process host, runs the
registration lifecycle and lets you inspect the resulting execution tree,
published tree, registry and help topics.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("manifest", "m", "", "Command manifest (YAML or JSON); defaults to $CMDGRAPH_MANIFEST")
	rootCmd.PersistentFlags().String("env-file", ".env", "Optional dotenv file")
	rootCmd.PersistentFlags().String("stage", "loaded", "Lifecycle stage to reach: preload, enabled or loaded")
	rootCmd.PersistentFlags().Bool("debug", false, "Log engine events to stderr")
}

// loadConfig merges the environment, the dotenv file and the flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(envFile)
	if err != nil {
		return cfg, err
	}
	if path, _ := cmd.Flags().GetString("manifest"); path != "" {
		cfg.Manifest = path
	}
	return cfg, nil
}

// startHost loads the manifest and drives the host to the requested stage.
func startHost(cmd *cobra.Command) (*cli.Host, config.Config, *slog.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, cfg, nil, err
	}
	debug, _ := cmd.Flags().GetBool("debug")
	logger := cli.CreateLogger(cfg.Level(), debug)

	rawStage, _ := cmd.Flags().GetString("stage")
	stage, err := cli.ParseStage(rawStage)
	if err != nil {
		return nil, cfg, logger, err
	}

	m, err := manifest.Load(cfg.Manifest)
	if err != nil {
		return nil, cfg, logger, err
	}
	host, err := cli.NewHost(m, cli.HostOptions{Config: cfg, Debug: debug}, logger)
	if err != nil {
		return nil, cfg, logger, err
	}
	if err := host.Start(cmd.Context(), stage); err != nil {
		// Registration problems are reported but the host stays usable.
		logger.Warn("host started with errors", "error", err)
	}
	return host, cfg, logger, nil
}
