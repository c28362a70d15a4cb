// Package main is the entry point for the mission-control dashboard. It
// serves the aggregation API, watches a running server from the terminal,
// or prints a one-off snapshot of every source.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Guliveer/mission-control/internal/config"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	configPath string
	rootDir    string
)

var rootCmd = &cobra.Command{
	Use:   "mission-control",
	Short: "Mission Control - agent, task, trading and host dashboard",
	Long: `Mission Control reads the agent workspace, task list, trading ledger, host
statistics and cron listing on every request and serves them as JSON. The
watch command renders a live terminal dashboard from a running server.`,
	SilenceUsage: true,
	// No RunE - defaults to showing help when no subcommand is provided
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file (default: auto-detect)")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "Directory that relative source paths are resolved against")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig applies the layered configuration with flag overrides.
func loadConfig(cli config.CLIOverrides) (*config.Config, error) {
	cli.Root = rootDir

	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadLayered(cli, embeddedConfig, configPath)
	} else {
		cfg, err = config.LoadLayered(cli, embeddedConfig)
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and exit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "mission-control %s\n", version)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
