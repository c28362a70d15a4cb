package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Guliveer/mission-control/internal/config"
)

var (
	initPath  string
	initForce bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create or check configuration files",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to a file",
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a configuration file, or the layered configuration when no file is given",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigValidate,
}

func init() {
	configInitCmd.Flags().StringVar(&initPath, "path", "", "Destination file (default: --config, then the per-user location)")
	configInitCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := initPath
	if path == "" {
		path = configPath
	}
	if path == "" {
		path = config.DefaultPath()
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg := config.DefaultConfig()
	if rootDir != "" {
		cfg.Sources.Root = rootDir
	}
	if err := config.WriteConfig(cfg, path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		if _, err := loadConfig(config.CLIOverrides{}); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "configuration ok")
		return nil
	}

	path := args[0]
	// Load falls back to defaults for a missing file, which would hide a typo.
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s ok\n", path)
	return nil
}
