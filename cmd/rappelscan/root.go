package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rappelscan/backend/config"
	"github.com/rappelscan/backend/internal/app"
	"github.com/rappelscan/backend/internal/logging"
)

var application *app.App

var rootCmd = &cobra.Command{
	Use:   "rappelscan",
	Short: "RappelScan - product recall checker, API server and MCP server",
	Long: "RappelScan checks barcodes and saved favorites against the official French\n" +
		"consumer recall feed (RappelConso), with product names from Open Food Facts.",
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().String("favorites-driver", "", "Favorites storage: badger, sqlite (overrides config)")
	rootCmd.PersistentFlags().String("favorites-path", "", "Favorites storage path (overrides config)")
}

func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Override from flags; persistent flags are merged into the running command
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v, _ := cmd.Flags().GetString("favorites-driver"); v != "" {
		cfg.Favorites.Driver = v
	}
	if v, _ := cmd.Flags().GetString("favorites-path"); v != "" {
		cfg.Favorites.Path = v
	}

	logger := logging.NewWithOutput(cfg.Log, cmd.ErrOrStderr())
	application, err = app.New(cfg, logger)
	return err
}

func teardown(*cobra.Command, []string) error {
	if application == nil {
		return nil
	}
	return application.Close()
}
