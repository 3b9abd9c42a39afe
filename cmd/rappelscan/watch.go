package main

import (
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Check every favorite once and print the alerts",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().String("format", "table", "Output format: json, table")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	alerts, err := application.Watch.Refresh(cmd.Context())
	if err != nil {
		return err
	}

	if format, _ := cmd.Flags().GetString("format"); format == "json" {
		return writeJSON(cmd.OutOrStdout(), alerts)
	}
	printAlerts(cmd.OutOrStdout(), alerts)
	return nil
}
