package main

import (
	"time"

	"github.com/spf13/cobra"
)

var recallsCmd = &cobra.Command{
	Use:   "recalls",
	Short: "List recent recalls grouped by period",
	Args:  cobra.NoArgs,
	RunE:  runRecalls,
}

func init() {
	recallsCmd.Flags().StringP("query", "q", "", "Only show recalls mentioning this text")
	recallsCmd.Flags().String("format", "table", "Output format: json, table")
	rootCmd.AddCommand(recallsCmd)
}

func runRecalls(cmd *cobra.Command, _ []string) error {
	query, _ := cmd.Flags().GetString("query")

	buckets, err := application.Recalls.RecentRecalls(cmd.Context(), query, time.Now())
	if err != nil {
		return err
	}

	if format, _ := cmd.Flags().GetString("format"); format == "json" {
		return writeJSON(cmd.OutOrStdout(), buckets)
	}
	printBuckets(cmd.OutOrStdout(), buckets)
	return nil
}
