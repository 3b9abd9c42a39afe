package main

import (
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan [barcode]",
	Short: "Check a barcode against the recall feed",
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().String("format", "table", "Output format: json, table")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	result, err := application.Recalls.Scan(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if format, _ := cmd.Flags().GetString("format"); format == "json" {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	printScan(cmd.OutOrStdout(), result)
	return nil
}
