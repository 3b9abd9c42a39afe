package main

import (
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Suggest catalog products for a name or brand",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().String("format", "table", "Output format: json, table")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	products, err := application.Recalls.SearchProducts(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if format, _ := cmd.Flags().GetString("format"); format == "json" {
		return writeJSON(cmd.OutOrStdout(), products)
	}
	printProducts(cmd.OutOrStdout(), products)
	return nil
}
