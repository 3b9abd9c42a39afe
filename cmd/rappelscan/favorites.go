package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rappelscan/backend/internal/domain"
)

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav"},
	Short:   "Manage the products watched for recalls",
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved favorites",
	Args:  cobra.NoArgs,
	RunE:  runFavoritesList,
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Save a product to watch",
	Long: "Save a product to watch. With only --barcode, the name and brand are\n" +
		"looked up in the catalog, then in the recall feed.",
	Args: cobra.NoArgs,
	RunE: runFavoritesAdd,
}

var favoritesRemoveCmd = &cobra.Command{
	Use:     "rm [id]",
	Aliases: []string{"remove"},
	Short:   "Remove a favorite",
	Args:    cobra.ExactArgs(1),
	RunE:    runFavoritesRemove,
}

func init() {
	favoritesListCmd.Flags().String("format", "table", "Output format: json, table")

	favoritesAddCmd.Flags().String("name", "", "Product name")
	favoritesAddCmd.Flags().String("brand", "", "Brand")
	favoritesAddCmd.Flags().String("barcode", "", "EAN/GTIN barcode")

	favoritesCmd.AddCommand(favoritesListCmd, favoritesAddCmd, favoritesRemoveCmd)
	rootCmd.AddCommand(favoritesCmd)
}

func runFavoritesList(cmd *cobra.Command, _ []string) error {
	favorites, err := application.Favorites.List(cmd.Context())
	if err != nil {
		return err
	}

	if format, _ := cmd.Flags().GetString("format"); format == "json" {
		return writeJSON(cmd.OutOrStdout(), favorites)
	}
	printFavorites(cmd.OutOrStdout(), favorites)
	return nil
}

func runFavoritesAdd(cmd *cobra.Command, _ []string) error {
	name, _ := cmd.Flags().GetString("name")
	brand, _ := cmd.Flags().GetString("brand")
	barcode, _ := cmd.Flags().GetString("barcode")

	if barcode != "" && name == "" && brand == "" {
		product, err := application.Recalls.LookupProduct(cmd.Context(), barcode)
		if err != nil {
			return err
		}
		if product.Found {
			name, brand = product.ProductName, product.Brand
		}
	}

	fav, err := application.Favorites.Add(cmd.Context(), domain.FavoriteInput{
		ProductName: &name,
		Brand:       &brand,
		Barcode:     &barcode,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", favoriteLabel(fav), fav.ID)
	return nil
}

func runFavoritesRemove(cmd *cobra.Command, args []string) error {
	if err := application.Favorites.Remove(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
	return nil
}
