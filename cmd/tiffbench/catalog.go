package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geobench/tiffbench/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Show the active variant catalog",
	Long: `Print the variant catalog a run would benchmark, in order.

Examples:
  # Built-in catalog
  tiffbench catalog

  # Custom catalog file
  tiffbench catalog --catalog variants.yaml`,
	RunE: runCatalog,
}

var showCatalogPath string

func init() {
	catalogCmd.Flags().StringVar(&showCatalogPath, "catalog", "", "YAML variant catalog (default: built-in six variants)")
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	variants := catalog.Default()
	if showCatalogPath != "" {
		loaded, err := catalog.Load(showCatalogPath)
		if err != nil {
			return err
		}
		variants = loaded
	}

	for i, v := range variants {
		layout := "strips"
		if v.Tiled {
			layout = "tiles"
		}
		fmt.Printf("%d. %-16s compression=%-9s predictor=%d %s -> %s\n",
			i+1, v.Display, v.Compression, v.Predictor, layout, v.Filename())
	}
	return nil
}
