package main

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags.
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "tiffbench",
	Short: "Benchmark TIFF compression variants for a GeoTIFF",
	Long: `Tiffbench re-encodes one GeoTIFF under a catalog of compression
variants and measures encoded size, write time and read time for each.

Artifacts are written to a scratch directory next to the source image
and removed when the run ends.

Examples:
  # Benchmark a local image
  tiffbench run ortho.tif

  # Benchmark a remote image, three trials per phase, Markdown output
  tiffbench run s3://imagery/ortho.tif.zst --trials 3 --format markdown

  # Show the active variant catalog
  tiffbench catalog`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}
