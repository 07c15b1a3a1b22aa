// Package main provides the tiffbench CLI tool for benchmarking TIFF
// compression variants against a single source image.
package main

import (
	"errors"
	"os"

	"github.com/geobench/tiffbench"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, tiffbench.ErrPartial) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
