// Package catalog defines the ordered set of codec variants under benchmark.
//
// The catalog is pure data: every downstream stage iterates it generically,
// so adding a codec/predictor combination never touches harness logic.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/geobench/tiffbench/internal/engine"
)

// Variant is one named codec configuration. Immutable once defined.
type Variant struct {
	// Name is the artifact file stem, e.g. "deflate_2".
	Name string `yaml:"name"`

	// Display is the column label shown in reports.
	Display string `yaml:"display"`

	Compression engine.Compression `yaml:"compression"`
	Predictor   int                `yaml:"predictor"`
	Tiled       bool               `yaml:"tiled"`
}

// Filename returns the artifact filename for the variant.
func (v Variant) Filename() string {
	return v.Name + ".tif"
}

// TranslateOptions returns the engine options that encode this variant.
// All variants request BigTIFF IF_SAFE, matching the reference tool.
func (v Variant) TranslateOptions() engine.TranslateOptions {
	return engine.TranslateOptions{
		Compression: v.Compression,
		Predictor:   v.Predictor,
		Tiled:       v.Tiled,
		BigTIFF:     engine.BigTIFFIfSafe,
	}
}

// Default returns the fixed six-variant catalog, in benchmark order.
func Default() []Variant {
	return []Variant{
		{Name: "uncompressed", Display: "Uncompressed", Compression: engine.CompressionNone, Predictor: engine.PredictorNone},
		{Name: "packbits", Display: "Packbits", Compression: engine.CompressionPackBits, Predictor: engine.PredictorNone, Tiled: true},
		{Name: "deflate_1", Display: "Deflate pred=1", Compression: engine.CompressionDeflate, Predictor: engine.PredictorNone, Tiled: true},
		{Name: "deflate_2", Display: "Deflate pred=2", Compression: engine.CompressionDeflate, Predictor: engine.PredictorHorizontal, Tiled: true},
		{Name: "lzw_1", Display: "LZW pred=1", Compression: engine.CompressionLZW, Predictor: engine.PredictorNone, Tiled: true},
		{Name: "lzw_2", Display: "LZW pred=2", Compression: engine.CompressionLZW, Predictor: engine.PredictorHorizontal, Tiled: true},
	}
}

// Load reads a variant catalog from a YAML file. A missing predictor
// defaults to none, a missing display label to the variant name.
func Load(path string) ([]Variant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	var doc struct {
		Variants []Variant `yaml:"variants"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing catalog file: %w", err)
	}

	for i := range doc.Variants {
		if doc.Variants[i].Predictor == 0 {
			doc.Variants[i].Predictor = engine.PredictorNone
		}
		if doc.Variants[i].Display == "" {
			doc.Variants[i].Display = doc.Variants[i].Name
		}
	}

	if err := Validate(doc.Variants); err != nil {
		return nil, err
	}
	return doc.Variants, nil
}

// Validate checks that variants form a usable catalog: non-empty, unique
// names, known compression schemes and predictor modes.
func Validate(variants []Variant) error {
	if len(variants) == 0 {
		return fmt.Errorf("catalog: no variants defined")
	}

	seen := make(map[string]bool, len(variants))
	for _, v := range variants {
		if v.Name == "" {
			return fmt.Errorf("catalog: variant with empty name")
		}
		if seen[v.Name] {
			return fmt.Errorf("catalog: duplicate variant %q", v.Name)
		}
		seen[v.Name] = true

		switch v.Compression {
		case engine.CompressionNone, engine.CompressionPackBits,
			engine.CompressionDeflate, engine.CompressionLZW:
		default:
			return fmt.Errorf("catalog: variant %q: unknown compression %q", v.Name, v.Compression)
		}

		if v.Predictor != engine.PredictorNone && v.Predictor != engine.PredictorHorizontal {
			return fmt.Errorf("catalog: variant %q: invalid predictor %d", v.Name, v.Predictor)
		}
	}
	return nil
}

// Displays returns the display names of variants, in catalog order.
func Displays(variants []Variant) []string {
	names := make([]string, len(variants))
	for i, v := range variants {
		names[i] = v.Display
	}
	return names
}
