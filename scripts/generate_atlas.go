//go:build ignore

// generate_atlas.go writes atlas fixtures for benchmarks and manual
// exploration (lx -atlas testdata/atlases/<name>.yaml).
// Usage: go run scripts/generate_atlas.go
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/layerlens/pkg/atlas"
	"github.com/vanderheijden86/layerlens/pkg/testutil"
)

func main() {
	outputDir := "testdata/atlases"
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	gen := testutil.NewGenerator(testutil.GeneratorConfig{
		Seed:          42,
		Depth:         4,
		NodesPerLayer: 12,
		Title:         "wide fixture",
	})

	fixtures := []struct {
		name string
		a    atlas.Atlas
	}{
		{"wide", gen.Atlas()},
		{"chain", gen.Chain(8)},
		{"packed", gen.Packed(24, 8)},
	}

	for _, f := range fixtures {
		if err := f.a.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Generated %s is invalid: %v\n", f.name, err)
			os.Exit(1)
		}
		data, err := yaml.Marshal(f.a)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to marshal %s: %v\n", f.name, err)
			os.Exit(1)
		}
		path := filepath.Join(outputDir, f.name+".yaml")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("Written %s (%d layers, %d bytes)\n", path, len(f.a.Layers), len(data))
	}
}
