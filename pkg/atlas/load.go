package atlas

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultAtlas []byte

// Parse decodes and validates an atlas document.
func Parse(data []byte) (*Atlas, error) {
	var a Atlas
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parsing atlas: %w", err)
	}
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("validating atlas: %w", err)
	}
	return &a, nil
}

// Load reads and parses an atlas from a YAML file.
func Load(path string) (*Atlas, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading atlas: %w", err)
	}
	a, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// Demo returns the embedded demonstration atlas, shown when no atlas file
// is given on the command line.
func Demo() *Atlas {
	a, err := Parse(defaultAtlas)
	if err != nil {
		// The embedded document is part of the build; failing to parse it
		// is a programming error, not a runtime condition.
		panic(fmt.Sprintf("embedded atlas invalid: %v", err))
	}
	return a
}
