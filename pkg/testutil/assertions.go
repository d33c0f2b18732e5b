package testutil

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/layerlens/pkg/atlas"
)

// AssertEqual fails the test when got != want.
func AssertEqual[T comparable](t *testing.T, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

// AssertNoError fails the test when err is non-nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertErrorIs fails the test when err does not wrap target.
func AssertErrorIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Errorf("expected error %v, got %v", target, err)
	}
}

// AssertLayerCount verifies the expected number of layers.
func AssertLayerCount(t *testing.T, a *atlas.Atlas, expected int) {
	t.Helper()
	if len(a.Layers) != expected {
		t.Errorf("expected %d layers, got %d", expected, len(a.Layers))
	}
}

// AssertNoDanglingRefs verifies every expandable node resolves to a layer.
func AssertNoDanglingRefs(t *testing.T, a *atlas.Atlas) {
	t.Helper()
	if refs := a.DanglingRefs(); len(refs) > 0 {
		t.Errorf("expected no dangling child references, got %v", refs)
	}
}

// AssertResolves verifies that the named node exists on the named layer
// and that its child reference resolves to wantIndex.
func AssertResolves(t *testing.T, a *atlas.Atlas, layerID, nodeID string, wantIndex int) {
	t.Helper()
	li, ok := a.LayerIndex(layerID)
	if !ok {
		t.Fatalf("layer %q not found", layerID)
	}
	n, ok := a.Layers[li].Node(nodeID)
	if !ok {
		t.Fatalf("node %q not found on layer %q", nodeID, layerID)
	}
	idx, ok := a.ResolveChild(n)
	if !ok {
		t.Fatalf("node %q does not resolve to a layer", nodeID)
	}
	if idx != wantIndex {
		t.Errorf("node %q resolves to layer %d, want %d", nodeID, idx, wantIndex)
	}
}

// FindNode returns the named node from the named layer, or nil.
func FindNode(a *atlas.Atlas, layerID, nodeID string) *atlas.Node {
	li, ok := a.LayerIndex(layerID)
	if !ok {
		return nil
	}
	n, ok := a.Layers[li].Node(nodeID)
	if !ok {
		return nil
	}
	return n
}

// WriteAtlasFile marshals the atlas to YAML under dir and returns the
// path. The file is cleaned up with the test's temp dir.
func WriteAtlasFile(t *testing.T, dir string, a atlas.Atlas) string {
	t.Helper()

	data, err := yaml.Marshal(a)
	if err != nil {
		t.Fatalf("failed to marshal atlas: %v", err)
	}
	path := filepath.Join(dir, "atlas.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write atlas file: %v", err)
	}
	return path
}

// Golden file helpers

// GoldenFile handles golden file comparisons.
type GoldenFile struct {
	t      *testing.T
	dir    string
	name   string
	update bool
}

// NewGoldenFile creates a golden file helper.
// If GENERATE_GOLDEN env var is set, golden files will be updated.
func NewGoldenFile(t *testing.T, dir, name string) *GoldenFile {
	t.Helper()
	return &GoldenFile{
		t:      t,
		dir:    dir,
		name:   name,
		update: os.Getenv("GENERATE_GOLDEN") != "",
	}
}

// Path returns the full path to the golden file.
func (g *GoldenFile) Path() string {
	return filepath.Join(g.dir, g.name)
}

// Assert compares actual content against the golden file.
// If GENERATE_GOLDEN is set, updates the golden file instead.
func (g *GoldenFile) Assert(actual string) {
	g.t.Helper()

	path := g.Path()

	if g.update {
		if err := os.MkdirAll(g.dir, 0o755); err != nil {
			g.t.Fatalf("failed to create golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(actual), 0o644); err != nil {
			g.t.Fatalf("failed to write golden file: %v", err)
		}
		g.t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			g.t.Fatalf("golden file does not exist: %s\nRun with GENERATE_GOLDEN=1 to create it", path)
		}
		g.t.Fatalf("failed to read golden file: %v", err)
	}

	if string(expected) != actual {
		// Report the first differing line rather than dumping both blobs.
		expectedLines := strings.Split(string(expected), "\n")
		actualLines := strings.Split(actual, "\n")

		for i := 0; i < len(expectedLines) || i < len(actualLines); i++ {
			var expLine, actLine string
			if i < len(expectedLines) {
				expLine = expectedLines[i]
			}
			if i < len(actualLines) {
				actLine = actualLines[i]
			}
			if expLine != actLine {
				g.t.Errorf("golden file mismatch at line %d:\nexpected: %s\nactual:   %s",
					i+1, expLine, actLine)
				return
			}
		}
		g.t.Errorf("golden file mismatch (length differs)")
	}
}

// AssertJSON compares actual value as indented JSON against the golden file.
func (g *GoldenFile) AssertJSON(actual interface{}) {
	g.t.Helper()

	data, err := json.MarshalIndent(actual, "", "  ")
	if err != nil {
		g.t.Fatalf("failed to marshal actual value: %v", err)
	}

	g.Assert(string(data))
}
