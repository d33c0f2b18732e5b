package export

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/vanderheijden86/layerlens/pkg/atlas"
)

// AllLayers selects every layer instead of a single one.
const AllLayers = -1

// WizardResult describes the export the user chose.
type WizardResult struct {
	LayerIndex int    // layer to render, or AllLayers
	Format     string // "svg", "png", or "all"
	Path       string // file path; directory when LayerIndex == AllLayers
}

// isTerminal checks if stdin is connected to a terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// NewSnapshotForm builds the interactive export form, binding the
// choices to res. Callers either Run it standalone or drive it as a
// bubbletea child model.
func NewSnapshotForm(a *atlas.Atlas, res *WizardResult) *huh.Form {
	layerOpts := make([]huh.Option[int], 0, len(a.Layers)+1)
	for i := range a.Layers {
		l := &a.Layers[i]
		layerOpts = append(layerOpts,
			huh.NewOption(fmt.Sprintf("%d. %s (%s)", i+1, l.Name, l.ID), i))
	}
	layerOpts = append(layerOpts, huh.NewOption("All layers", AllLayers))

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Which layer?").
				Options(layerOpts...).
				Value(&res.LayerIndex),
			huh.NewSelect[string]().
				Title("Format").
				Options(
					huh.NewOption("SVG (vector)", "svg"),
					huh.NewOption("PNG (raster)", "png"),
					huh.NewOption("Both", "all"),
				).
				Value(&res.Format),
			huh.NewInput().
				Title("Output path").
				Description("Leave empty for a name derived from the layer; directory when exporting all layers").
				Value(&res.Path).
				Placeholder("snapshot.svg"),
		),
	).WithTheme(huh.ThemeDracula())
}

// RunWizard walks the user through layer, format and path, and returns
// the chosen export. Used for a bare -export flag; the TUI drives the
// same form as an overlay instead.
func RunWizard(a *atlas.Atlas, defaultPath string) (*WizardResult, error) {
	res := &WizardResult{Format: "svg", Path: defaultPath}

	form := NewSnapshotForm(a, res)
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	if err := form.Run(); err != nil {
		return nil, err
	}

	res.Path = SuggestPath(a, res)
	return res, nil
}

// SuggestPath fills in a default output path when the user left it
// empty: the layer ID with the format extension, or a snapshots
// directory for an all-layers export.
func SuggestPath(a *atlas.Atlas, res *WizardResult) string {
	if strings.TrimSpace(res.Path) != "" {
		return res.Path
	}
	if res.LayerIndex == AllLayers {
		return "snapshots"
	}
	ext := res.Format
	if ext == "" || ext == "all" {
		ext = "svg"
	}
	return a.Layers[res.LayerIndex].ID + "." + ext
}

// Execute performs the export described by res and returns the written
// paths.
func Execute(ctx context.Context, a *atlas.Atlas, res *WizardResult) ([]string, error) {
	opts := SnapshotOptions{
		Path:       res.Path,
		Format:     res.Format,
		Atlas:      a,
		LayerIndex: res.LayerIndex,
	}

	switch {
	case res.LayerIndex == AllLayers:
		return SaveAllLayers(ctx, opts)
	case strings.EqualFold(res.Format, "all"):
		return SaveAllFormats(ctx, opts)
	default:
		if err := SaveSnapshot(opts); err != nil {
			return nil, err
		}
		return []string{opts.Path}, nil
	}
}
