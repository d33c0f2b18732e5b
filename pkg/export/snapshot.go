// Package export renders static snapshots of atlas layers.
//
// A snapshot shows one layer at rest: nodes at their projected
// positions, shrunk by the collision scale, on the layer's plane
// color. SVG output goes through svgo, PNG through gg with basicfont
// labels.
package export

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/layerlens/pkg/atlas"
	"github.com/vanderheijden86/layerlens/pkg/layout"
)

// Default pixel canvas for exported snapshots.
const (
	DefaultWidth  = 1280
	DefaultHeight = 800

	// BaseDiameter is the unscaled node size in pixels. The TUI uses a
	// much smaller diameter in cells; both feed the same scale law.
	BaseDiameter = 120.0

	headerHeight = 72.0
)

// SnapshotOptions controls layer snapshot export.
type SnapshotOptions struct {
	Path       string       // Output path; format inferred from extension when Format empty
	Format     string       // "svg" or "png" (case-insensitive). If empty, inferred from Path.
	Atlas      *atlas.Atlas // Atlas to render from
	LayerIndex int          // Layer to render
	Width      int          // Canvas width in pixels (default 1280)
	Height     int          // Canvas height in pixels (default 800)
}

// SaveSnapshot renders a single layer to an SVG or PNG file. The
// rendered geometry matches what the interaction engine computes for a
// pixel viewport of the same size: positions from the node percentages,
// radius from the pairwise collision scale.
func SaveSnapshot(opts SnapshotOptions) error {
	if opts.Atlas == nil || len(opts.Atlas.Layers) == 0 {
		return fmt.Errorf("an atlas with at least one layer is required")
	}
	if opts.LayerIndex < 0 || opts.LayerIndex >= len(opts.Atlas.Layers) {
		return fmt.Errorf("layer index %d out of range (%d layers)", opts.LayerIndex, len(opts.Atlas.Layers))
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".svg":
			format = "svg"
		case ".png":
			format = "png"
		default:
			format = "svg" // safe default
			if opts.Path != "" && filepath.Ext(opts.Path) == "" {
				opts.Path = opts.Path + ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}

	if dir := filepath.Dir(opts.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create parent dir: %w", err)
		}
	}

	sc := buildScene(opts)

	switch format {
	case "svg":
		return renderSVG(opts.Path, sc)
	case "png":
		return renderPNG(opts.Path, sc)
	default:
		return fmt.Errorf("unhandled format %q", format)
	}
}

// SaveAllFormats renders the same layer as both SVG and PNG, deriving
// sibling paths from opts.Path. The two renders run concurrently.
func SaveAllFormats(ctx context.Context, opts SnapshotOptions) ([]string, error) {
	base := strings.TrimSuffix(opts.Path, filepath.Ext(opts.Path))
	if base == "" {
		return nil, fmt.Errorf("output path is required")
	}

	g, ctx := errgroup.WithContext(ctx)
	paths := make([]string, 0, 2)
	var mu sync.Mutex

	for _, format := range []string{"svg", "png"} {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			o := opts
			o.Format = format
			o.Path = base + "." + format
			if err := SaveSnapshot(o); err != nil {
				return fmt.Errorf("%s: %w", format, err)
			}
			mu.Lock()
			paths = append(paths, o.Path)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// SaveAllLayers renders every layer of the atlas into the directory
// opts.Path, one file per layer (per format when opts.Format is
// "all"). Layers render concurrently; file names follow the layer ID.
func SaveAllLayers(ctx context.Context, opts SnapshotOptions) ([]string, error) {
	if opts.Atlas == nil || len(opts.Atlas.Layers) == 0 {
		return nil, fmt.Errorf("an atlas with at least one layer is required")
	}
	dir := opts.Path
	if dir == "" {
		dir = "snapshots"
	}

	formats := []string{strings.ToLower(opts.Format)}
	if formats[0] == "" {
		formats = []string{"svg"}
	} else if formats[0] == "all" {
		formats = []string{"svg", "png"}
	}

	g, ctx := errgroup.WithContext(ctx)
	var mu sync.Mutex
	var paths []string

	for i := range opts.Atlas.Layers {
		for _, format := range formats {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				o := opts
				o.Format = format
				o.LayerIndex = i
				o.Path = filepath.Join(dir, opts.Atlas.Layers[i].ID+"."+format)
				if err := SaveSnapshot(o); err != nil {
					return fmt.Errorf("layer %s: %w", opts.Atlas.Layers[i].ID, err)
				}
				mu.Lock()
				paths = append(paths, o.Path)
				mu.Unlock()
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// --- scene computation -------------------------------------------------

type sceneNode struct {
	Label      string
	X, Y       float64
	R          float64
	Fill       color.RGBA
	Expandable bool
	ChildName  string // resolved child layer name, empty when terminal or dangling
}

type scene struct {
	Width, Height int
	Background    color.RGBA
	Title         string
	LayerName     string
	LayerID       string
	Scale         float64
	Nodes         []sceneNode
}

func buildScene(opts SnapshotOptions) scene {
	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}
	height := opts.Height
	if height <= 0 {
		height = DefaultHeight
	}

	a := opts.Atlas
	l := &a.Layers[opts.LayerIndex]

	// The header band is chrome, not plane: geometry lives below it.
	vp := layout.Viewport{Width: float64(width), Height: float64(height) - headerHeight}
	scale := layout.Scale(vp, l.Nodes, BaseDiameter)
	radius := BaseDiameter * scale / 2

	background := l.Color
	if opts.LayerIndex == 0 && a.Background != "" {
		background = a.Background
	}

	sc := scene{
		Width:      width,
		Height:     height,
		Background: parseHexOr(background, color.RGBA{0x0f, 0x17, 0x2a, 0xff}),
		Title:      a.Title,
		LayerName:  l.Name,
		LayerID:    l.ID,
		Scale:      scale,
	}

	for i := range l.Nodes {
		n := &l.Nodes[i]
		pos := layout.Position(n, vp)
		sn := sceneNode{
			Label:      n.Label,
			X:          pos.X,
			Y:          pos.Y + headerHeight,
			R:          radius,
			Fill:       parseHexOr(n.Color, colorNodeFill),
			Expandable: n.Expandable(),
		}
		if idx, ok := a.ResolveChild(n); ok {
			sn.ChildName = a.Layers[idx].Name
		}
		sc.Nodes = append(sc.Nodes, sn)
	}

	return sc
}

// --- rendering ----------------------------------------------------------

var (
	colorNodeFill = color.RGBA{0x47, 0x55, 0x69, 0xff}
	colorText     = color.RGBA{0xf8, 0xfa, 0xfc, 0xff}
	colorSubtle   = color.RGBA{0xcb, 0xd5, 0xe1, 0xff}
	colorRing     = color.RGBA{0xfa, 0xcc, 0x15, 0xff}
	colorHeaderBG = color.RGBA{0x00, 0x00, 0x00, 0x40}
)

func renderSVG(path string, sc scene) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return renderSVGToWriter(file, sc)
}

func renderSVGToWriter(w io.Writer, sc scene) error {
	canvas := svg.New(w)
	canvas.Start(sc.Width, sc.Height)
	canvas.Rect(0, 0, sc.Width, sc.Height, fmt.Sprintf("fill:%s", css(sc.Background)))
	canvas.Rect(0, 0, sc.Width, int(headerHeight),
		fmt.Sprintf("fill:%s;fill-opacity:0.25", css(colorHeaderBG)))

	canvas.Text(24, 30, sc.Title,
		fmt.Sprintf("fill:%s;font-size:18px;font-family:monospace;font-weight:bold", css(colorText)))
	canvas.Text(24, 54, layerCaption(sc),
		fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", css(colorSubtle)))

	for _, n := range sc.Nodes {
		x := int(n.X)
		y := int(n.Y)
		r := int(n.R)
		canvas.Circle(x, y, r, fmt.Sprintf("fill:%s", css(n.Fill)))
		if n.Expandable {
			canvas.Circle(x, y, r+4,
				fmt.Sprintf("fill:none;stroke:%s;stroke-width:2", css(colorRing)))
		}
		canvas.Text(x, y+r+18, n.Label,
			fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace;text-anchor:middle", css(colorText)))
		if n.ChildName != "" {
			canvas.Text(x, y+r+34, "-> "+n.ChildName,
				fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace;text-anchor:middle", css(colorSubtle)))
		}
	}

	canvas.End()
	return nil
}

func renderPNG(path string, sc scene) error {
	dc := gg.NewContext(sc.Width, sc.Height)
	dc.SetColor(sc.Background)
	dc.Clear()

	dc.SetColor(colorHeaderBG)
	dc.DrawRectangle(0, 0, float64(sc.Width), headerHeight)
	dc.Fill()

	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(colorText)
	dc.DrawStringAnchored(sc.Title, 24, 30, 0, 0.5)
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(layerCaption(sc), 24, 54, 0, 0.5)

	for _, n := range sc.Nodes {
		dc.SetColor(n.Fill)
		dc.DrawCircle(n.X, n.Y, n.R)
		dc.Fill()
		if n.Expandable {
			dc.SetColor(colorRing)
			dc.SetLineWidth(2)
			dc.DrawCircle(n.X, n.Y, n.R+4)
			dc.Stroke()
		}
		dc.SetColor(colorText)
		dc.DrawStringAnchored(n.Label, n.X, n.Y+n.R+14, 0.5, 0.5)
		if n.ChildName != "" {
			dc.SetColor(colorSubtle)
			dc.DrawStringAnchored("-> "+n.ChildName, n.X, n.Y+n.R+28, 0.5, 0.5)
		}
	}

	return dc.SavePNG(path)
}

// --- helpers ------------------------------------------------------------

func layerCaption(sc scene) string {
	return fmt.Sprintf("%s (%s)  nodes: %d  scale: %.2f",
		sc.LayerName, sc.LayerID, len(sc.Nodes), sc.Scale)
}

// parseHexOr parses "#rgb" or "#rrggbb", falling back on bad input.
func parseHexOr(s string, fallback color.RGBA) color.RGBA {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return fallback
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fallback
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
