package nav

import (
	"strings"

	"github.com/vanderheijden86/layerlens/pkg/atlas"
)

// HistoryEntry records one hop of the descent: the layer entered, the
// background color and display name at entry, and the node that led there.
// The first entry always describes the root layer and has no Clicked node.
type HistoryEntry struct {
	LayerIndex int         `json:"layer_index"`
	Color      string      `json:"color"`
	Name       string      `json:"name"`
	Clicked    *atlas.Node `json:"clicked,omitempty"`
}

// Trail returns the crumb names in order, root first.
func Trail(history []HistoryEntry) []string {
	names := make([]string, len(history))
	for i, e := range history {
		names[i] = e.Name
	}
	return names
}

// TrailString joins the crumb names with a separator, the form used by the
// breadcrumb bar and the clipboard copy.
func TrailString(history []HistoryEntry, sep string) string {
	return strings.Join(Trail(history), sep)
}

func rootEntry(a *atlas.Atlas) HistoryEntry {
	color := a.Background
	if color == "" {
		color = a.Root().Color
	}
	return HistoryEntry{LayerIndex: 0, Color: color, Name: a.Root().Name}
}
