package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap declares every binding the explorer understands. Declared with
// bubbles/key so the footer and the help overlay render from the same
// source of truth.
type KeyMap struct {
	NextNode  key.Binding
	PrevNode  key.Binding
	Activate  key.Binding
	ZoomIn    key.Binding
	ZoomOut   key.Binding
	Back      key.Binding
	Home      key.Binding
	Crumb     key.Binding
	Canvas    key.Binding
	Copy      key.Binding
	Export    key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextNode: key.NewBinding(
			key.WithKeys("tab", "right", "down", "j", "l"),
			key.WithHelp("tab/→", "next node"),
		),
		PrevNode: key.NewBinding(
			key.WithKeys("shift+tab", "left", "up", "k", "h"),
			key.WithHelp("shift+tab/←", "prev node"),
		),
		Activate: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "dive in"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "zoom out"),
		),
		Back: key.NewBinding(
			key.WithKeys("backspace", "esc"),
			key.WithHelp("esc", "back"),
		),
		Home: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "home"),
		),
		Crumb: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "crumb"),
		),
		Canvas: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "settle zoom"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy path"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "f1"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit now"),
		),
	}
}

// ShortHelp is the footer strip; FullHelp feeds the expanded help view.
// Both satisfy bubbles/help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextNode, k.Activate, k.ZoomIn, k.Back, k.Home, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextNode, k.PrevNode, k.Activate, k.Canvas},
		{k.ZoomIn, k.ZoomOut, k.Back, k.Home, k.Crumb},
		{k.Copy, k.Export, k.Help, k.Quit},
	}
}
