package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keyboard shortcuts for the browser.
type KeyMap struct {
	Up            key.Binding
	Down          key.Binding
	Search        key.Binding
	ClearSearch   key.Binding
	CycleSort     key.Binding
	FlipDirection key.Binding
	ToggleDeleted key.Binding
	Refresh       key.Binding
	Quit          key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		ClearSearch: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "clear search"),
		),
		CycleSort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "cycle sort field"),
		),
		FlipDirection: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "flip sort direction"),
		),
		ToggleDeleted: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "show deleted"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
