package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings of the browser.
type KeyMap struct {
	// General
	Help key.Binding
	Quit key.Binding

	// Navigation
	Up         key.Binding
	Down       key.Binding
	GotoTop    key.Binding
	GotoBottom key.Binding
	Enter      key.Binding
	GoBack     key.Binding
	Reload     key.Binding
	Filter     key.Binding

	// File actions
	Open     key.Binding
	Download key.Binding
	Preview  key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Up:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		GotoTop:    key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		GotoBottom: key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		Enter:      key.NewBinding(key.WithKeys("enter", "l", "right"), key.WithHelp("enter", "open")),
		GoBack:     key.NewBinding(key.WithKeys("esc", "backspace", "h", "left"), key.WithHelp("esc", "back")),
		Reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Filter:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),

		Open:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open link")),
		Download: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "download")),
		Preview:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "preview")),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.GoBack, k.Filter, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.GotoTop, k.GotoBottom},
		{k.Enter, k.GoBack, k.Reload, k.Filter},
		{k.Open, k.Download, k.Preview},
		{k.Help, k.Quit},
	}
}
