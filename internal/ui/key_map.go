package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up    key.Binding
	down  key.Binding
	load  key.Binding
	focus key.Binding
	quit  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		down:  key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		load:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "load")),
		focus: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch focus")),
		quit:  key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.load, k.focus, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down},
		{k.load, k.focus, k.quit},
	}
}
