package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the review views.
type keyMap struct {
	up     key.Binding
	down   key.Binding
	toggle key.Binding
	all    key.Binding
	none   key.Binding
	enter  key.Binding
	abort  key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		all:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all")),
		none:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "none")),
		enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		abort:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "abort")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.toggle, k.enter, k.abort}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.toggle},
		{k.all, k.none, k.enter},
		{k.abort, k.quit},
	}
}
