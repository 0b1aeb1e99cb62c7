package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	Backspace key.Binding
	Restart   key.Binding
	Stop      key.Binding
	Again     key.Binding
	Next      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
		Backspace: key.NewBinding(key.WithKeys("backspace", "ctrl+h", "delete")),
		Restart:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "restart")),
		Stop:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "stop")),
		Again:     key.NewBinding(key.WithKeys("enter", "r"), key.WithHelp("enter", "again")),
		Next:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next lesson")),
	}
}
