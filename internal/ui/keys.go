package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the key bindings of the update dialog.
type keyMap struct {
	Accept     key.Binding
	Decline    key.Binding
	CycleTheme key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Accept: key.NewBinding(
			key.WithKeys("y", "j", "enter"),
			key.WithHelp("y", "Installieren"),
		),
		Decline: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n", "Später"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Theme"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Beenden"),
		),
	}
}

// ShortHelp lists the bindings shown in the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Accept, k.Decline, k.CycleTheme, k.Quit}
}
