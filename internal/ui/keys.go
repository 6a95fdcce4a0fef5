package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Play1 key.Binding
	Play2 key.Binding
	Stop  key.Binding
	Quit  key.Binding
}

func newKeyMap(label1, label2 string) keyMap {
	return keyMap{
		Play1: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", label1)),
		Play2: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", label2)),
		Stop:  key.NewBinding(key.WithKeys("s", " "), key.WithHelp("s", "stop")),
		Quit:  key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// setControlsEnabled shows or hides the play and stop bindings.
// Disabled bindings never match and are left out of the help line.
func (k *keyMap) setControlsEnabled(v bool) {
	k.Play1.SetEnabled(v)
	k.Play2.SetEnabled(v)
	k.Stop.SetEnabled(v)
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play1, k.Play2, k.Stop, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
