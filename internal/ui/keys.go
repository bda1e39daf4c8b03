// internal/ui/keys.go
package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Submit      key.Binding
	NextFocus   key.Binding
	PrevFocus   key.Binding
	PrevModel   key.Binding
	NextModel   key.Binding
	Copy        key.Binding
	Diagnostics key.Binding
	Help        key.Binding
	Close       key.Binding
	Up          key.Binding
	Down        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "generate"),
		),
		NextFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch field"),
		),
		PrevFocus: key.NewBinding(
			key.WithKeys("shift+tab"),
		),
		PrevModel: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/→", "model"),
		),
		NextModel: key.NewBinding(
			key.WithKeys("right", "l"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy response"),
		),
		Diagnostics: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "diagnostics"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "help"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc", "q", "f1"),
			key.WithHelp("esc", "close"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.NextFocus, k.PrevModel, k.Copy, k.Diagnostics, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.NextFocus, k.PrevModel},
		{k.Copy, k.Diagnostics, k.Help, k.Quit},
	}
}
