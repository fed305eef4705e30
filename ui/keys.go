package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the output pane bindings. Disabled bindings neither match
// nor show in the help line.
type keyMap struct {
	Copy      key.Binding
	Save      key.Binding
	Switch    key.Binding
	Undo      key.Binding
	Slice     key.Binding
	Close     key.Binding
	Highlight key.Binding
	Rebake    key.Binding
	Erase     key.Binding
	Focus     key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Copy:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy")),
		Save:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		Switch:    key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "to input")),
		Undo:      key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		Slice:     key.NewBinding(key.WithKeys("["), key.WithHelp("[", "slice")),
		Close:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "close")),
		Highlight: key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "highlight")),
		Rebake:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rebake")),
		Erase:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "erase input")),
		Focus:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "focus")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Copy, k.Save, k.Switch, k.Undo, k.Slice, k.Close, k.Highlight, k.Rebake, k.Focus, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Erase}}
}
