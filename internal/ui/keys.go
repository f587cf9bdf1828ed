package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Apply      key.Binding
	Add        key.Binding
	Reset      key.Binding
	Logs       key.Binding
	Profiles   key.Binding
	Form       key.Binding
	Edit       key.Binding
	Delete     key.Binding
	NextField  key.Binding
	ToggleHelp key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Apply: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "apply"),
		),
		Add: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("ctrl+a", "save as profile"),
		),
		Reset: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reset"),
		),
		Logs: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "logs"),
		),
		Profiles: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "stored servers"),
		),
		Form: key.NewBinding(
			key.WithKeys("tab", "i", "esc"),
			key.WithHelp("tab", "edit form"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "edit selected"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete selected"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "next field"),
		),
		ToggleHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// formKeys and listKeys implement help.KeyMap for the two focus modes.
type formKeys struct{ keyMap }

func (k formKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Apply, k.Add, k.Reset, k.Profiles, k.ForceQuit}
}

func (k formKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextField, k.Apply, k.Add, k.Reset},
		{k.Profiles, k.Logs, k.ForceQuit},
	}
}

type listKeys struct{ keyMap }

func (k listKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Edit, k.Delete, k.Form, k.Logs, k.ToggleHelp, k.Quit}
}

func (k listKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Edit, k.Delete, k.Form},
		{k.Apply, k.Reset, k.Logs, k.Quit},
	}
}
