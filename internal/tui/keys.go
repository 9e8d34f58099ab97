package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the key bindings of the main screen.
type keyMap struct {
	NextTab     key.Binding
	PrevTab     key.Binding
	Down        key.Binding
	Up          key.Binding
	AutoPatch   key.Binding
	Nudge       key.Binding
	NudgeBack   key.Binding
	Personality key.Binding
	Identify    key.Binding
	Refresh     key.Binding
	PageDown    key.Binding
	PageUp      key.Binding
	Cancel      key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev tab"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/k", "universe"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
		),
		AutoPatch: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "auto patch"),
		),
		Nudge: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+/-", "move device"),
		),
		NudgeBack: key.NewBinding(
			key.WithKeys("-"),
		),
		Personality: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "personality"),
		),
		Identify: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "identify"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+f"),
			key.WithHelp("pgdn", "scroll"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+b"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel drag"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Down, k.AutoPatch, k.Nudge, k.Refresh, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab, k.Down, k.PageDown},
		{k.AutoPatch, k.Nudge, k.Personality, k.Identify, k.Cancel},
		{k.Refresh, k.Help, k.Quit},
	}
}
