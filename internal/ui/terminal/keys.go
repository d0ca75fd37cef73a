package terminal

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the terminal surface
type KeyMap struct {
	// Timer
	Toggle key.Binding
	Skip   key.Binding
	Reset  key.Binding
	Work   key.Binding
	Short  key.Binding
	Long   key.Binding

	// Sound
	NextSound  key.Binding
	StopSound  key.Binding
	VolumeUp   key.Binding
	VolumeDown key.Binding

	// Prompt
	Confirm key.Binding
	Cancel  key.Binding

	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "p"),
			key.WithHelp("space", "start/pause"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "skip"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Work: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "focus"),
		),
		Short: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "short break"),
		),
		Long: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "long break"),
		),
		NextSound: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next sound"),
		),
		StopSound: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "stop sound"),
		),
		VolumeUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "louder"),
		),
		VolumeDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "quieter"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n/esc", "cancel"),
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
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Skip, k.NextSound, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Skip, k.Reset},
		{k.Work, k.Short, k.Long},
		{k.NextSound, k.StopSound, k.VolumeUp, k.VolumeDown},
		{k.Help, k.Quit},
	}
}
