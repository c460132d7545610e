package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the TUI.
type KeyMap struct {
	// Navigation
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Zoom    key.Binding // Center on the selected report

	// Reports
	New      key.Binding // Create a report at the map center
	Edit     key.Binding // Edit the selected report
	Delete   key.Binding // Delete the selected reports
	Undo     key.Binding
	Redo     key.Binding
	Import   key.Binding
	Export   key.Binding
	Submit   key.Binding
	Download key.Binding // Download the visible area
	Stop     key.Binding // Cancel all downloads
	Cycle    key.Binding // Cycle the download mode
	Area     key.Binding // Add the visible area as a data source
	JoinMode key.Binding // Toggle select and join mode

	// Filter
	TogglePending   key.Binding
	ToggleConfirmed key.Binding
	ToggleClosed    key.Binding
	ToggleLayer     key.Binding
	ResetFilter     key.Binding

	// General
	Help    key.Binding
	Quit    key.Binding
	Escape  key.Binding
	Confirm key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "pan up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "pan down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "pan left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "pan right"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "zoom out"),
		),
		Zoom: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "go to selected"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new report"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u", "ctrl+z"),
			key.WithHelp("u", "undo"),
		),
		Redo: key.NewBinding(
			key.WithKeys("U", "ctrl+y"),
			key.WithHelp("U", "redo"),
		),
		Import: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "import"),
		),
		Export: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "export"),
		),
		Submit: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "submit"),
		),
		Download: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "download area"),
		),
		Stop: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "stop downloads"),
		),
		Cycle: key.NewBinding(
			key.WithKeys("M"),
			key.WithHelp("M", "download mode"),
		),
		Area: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add data area"),
		),
		JoinMode: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "select/join mode"),
		),
		TogglePending: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "new reports"),
		),
		ToggleConfirmed: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "downloaded reports"),
		),
		ToggleClosed: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "hide closed"),
		),
		ToggleLayer: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "layer visible"),
		),
		ResetFilter: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset filter"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y", "confirm"),
		),
	}
}

// ShortHelp returns keybindings to show in the mini help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.New, k.Edit, k.Delete, k.Undo, k.JoinMode, k.Submit, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.ZoomIn, k.ZoomOut, k.Zoom},
		{k.New, k.Edit, k.Delete, k.Undo, k.Redo, k.JoinMode},
		{k.Import, k.Export, k.Submit, k.Download, k.Stop, k.Cycle, k.Area},
		{k.TogglePending, k.ToggleConfirmed, k.ToggleClosed, k.ToggleLayer, k.ResetFilter},
		{k.Help, k.Quit},
	}
}
