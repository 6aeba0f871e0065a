package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/user/reactvid-cli/tui/components"
)

// KeyMap holds every binding the main view responds to.
type KeyMap struct {
	Quit key.Binding
	Help key.Binding
	Back key.Binding

	Up   key.Binding
	Down key.Binding
	Seek key.Binding

	PlayPause   key.Binding
	StepBack    key.Binding
	StepForward key.Binding

	Comment key.Binding
	React   key.Binding
	Delete  key.Binding
	Clear   key.Binding
	Sort    key.Binding
	Export  key.Binding

	// Transcript
	PromoteOne      key.Binding
	PromoteAll      key.Binding
	ClearTranscript key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Back: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),

		Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Seek: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "seek to selected")),

		PlayPause:   key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "play/pause")),
		StepBack:    key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("←/h", "back 5s")),
		StepForward: key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("→/l", "forward 5s")),

		Comment: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "comment")),
		React:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "react")),
		Delete:  key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete selected")),
		Clear:   key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "clear all")),
		Sort:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "toggle sort")),
		Export:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),

		PromoteOne:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "current line to comment")),
		PromoteAll:      key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "all lines to comments")),
		ClearTranscript: key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "clear transcript")),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.Comment, k.React, k.Export, k.Help, k.Quit}
}

// FullHelp returns the bindings grouped for the help overlay.
func (k KeyMap) FullHelp() []components.HelpGroup {
	return []components.HelpGroup{
		{Title: "Playback", Bindings: []key.Binding{k.PlayPause, k.StepBack, k.StepForward, k.Seek}},
		{Title: "Annotations", Bindings: []key.Binding{k.Up, k.Down, k.Comment, k.React, k.Delete, k.Clear, k.Sort}},
		{Title: "Transcript", Bindings: []key.Binding{k.PromoteOne, k.PromoteAll, k.ClearTranscript}},
		{Title: "General", Bindings: []key.Binding{k.Export, k.Help, k.Back, k.Quit}},
	}
}
