// Package keys defines the key bindings of the serialctl terminal
package keys

import "github.com/charmbracelet/bubbles/key"

type TermKeys struct {
	Quit           key.Binding
	Help           key.Binding
	Send           key.Binding
	Flush          key.Binding
	ToggleSendMode key.Binding
	ToggleHex      key.Binding
	ToggleTime     key.Binding
	Clear          key.Binding
	HistoryUp      key.Binding
	HistoryDown    key.Binding
	ScrollUp       key.Binding
	ScrollDown     key.Binding
}

func NewTermKeys() TermKeys {
	return TermKeys{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "toggle help"),
		),
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Flush: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("ctrl+f", "flush buffer"),
		),
		ToggleSendMode: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "AT/hex input"),
		),
		ToggleHex: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "hex display"),
		),
		ToggleTime: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "timestamps"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "clear"),
		),
		HistoryUp: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "previous command"),
		),
		HistoryDown: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "next command"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "scroll down"),
		),
	}
}

func (k TermKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.ToggleSendMode, k.Help, k.Quit}
}

func (k TermKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Send, k.Flush, k.ToggleSendMode, k.HistoryUp, k.HistoryDown},
		{k.ToggleHex, k.ToggleTime, k.Clear, k.ScrollUp, k.ScrollDown},
		{k.Help, k.Quit},
	}
}
