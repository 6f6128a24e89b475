// Package styles holds the lipgloss palette and shared styles of the
// serialctl terminal UI.
package styles

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha
var (
	Base     = lipgloss.Color("#1e1e2e")
	Surface0 = lipgloss.Color("#313244")
	Surface1 = lipgloss.Color("#45475a")
	Surface2 = lipgloss.Color("#585b70")
	Overlay0 = lipgloss.Color("#6c7086")
	Subtext0 = lipgloss.Color("#a6adc8")
	Subtext1 = lipgloss.Color("#bac2de")
	Text     = lipgloss.Color("#cdd6f4")

	Blue   = lipgloss.Color("#89b4fa")
	Sky    = lipgloss.Color("#89dceb")
	Green  = lipgloss.Color("#a6e3a1")
	Yellow = lipgloss.Color("#f9e2af")
	Peach  = lipgloss.Color("#fab387")
	Red    = lipgloss.Color("#f38ba8")
	Mauve  = lipgloss.Color("#cba6f7")
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Mauve).
		Padding(0, 1)

	Success = lipgloss.NewStyle().
		Foreground(Green).
		Bold(true)

	Failure = lipgloss.NewStyle().
		Foreground(Red).
		Bold(true)

	Pending = lipgloss.NewStyle().
		Foreground(Yellow).
		Bold(true)

	Muted = lipgloss.NewStyle().
		Foreground(Subtext0)

	Label = lipgloss.NewStyle().
		Foreground(Overlay0).
		Width(12)

	ContentBorder = lipgloss.NewStyle().
			BorderTop(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(Surface1)

	Input = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Surface2).
		Padding(0, 1)

	Help = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Surface2).
		Padding(0, 1)

	StatusBar = lipgloss.NewStyle().
			Foreground(Text).
			Background(Surface0)
)
