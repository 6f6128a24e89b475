package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// maxEntries caps the session log kept for redraws
const maxEntries = 5000

// LogView is a scrolling viewport over the session log.
// It stays pinned to the bottom unless the user scrolls up.
type LogView struct {
	viewport  viewport.Model
	formatter Formatter
	entries   []Entry
}

func NewLogView(width, height int) *LogView {
	return &LogView{
		viewport:  viewport.New(width, height),
		formatter: Formatter{Timestamps: true},
	}
}

func (l *LogView) SetSize(width, height int) {
	l.viewport.Width = width
	l.viewport.Height = max(height, 1)
	l.render()
}

func (l *LogView) Add(e Entry) {
	l.entries = append(l.entries, e)
	if len(l.entries) > maxEntries {
		l.entries = l.entries[len(l.entries)-maxEntries:]
	}
	l.render()
}

func (l *LogView) Entries() []Entry {
	return l.entries
}

func (l *LogView) Clear() {
	l.entries = nil
	l.render()
}

func (l *LogView) ToggleHex() {
	l.formatter.Hex = !l.formatter.Hex
	l.render()
}

func (l *LogView) ToggleTimestamps() {
	l.formatter.Timestamps = !l.formatter.Timestamps
	l.render()
}

func (l *LogView) Hex() bool {
	return l.formatter.Hex
}

func (l *LogView) render() {
	follow := l.viewport.AtBottom()
	lines := make([]string, len(l.entries))
	for i, e := range l.entries {
		lines[i] = l.formatter.Format(e)
	}
	l.viewport.SetContent(strings.Join(lines, "\n"))
	if follow {
		l.viewport.GotoBottom()
	}
}

// Update forwards scrolling keys and mouse wheel events to the viewport
func (l *LogView) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	l.viewport, cmd = l.viewport.Update(msg)
	return cmd
}

func (l *LogView) View() string {
	return l.viewport.View()
}
