package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/allbin/go-serialctl/internal/tui/styles"
)

// LineInfo describes the configured line for the status bar
type LineInfo struct {
	Device      string
	Platform    string
	BaudRate    int
	FlowControl string
}

// StatusBar is the single-line footer of the terminal
type StatusBar struct {
	info  LineInfo
	width int
	err   error
}

func NewStatusBar(info LineInfo) *StatusBar {
	return &StatusBar{info: info}
}

func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

func (sb *StatusBar) SetError(err error) {
	sb.err = err
}

func (sb *StatusBar) lineSummary() string {
	return fmt.Sprintf("%d 8N1 flow:%s", sb.info.BaudRate, sb.info.FlowControl)
}

// View renders the bar. buffered is the Port's unflushed byte count.
func (sb *StatusBar) View(mode SendingMode, open bool, buffered int, clock string) string {
	width := sb.width
	if width <= 0 {
		width = 80
	}

	modeStyle := lipgloss.NewStyle().Foreground(styles.Base).Bold(true).Padding(0, 1)
	if mode == SendingModeHex {
		modeStyle = modeStyle.Background(styles.Yellow)
	} else {
		modeStyle = modeStyle.Background(styles.Green)
	}

	indicator := styles.Success.Render("●")
	switch {
	case sb.err != nil:
		indicator = styles.Failure.Render("✗")
	case !open:
		indicator = styles.Failure.Render("○")
	}

	divider := lipgloss.NewStyle().Foreground(styles.Surface2).Padding(0, 1).Render("│")
	left := lipgloss.JoinHorizontal(lipgloss.Left,
		modeStyle.Render(mode.String()),
		styles.Title.Render(sb.info.Device),
		indicator,
		divider,
	)

	details := sb.lineSummary() + " " + sb.info.Platform
	if buffered > 0 {
		details += fmt.Sprintf(" buf:%d", buffered)
	}
	if sb.err != nil {
		details = sb.err.Error()
	}
	right := lipgloss.JoinHorizontal(lipgloss.Left,
		lipgloss.NewStyle().Foreground(styles.Subtext0).Padding(0, 1).Render(details),
		divider,
		lipgloss.NewStyle().Foreground(styles.Subtext1).Padding(0, 1).Render(clock),
	)

	spacer := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	content := lipgloss.JoinHorizontal(lipgloss.Left, left, lipgloss.NewStyle().Width(spacer).Render(""), right)
	return styles.StatusBar.Width(width).Render(content)
}
