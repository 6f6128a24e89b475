package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/allbin/go-serialctl/internal/tui/styles"
)

// Direction tells which way an Entry travelled
type Direction int

const (
	DirRX Direction = iota
	DirTX
	DirInfo
)

// Entry is one line of the session log
type Entry struct {
	Time time.Time
	Dir  Direction
	Data []byte
	Err  error // set on TX entries whose send failed
}

// Formatter renders entries; Hex switches payloads to hex bytes
type Formatter struct {
	Hex        bool
	Timestamps bool
}

// Escape makes control bytes visible: CR and LF become \r and \n, other
// non-printables are shown as \xNN.
func Escape(data []byte) string {
	var b strings.Builder
	for _, c := range data {
		switch {
		case c == '\r':
			b.WriteString(`\r`)
		case c == '\n':
			b.WriteString(`\n`)
		case c < 0x20 || c > 0x7e:
			fmt.Fprintf(&b, `\x%02X`, c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func (f Formatter) indicator(e Entry) string {
	switch e.Dir {
	case DirTX:
		if e.Err != nil {
			return styles.Failure.Render("TX ✗")
		}
		return lipgloss.NewStyle().Foreground(styles.Peach).Bold(true).Render("TX →")
	case DirInfo:
		return styles.Muted.Render("  --")
	default:
		return lipgloss.NewStyle().Foreground(styles.Sky).Bold(true).Render("RX ←")
	}
}

// Format renders a single entry
func (f Formatter) Format(e Entry) string {
	var payload string
	switch {
	case e.Dir == DirInfo:
		payload = styles.Muted.Render(string(e.Data))
	case f.Hex:
		payload = fmt.Sprintf("% X", e.Data)
	default:
		payload = Escape(e.Data)
	}
	if e.Err != nil {
		payload += " " + styles.Failure.Render(e.Err.Error())
	}

	line := f.indicator(e) + " " + payload
	if f.Timestamps {
		line = styles.Muted.Render(e.Time.Format("15:04:05.000")) + " " + line
	}
	return line
}
