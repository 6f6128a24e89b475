// Package models holds the bubbletea model of the interactive AT terminal
package models

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/allbin/go-serialctl/internal/tui/components"
	"github.com/allbin/go-serialctl/internal/tui/keys"
	"github.com/allbin/go-serialctl/internal/tui/styles"
)

// Conn is the part of *serialctl.Port the terminal drives
type Conn interface {
	Send(data []byte) error
	Flush() error
	ReadBytes(count int) ([]byte, error)
	Buffered() int
}

// DefaultPollInterval is how often the terminal drains the device
const DefaultPollInterval = 50 * time.Millisecond

type (
	pollMsg struct{}
	rxMsg   struct {
		data []byte
		err  error
	}
	txMsg struct {
		data []byte
		err  error
	}
	flushMsg struct{ err error }
)

// TermModel is an interactive session on an open Port.
// Reads poll ReadBytes(0); sends run off the UI goroutine since Send
// waits for the modem.
type TermModel struct {
	conn   Conn
	log    *components.LogView
	input  *components.Input
	status *components.StatusBar
	help   help.Model
	keys   keys.TermKeys

	poll     time.Duration
	now      func() time.Time
	open     bool
	buffered int
	width    int
	height   int
}

// NewTermModel builds a terminal over conn. terminator is appended to
// commands typed in AT mode.
func NewTermModel(conn Conn, info components.LineInfo, terminator string) *TermModel {
	return &TermModel{
		conn:   conn,
		log:    components.NewLogView(80, 20),
		input:  components.NewInput(terminator),
		status: components.NewStatusBar(info),
		help:   help.New(),
		keys:   keys.NewTermKeys(),
		poll:   DefaultPollInterval,
		now:    time.Now,
		open:   true,
	}
}

// SetPollInterval changes how often the device is drained
func (m *TermModel) SetPollInterval(d time.Duration) {
	if d > 0 {
		m.poll = d
	}
}

// Entries returns the session log
func (m *TermModel) Entries() []components.Entry {
	return m.log.Entries()
}

func (m *TermModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.schedulePoll())
}

func (m *TermModel) schedulePoll() tea.Cmd {
	return tea.Tick(m.poll, func(time.Time) tea.Msg { return pollMsg{} })
}

func (m *TermModel) read() tea.Cmd {
	conn := m.conn
	return func() tea.Msg {
		data, err := conn.ReadBytes(0)
		return rxMsg{data: data, err: err}
	}
}

func (m *TermModel) send(data []byte) tea.Cmd {
	conn := m.conn
	return func() tea.Msg {
		return txMsg{data: data, err: conn.Send(data)}
	}
}

func (m *TermModel) flush() tea.Cmd {
	conn := m.conn
	return func() tea.Msg {
		return flushMsg{err: conn.Flush()}
	}
}

func (m *TermModel) info(text string) {
	m.log.Add(components.Entry{Time: m.now(), Dir: components.DirInfo, Data: []byte(text)})
}

func (m *TermModel) layout() {
	const chrome = 5 // log border, input box, status bar
	helpHeight := 0
	if m.help.ShowAll {
		helpHeight = lipgloss.Height(styles.Help.Render(m.help.View(m.keys)))
	}
	m.log.SetSize(m.width, m.height-chrome-helpHeight)
	m.input.SetWidth(m.width)
	m.status.SetWidth(m.width)
	m.help.Width = m.width
}

func (m *TermModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case pollMsg:
		if !m.open {
			return m, nil
		}
		return m, m.read()

	case rxMsg:
		if len(msg.data) > 0 {
			m.log.Add(components.Entry{Time: m.now(), Dir: components.DirRX, Data: msg.data})
		}
		if msg.err != nil {
			m.open = false
			m.status.SetError(msg.err)
			m.info("reading stopped: " + msg.err.Error())
			return m, nil
		}
		m.buffered = m.conn.Buffered()
		return m, m.schedulePoll()

	case txMsg:
		m.log.Add(components.Entry{Time: m.now(), Dir: components.DirTX, Data: msg.data, Err: msg.err})
		m.buffered = m.conn.Buffered()
		return m, nil

	case flushMsg:
		if msg.err != nil {
			m.info("flush failed: " + msg.err.Error())
		} else {
			m.info("buffer flushed")
		}
		m.buffered = m.conn.Buffered()
		return m, nil

	case tea.MouseMsg:
		return m, m.log.Update(msg)

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	return m, m.input.Update(msg)
}

func (m *TermModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
		return nil

	case key.Matches(msg, m.keys.Send):
		if m.input.Value() == "" || !m.open {
			return nil
		}
		data, err := m.input.Payload()
		if err != nil {
			m.info(err.Error())
			return nil
		}
		m.input.Commit()
		return m.send(data)

	case key.Matches(msg, m.keys.Flush):
		return m.flush()

	case key.Matches(msg, m.keys.ToggleSendMode):
		m.input.ToggleMode()
		return nil

	case key.Matches(msg, m.keys.ToggleHex):
		m.log.ToggleHex()
		return nil

	case key.Matches(msg, m.keys.ToggleTime):
		m.log.ToggleTimestamps()
		return nil

	case key.Matches(msg, m.keys.Clear):
		m.log.Clear()
		return nil

	case key.Matches(msg, m.keys.HistoryUp):
		m.input.HistoryUp()
		return nil

	case key.Matches(msg, m.keys.HistoryDown):
		m.input.HistoryDown()
		return nil

	case key.Matches(msg, m.keys.ScrollUp, m.keys.ScrollDown):
		return m.log.Update(msg)
	}

	return m.input.Update(msg)
}

func (m *TermModel) View() string {
	parts := []string{
		styles.ContentBorder.Render(m.log.View()),
		m.input.View(),
	}
	if m.help.ShowAll {
		parts = append(parts, styles.Help.Render(m.help.View(m.keys)))
	}
	parts = append(parts, m.status.View(m.input.Mode(), m.open, m.buffered, m.now().Format("15:04:05")))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
