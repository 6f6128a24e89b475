package components

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/allbin/go-serialctl/internal/tui/styles"
)

// SendingMode selects how typed text becomes bytes
type SendingMode int

const (
	SendingModeAT SendingMode = iota
	SendingModeHex
)

func (s SendingMode) String() string {
	if s == SendingModeHex {
		return "HEX"
	}
	return "AT"
}

const historyLimit = 100

// Input is the command line of the terminal, with history
type Input struct {
	textInput    textinput.Model
	mode         SendingMode
	terminator   string
	history      []string
	historyIndex int
	draft        string
	width        int
}

// NewInput returns an input that appends terminator to AT commands
func NewInput(terminator string) *Input {
	ti := textinput.New()
	ti.Placeholder = "AT command, Enter to send"
	ti.CharLimit = 512
	ti.Prompt = ""
	ti.Focus()

	return &Input{
		textInput:    ti,
		terminator:   terminator,
		historyIndex: -1,
	}
}

func (i *Input) SetWidth(width int) {
	i.width = width
	i.textInput.Width = max(width-8, 20)
}

func (i *Input) Value() string {
	return i.textInput.Value()
}

func (i *Input) SetValue(value string) {
	i.textInput.SetValue(value)
}

func (i *Input) Mode() SendingMode {
	return i.mode
}

func (i *Input) ToggleMode() {
	if i.mode == SendingModeAT {
		i.mode = SendingModeHex
		i.textInput.Placeholder = "hex bytes, e.g. 41 54 0D"
		return
	}
	i.mode = SendingModeAT
	i.textInput.Placeholder = "AT command, Enter to send"
}

// Payload converts the current value to the bytes to send.
// AT mode appends the terminator; hex mode sends exactly what was typed.
func (i *Input) Payload() ([]byte, error) {
	value := i.textInput.Value()
	if i.mode == SendingModeHex {
		return ParseHex(value)
	}
	return []byte(value + i.terminator), nil
}

// ParseHex decodes "41540D", "41 54 0D" or "0x41 0x54"
func ParseHex(s string) ([]byte, error) {
	clean := strings.NewReplacer(" ", "", "0x", "", "0X", "", ":", "").Replace(strings.TrimSpace(s))
	if clean == "" {
		return nil, fmt.Errorf("empty input")
	}
	data, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return data, nil
}

// Commit records the current value in history and clears the field
func (i *Input) Commit() {
	value := strings.TrimSpace(i.textInput.Value())
	if value != "" && (len(i.history) == 0 || i.history[len(i.history)-1] != value) {
		i.history = append(i.history, value)
		if len(i.history) > historyLimit {
			i.history = i.history[1:]
		}
	}
	i.historyIndex = -1
	i.draft = ""
	i.textInput.SetValue("")
}

func (i *Input) HistoryUp() {
	if len(i.history) == 0 {
		return
	}
	if i.historyIndex == -1 {
		i.draft = i.textInput.Value()
		i.historyIndex = len(i.history) - 1
	} else if i.historyIndex > 0 {
		i.historyIndex--
	}
	i.textInput.SetValue(i.history[i.historyIndex])
}

func (i *Input) HistoryDown() {
	if i.historyIndex == -1 {
		return
	}
	if i.historyIndex < len(i.history)-1 {
		i.historyIndex++
		i.textInput.SetValue(i.history[i.historyIndex])
		return
	}
	i.historyIndex = -1
	i.textInput.SetValue(i.draft)
	i.draft = ""
}

func (i *Input) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	i.textInput, cmd = i.textInput.Update(msg)
	return cmd
}

func (i *Input) View() string {
	prompt := styles.Success.Render(">")
	if i.mode == SendingModeHex {
		prompt = styles.Pending.Render("#")
	}
	content := lipgloss.JoinHorizontal(lipgloss.Left, prompt, " ", i.textInput.View())
	return styles.Input.Width(max(i.width-4, 10)).Render(content)
}
