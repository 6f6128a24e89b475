/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/allbin/go-serialctl/internal/tui/components"
	"github.com/allbin/go-serialctl/internal/tui/models"
)

// termCmd represents the term command
var termCmd = &cobra.Command{
	Use:   "term [device]",
	Short: "Interactive AT command terminal",
	Long: `Open a device in an interactive terminal. Type AT commands and press
Enter; responses appear as they arrive.

Tab switches the input between AT commands (terminator appended) and raw
hex bytes. F1 shows all key bindings.

Example usage:
  serialctl term /dev/ttyUSB0
  serialctl term COM3 --baud 9600 --terminator crlf`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		device, err := deviceArg(args)
		if err != nil {
			return err
		}

		terminatorName, _ := cmd.Flags().GetString("terminator")
		terminator, err := parseTerminator(terminatorName)
		if err != nil {
			return err
		}
		poll, _ := cmd.Flags().GetDuration("poll")

		port, err := openPort(cmd.Context(), device)
		if err != nil {
			return err
		}
		defer port.Release()

		dev, _ := port.Device()
		m := models.NewTermModel(port, components.LineInfo{
			Device:      dev.String(),
			Platform:    port.Platform().String(),
			BaudRate:    cfg.Baud,
			FlowControl: cfg.Flow().String(),
		}, terminator)
		m.SetPollInterval(poll)

		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
		_, err = p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(termCmd)
	addLineFlags(termCmd)

	termCmd.Flags().String("terminator", "cr", "Appended to AT commands: cr, crlf, lf, none")
	termCmd.Flags().Duration("poll", models.DefaultPollInterval, "How often to read from the device")
}

func parseTerminator(name string) (string, error) {
	switch strings.ToLower(name) {
	case "cr":
		return "\r", nil
	case "crlf":
		return "\r\n", nil
	case "lf":
		return "\n", nil
	case "none", "":
		return "", nil
	default:
		return "", fmt.Errorf("unknown terminator %q", name)
	}
}
