/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/allbin/go-serialctl/internal/tui/components"
	"github.com/allbin/go-serialctl/internal/tui/styles"
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send [device] [data]",
	Short: "Send data to a device and print the response",
	Long: `Send data to a device, wait for the send delay, then print whatever the
device answered.

Data can be provided as:
- Command line argument: send /dev/ttyUSB0 "AT+CSQ" --cr
- The --data flag: send --data "AT+CSQ" --cr
- From stdin (pipe): echo "ATI" | serialctl send /dev/ttyUSB0 --cr
- Interactive prompt: serialctl send /dev/ttyUSB0

Without a device argument the configured device is used; a single argument
is always the device.

Example usage:
  serialctl send /dev/ttyUSB0 AT --cr
  serialctl send COM3 "41 54 0D" --hex
  serialctl send /dev/ttyUSB0 "AT+COPS=?" --cr --wait 30s`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dataFlag, _ := cmd.Flags().GetString("data")
		device, data, ok, err := sendArgs(args, dataFlag, cmd.Flags().Changed("data"))
		if err != nil {
			return err
		}
		if !ok {
			if data, err = readInput(); err != nil {
				return err
			}
		}

		hexMode, _ := cmd.Flags().GetBool("hex")
		addCR, _ := cmd.Flags().GetBool("cr")
		addLF, _ := cmd.Flags().GetBool("lf")
		wait, _ := cmd.Flags().GetDuration("wait")
		raw, _ := cmd.Flags().GetBool("raw")

		payload := []byte(data)
		if hexMode {
			parsed, err := components.ParseHex(data)
			if err != nil {
				return err
			}
			payload = parsed
		}
		if addCR {
			payload = append(payload, '\r')
		}
		if addLF {
			payload = append(payload, '\n')
		}
		if !cmd.Flags().Changed("wait") {
			wait = cfg.SendDelay
		}

		port, err := openPort(cmd.Context(), device)
		if err != nil {
			return err
		}
		defer port.Release()

		if port.AutoFlush() {
			if err := port.SendWait(payload, wait); err != nil {
				return err
			}
		} else {
			// buffered: flush explicitly, then give the modem the same wait
			if err := port.SendWait(payload, 0); err != nil {
				return err
			}
			if err := port.Flush(); err != nil {
				return err
			}
			time.Sleep(wait)
		}
		log.Debug("sent", zap.Int("bytes", len(payload)))

		response, err := port.ReadBytes(0)
		if err != nil {
			return err
		}

		if raw {
			_, err := os.Stdout.Write(response)
			return err
		}
		printExchange(payload, response, wait)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	addLineFlags(sendCmd)

	sendCmd.Flags().StringP("data", "d", "", "Data to send (instead of the second argument)")
	sendCmd.Flags().BoolP("hex", "x", false, "Interpret data as hexadecimal (e.g. '41540D' for 'AT\\r')")
	sendCmd.Flags().Bool("cr", false, "Append a carriage return")
	sendCmd.Flags().Bool("lf", false, "Append a line feed")
	sendCmd.Flags().DurationP("wait", "w", 0, "Wait before reading the response (default: send delay)")
	sendCmd.Flags().Bool("raw", false, "Write the response bytes unmodified")
}

// sendArgs splits the arguments into device and data. ok is false when the
// data still has to come from stdin or a prompt.
func sendArgs(args []string, dataFlag string, dataSet bool) (device, data string, ok bool, err error) {
	if len(args) == 2 {
		if dataSet {
			return "", "", false, errors.New("data given both as argument and --data")
		}
		return args[0], args[1], true, nil
	}
	if device, err = deviceArg(args); err != nil {
		return "", "", false, err
	}
	return device, dataFlag, dataSet, nil
}

// readInput takes data from a pipe, or prompts when stdin is a terminal
func readInput() (string, error) {
	stat, err := os.Stdin.Stat()
	if err == nil && stat.Mode()&os.ModeCharDevice == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}

	fmt.Print(styles.Title.Render("Enter data to send:") + " ")
	scanner := bufio.NewScanner(os.Stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	return "", scanner.Err()
}

func printExchange(sent, received []byte, wait time.Duration) {
	tx := lipgloss.NewStyle().Foreground(styles.Peach).Bold(true).Render("TX →")
	rx := lipgloss.NewStyle().Foreground(styles.Sky).Bold(true).Render("RX ←")

	fmt.Printf("%s %s\n", tx, components.Escape(sent))
	if len(received) == 0 {
		fmt.Printf("%s %s\n", rx, styles.Muted.Render(fmt.Sprintf("(no response within %s)", wait)))
		return
	}
	for _, line := range splitLines(received) {
		fmt.Printf("%s %s\n", rx, line)
	}
}

// splitLines splits a modem response on CR/LF, dropping empty lines
func splitLines(data []byte) []string {
	return strings.FieldsFunc(string(data), func(r rune) bool {
		return r == '\r' || r == '\n'
	})
}
