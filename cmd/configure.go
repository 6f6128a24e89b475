/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/allbin/go-serialctl/internal/tui/styles"
)

// configureCmd represents the configure command
var configureCmd = &cobra.Command{
	Use:   "configure [device]",
	Short: "Set baud rate and flow control on a device",
	Long: `Apply the line settings to a device without opening it. Data bits,
parity and stop bits are always 8N1.

Example usage:
  serialctl configure /dev/ttyUSB0 --baud 9600
  serialctl configure COM4 --baud 115200 --flow-control rtscts`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		device, err := deviceArg(args)
		if err != nil {
			return err
		}

		port, err := newPort()
		if err != nil {
			return err
		}
		defer port.Release()

		if err := configureLine(cmd.Context(), port, device); err != nil {
			return err
		}

		dev, _ := port.Device()
		fmt.Printf("%s %s: %d 8N1, flow control %s\n",
			styles.Success.Render("✓"), dev, cfg.Baud, cfg.Flow())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configureCmd)
	addLineFlags(configureCmd)
}
