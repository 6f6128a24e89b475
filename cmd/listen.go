/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/allbin/go-serialctl/internal/tui/styles"
)

// listenCmd represents the listen command
var listenCmd = &cobra.Command{
	Use:   "listen [device]",
	Short: "Print lines received from a device",
	Long: `Open a device and print every line it sends until interrupted.

Lines end at CR or LF; empty lines are skipped. Useful for unsolicited
modem output such as RING, +CMTI or +CREG.

Example usage:
  serialctl listen /dev/ttyUSB0
  serialctl listen /dev/ttyUSB0 --baud 9600 --count 1
  serialctl listen COM3 --raw`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		device, err := deviceArg(args)
		if err != nil {
			return err
		}

		count, _ := cmd.Flags().GetInt("count")
		raw, _ := cmd.Flags().GetBool("raw")

		port, err := openPort(cmd.Context(), device)
		if err != nil {
			return err
		}
		defer port.Release()

		if !raw {
			dev, _ := port.Device()
			fmt.Println(styles.Muted.Render(fmt.Sprintf("listening on %s, ctrl+c to stop", dev)))
		}

		for n := 0; count == 0 || n < count; n++ {
			line, err := port.ReadLine()
			if err != nil {
				return err
			}
			if line == "" {
				log.Info("device closed the stream")
				return nil
			}
			log.Debug("line", zap.String("line", line))

			if raw {
				fmt.Println(line)
				continue
			}
			fmt.Printf("%s %s\n", styles.Muted.Render(time.Now().Format("15:04:05.000")), line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listenCmd)
	addLineFlags(listenCmd)

	listenCmd.Flags().IntP("count", "n", 0, "Stop after this many lines (0: no limit)")
	listenCmd.Flags().Bool("raw", false, "Print lines only, without timestamps")
}
