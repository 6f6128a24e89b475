/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.bug.st/serial/enumerator"

	"github.com/allbin/go-serialctl/internal/tui/styles"
)

// probeCmd represents the probe command
var probeCmd = &cobra.Command{
	Use:   "probe [device]",
	Short: "Resolve and validate a device without opening it",
	Long: `Resolve a device identifier the way every other command does and check
that the line configuration tool accepts it.

Examples:
  serialctl probe /dev/ttyUSB0
  serialctl probe COM3      # /dev/ttyS2 on Linux, \\.\COM3 on Windows

On Windows no probe command runs; only the name is validated.`,
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

		printField("Platform", port.Platform().String())
		if err := port.SetDevice(cmd.Context(), device); err != nil {
			printField("Device", device)
			printField("Status", styles.Failure.Render("rejected"))
			return err
		}

		dev, _ := port.Device()
		printField("Device", device)
		printField("Path", dev.Path)
		if dev.Alias != "" {
			printField("Alias", dev.Alias)
		}
		printField("Status", styles.Success.Render("ok"))

		if details := lookupPort(dev.Path, dev.Alias); details != nil && details.IsUSB {
			printField("USB", details.VID+":"+details.PID)
			if details.SerialNumber != "" {
				printField("Serial", details.SerialNumber)
			}
			if details.Product != "" {
				printField("Product", details.Product)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

// lookupPort finds enumeration details for a resolved device, if any
func lookupPort(path, alias string) *enumerator.PortDetails {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil
	}
	for _, p := range ports {
		if p.Name == path || strings.EqualFold(p.Name, alias) ||
			filepath.Base(p.Name) == filepath.Base(path) {
			return p
		}
	}
	return nil
}
