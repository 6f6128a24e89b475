/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/allbin/go-serialctl"
	"github.com/allbin/go-serialctl/internal/tui/styles"
)

// ratesCmd represents the rates command
var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "List the supported baud rates",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, rate := range serialctl.SupportedBaudRates() {
			s := strconv.Itoa(rate)
			if rate == cfg.Baud {
				s = styles.Success.Render(s + " (configured)")
			}
			fmt.Println(s)
		}
	},
}

func init() {
	rootCmd.AddCommand(ratesCmd)
}
