/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"
	"github.com/spf13/cobra"
	"go.bug.st/serial/enumerator"

	"github.com/allbin/go-serialctl/internal/tui/styles"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available serial ports",
	Long: `List the serial ports present on this system, with USB details where
the operating system reports them.

Any listed name can be passed to the other commands. On Linux, Windows-style
names work too: COM1 is /dev/ttyS0.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ports, err := enumerator.GetDetailedPortsList()
		if err != nil {
			return fmt.Errorf("enumerate ports: %w", err)
		}

		filterType, _ := cmd.Flags().GetString("filter")
		simple, _ := cmd.Flags().GetBool("simple")

		ports = filterPorts(ports, filterType)
		slices.SortFunc(ports, func(a, b *enumerator.PortDetails) int {
			return strings.Compare(a.Name, b.Name)
		})

		if len(ports) == 0 {
			if filterType != "" {
				fmt.Printf("No serial ports found matching filter: %s\n", filterType)
			} else {
				fmt.Println("No serial ports found")
			}
			return nil
		}

		if simple {
			for _, p := range ports {
				fmt.Println(p.Name)
			}
			return nil
		}
		renderTable(ports)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("filter", "F", "", "Filter by port type: usb, standard, all")
	listCmd.Flags().BoolP("simple", "s", false, "Print one port name per line")
}

// filterPorts keeps ports of the requested type
func filterPorts(ports []*enumerator.PortDetails, filterType string) []*enumerator.PortDetails {
	switch strings.ToLower(filterType) {
	case "", "all":
		return ports
	case "usb":
		return slices.DeleteFunc(ports, func(p *enumerator.PortDetails) bool { return !p.IsUSB })
	case "standard":
		return slices.DeleteFunc(ports, func(p *enumerator.PortDetails) bool { return p.IsUSB })
	default:
		return nil
	}
}

const (
	colPort    = "port"
	colType    = "type"
	colUSB     = "usb"
	colSerial  = "serial"
	colProduct = "product"
)

func renderTable(ports []*enumerator.PortDetails) {
	columns := []table.Column{
		table.NewColumn(colPort, "Port", 18),
		table.NewColumn(colType, "Type", 16),
		table.NewColumn(colUSB, "VID:PID", 10),
		table.NewColumn(colSerial, "Serial", 16),
		table.NewColumn(colProduct, "Product", 28),
	}

	rows := make([]table.Row, 0, len(ports))
	for _, p := range ports {
		usb := ""
		if p.IsUSB {
			usb = p.VID + ":" + p.PID
		}
		rows = append(rows, table.NewRow(table.RowData{
			colPort:    p.Name,
			colType:    getPortType(p),
			colUSB:     usb,
			colSerial:  p.SerialNumber,
			colProduct: p.Product,
		}))
	}

	t := table.New(columns).
		WithRows(rows).
		BorderRounded().
		HeaderStyle(lipgloss.NewStyle().Bold(true).Foreground(styles.Mauve)).
		WithBaseStyle(lipgloss.NewStyle().Foreground(styles.Text).Align(lipgloss.Left))

	fmt.Printf("Found %d serial port(s):\n", len(ports))
	fmt.Println(t.View())
}

// getPortType classifies a port by its device name
func getPortType(p *enumerator.PortDetails) string {
	name := strings.ToLower(filepath.Base(p.Name))
	switch {
	case strings.HasPrefix(name, "ttyusb"):
		return "USB Serial"
	case strings.HasPrefix(name, "ttyacm"):
		return "USB CDC/ACM"
	case strings.HasPrefix(name, "ttyama"):
		return "ARM Serial"
	case strings.HasPrefix(name, "ttymxc"):
		return "i.MX Serial"
	case strings.HasPrefix(name, "ttys"):
		return "Standard Serial"
	case strings.HasPrefix(name, "cu."), strings.HasPrefix(name, "tty."):
		if p.IsUSB {
			return "USB Serial"
		}
		return "Serial Port"
	case strings.HasPrefix(name, "com"):
		if p.IsUSB {
			return "USB COM Port"
		}
		return "COM Port"
	case p.IsUSB:
		return "USB Serial"
	default:
		return "Serial Port"
	}
}
