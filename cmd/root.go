/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/allbin/go-serialctl"
	"github.com/allbin/go-serialctl/internal/config"
	"github.com/allbin/go-serialctl/internal/logger"
	"github.com/allbin/go-serialctl/internal/tui/styles"
)

var (
	cfgFile string
	cfg     *config.Config
	log     = zap.NewNop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "serialctl",
	Short: "Drive AT-command modems over serial ports",
	Long: `serialctl configures serial lines with the platform's own tools
(stty on Linux and macOS, mode on Windows) and talks to AT-command modems.

Settings come from serialctl.yaml, SERIALCTL_* environment variables and
flags, in rising precedence.

Example usage:
  serialctl list
  serialctl probe COM3
  serialctl send /dev/ttyUSB0 "AT+CSQ" --cr
  serialctl term /dev/ttyUSB0 --baud 9600`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		cfg = loaded

		l, err := logger.New(cfg.Log)
		if err != nil {
			return err
		}
		log = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	stop := serialctl.CloseOnSignal()
	defer stop()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", styles.Failure.Render("✗"), err)
		serialctl.CloseAll()
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./serialctl.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "console", "Log format: console, json")
	rootCmd.PersistentFlags().String("log-file", "", "Also write JSON logs to this file (rotated)")
}

// addLineFlags registers the flags of commands that open a port
func addLineFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("baud", "b", 115200, "Baud rate")
	cmd.Flags().StringP("flow-control", "f", "none", "Flow control: none, rtscts, xonxoff")
	cmd.Flags().String("mode", string(serialctl.DefaultMode), "Open mode (r, w, a with optional + and b)")
	cmd.Flags().Duration("send-delay", serialctl.DefaultConfig().SendDelay, "Wait after each send")
	cmd.Flags().String("flush-policy", "drop", "Unwritten bytes on a failed flush: drop, retain")
	cmd.Flags().Bool("auto-flush", true, "Flush on every send")
}

// exitCode maps error kinds to process exit status
func exitCode(err error) int {
	switch serialctl.KindOf(err) {
	case serialctl.KindUnsupportedPlatform, serialctl.KindMissingDependency:
		return 3
	case serialctl.KindInvalidDevice, serialctl.KindDeviceOpenFailed:
		return 4
	case serialctl.KindInvalidBaudRate, serialctl.KindInvalidConfig, serialctl.KindInvalidMode:
		return 2
	default:
		return 1
	}
}

// deviceArg picks the device from the arguments or the configuration
func deviceArg(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if cfg != nil && cfg.Device != "" {
		return cfg.Device, nil
	}
	return "", errors.New("no device given and none configured")
}

// newPort constructs a Port from the loaded configuration
func newPort() (*serialctl.Port, error) {
	return serialctl.New(cfg.PortOptions(log)...)
}

// openPort walks a Port through SetDevice, line configuration and Open
func openPort(ctx context.Context, device string) (*serialctl.Port, error) {
	port, err := newPort()
	if err != nil {
		return nil, err
	}
	if err := configureLine(ctx, port, device); err != nil {
		port.Release()
		return nil, err
	}
	if err := port.Open(serialctl.Mode(cfg.Mode)); err != nil {
		port.Release()
		return nil, err
	}
	log.Info("port open", zap.String("device", device), zap.Int("baud", cfg.Baud))
	return port, nil
}

func configureLine(ctx context.Context, port *serialctl.Port, device string) error {
	if err := port.SetDevice(ctx, device); err != nil {
		return err
	}
	if err := port.ConfigureBaudRate(ctx, cfg.Baud); err != nil {
		return err
	}
	return port.ConfigureFlowControl(ctx, cfg.Flow())
}

func printField(label, value string) {
	fmt.Println(lipgloss.JoinHorizontal(lipgloss.Left, styles.Label.Render(label), value))
}
