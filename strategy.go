package serialctl

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
)

// Device is a resolved device identifier.
// Alias is only set on Windows, where configuration commands take the short
// COM name and I/O uses the extended path.
type Device struct {
	Path  string
	Alias string
}

func (d Device) String() string {
	if d.Alias != "" {
		return d.Alias
	}
	return d.Path
}

// configName is the identifier passed to line configuration commands
func (d Device) configName() string {
	if d.Alias != "" {
		return d.Alias
	}
	return d.Path
}

// PlatformStrategy holds everything that differs between operating systems
type PlatformStrategy interface {
	Platform() Platform
	// ProbeDependency checks that the line configuration utility is present
	ProbeDependency(ctx context.Context, run CommandRunner) error
	// NormalizeDevice turns user input into a Device, probing it where the platform allows
	NormalizeDevice(ctx context.Context, run CommandRunner, raw string) (Device, error)
	// ConfigureLine sets the baud rate (8N1 is implied)
	ConfigureLine(ctx context.Context, run CommandRunner, dev Device, rate int) error
	// ConfigureFlow sets the flow control discipline
	ConfigureFlow(ctx context.Context, run CommandRunner, dev Device, fc FlowControl) error
}

// comPattern matches COM port names such as "COM3", "com12:"
var comPattern = regexp.MustCompile(`(?i)^COM([1-9][0-9]*):?$`)

// parseCOM returns the port number of a COM name
func parseCOM(raw string) (int, bool) {
	m := comPattern.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// newStrategy returns the strategy for p
func newStrategy(p Platform) (PlatformStrategy, error) {
	switch p {
	case PlatformLinux:
		return linuxStrategy{}, nil
	case PlatformMacOS:
		return macStrategy{}, nil
	case PlatformWindows:
		return windowsStrategy{}, nil
	default:
		return nil, newError(KindUnsupportedPlatform, "select strategy", "", fmt.Errorf("platform %v", p))
	}
}

// runChecked runs a command and maps failure to kind
func runChecked(ctx context.Context, run CommandRunner, kind ErrorKind, op, device, name string, args ...string) error {
	res, err := run.Run(ctx, name, args...)
	if err != nil {
		return newError(kind, op, device, fmt.Errorf("%s: %w", commandLine(name, args), err))
	}
	if !res.Success() {
		return newError(kind, op, device, fmt.Errorf("%s: exit status %d", commandLine(name, args), res.ExitCode))
	}
	return nil
}

// sttyFlowArgs are the stty settings for each flow control mode
func sttyFlowArgs(fc FlowControl) ([]string, error) {
	switch fc {
	case FlowControlNone:
		return []string{"-crtscts", "-ixon", "-ixoff"}, nil
	case FlowControlRTSCTS:
		return []string{"crtscts", "-ixon", "-ixoff"}, nil
	case FlowControlXONXOFF:
		return []string{"-crtscts", "ixon", "ixoff"}, nil
	default:
		return nil, fmt.Errorf("unknown flow control %v", fc)
	}
}

// linuxStrategy configures lines with GNU stty -F
type linuxStrategy struct{}

func (linuxStrategy) Platform() Platform { return PlatformLinux }

func (linuxStrategy) ProbeDependency(ctx context.Context, run CommandRunner) error {
	return runChecked(ctx, run, KindMissingDependency, "probe dependency", "", "stty", "--version")
}

func (linuxStrategy) NormalizeDevice(ctx context.Context, run CommandRunner, raw string) (Device, error) {
	path := raw
	if n, ok := parseCOM(raw); ok {
		path = "/dev/ttyS" + strconv.Itoa(n-1)
	}
	if err := runChecked(ctx, run, KindInvalidDevice, "set device", path, "stty", "-F", path); err != nil {
		return Device{}, err
	}
	return Device{Path: path}, nil
}

func (linuxStrategy) ConfigureLine(ctx context.Context, run CommandRunner, dev Device, rate int) error {
	return runChecked(ctx, run, KindConfigurationFailed, "configure baud rate", dev.Path,
		"stty", "-F", dev.Path, "raw", "speed", strconv.Itoa(rate))
}

func (linuxStrategy) ConfigureFlow(ctx context.Context, run CommandRunner, dev Device, fc FlowControl) error {
	flow, err := sttyFlowArgs(fc)
	if err != nil {
		return newError(KindInvalidConfig, "configure flow control", dev.Path, err)
	}
	return runChecked(ctx, run, KindConfigurationFailed, "configure flow control", dev.Path,
		"stty", append([]string{"-F", dev.Path}, flow...)...)
}

// macStrategy configures lines with BSD stty -f
type macStrategy struct{}

func (macStrategy) Platform() Platform { return PlatformMacOS }

// BSD stty has no version flag; it ships with the base system.
func (macStrategy) ProbeDependency(ctx context.Context, run CommandRunner) error {
	return nil
}

func (macStrategy) NormalizeDevice(ctx context.Context, run CommandRunner, raw string) (Device, error) {
	if err := runChecked(ctx, run, KindInvalidDevice, "set device", raw, "stty", "-f", raw); err != nil {
		return Device{}, err
	}
	return Device{Path: raw}, nil
}

func (macStrategy) ConfigureLine(ctx context.Context, run CommandRunner, dev Device, rate int) error {
	return runChecked(ctx, run, KindConfigurationFailed, "configure baud rate", dev.Path,
		"stty", "-f", dev.Path, "raw", "speed", strconv.Itoa(rate))
}

func (macStrategy) ConfigureFlow(ctx context.Context, run CommandRunner, dev Device, fc FlowControl) error {
	flow, err := sttyFlowArgs(fc)
	if err != nil {
		return newError(KindInvalidConfig, "configure flow control", dev.Path, err)
	}
	return runChecked(ctx, run, KindConfigurationFailed, "configure flow control", dev.Path,
		"stty", append([]string{"-f", dev.Path}, flow...)...)
}

// windowsStrategy configures lines with mode.com
type windowsStrategy struct{}

func (windowsStrategy) Platform() Platform { return PlatformWindows }

func (windowsStrategy) ProbeDependency(ctx context.Context, run CommandRunner) error {
	return nil
}

func (windowsStrategy) NormalizeDevice(ctx context.Context, run CommandRunner, raw string) (Device, error) {
	n, ok := parseCOM(raw)
	if !ok {
		return Device{}, newError(KindInvalidDevice, "set device", raw, fmt.Errorf("expected a COM port name"))
	}
	alias := "COM" + strconv.Itoa(n)
	return Device{Path: `\\.\` + alias, Alias: alias}, nil
}

func (windowsStrategy) ConfigureLine(ctx context.Context, run CommandRunner, dev Device, rate int) error {
	return runChecked(ctx, run, KindConfigurationFailed, "configure baud rate", dev.configName(),
		"mode", dev.configName()+":", "BAUD="+strconv.Itoa(rate), "PARITY=n", "DATA=8", "STOP=1")
}

func (windowsStrategy) ConfigureFlow(ctx context.Context, run CommandRunner, dev Device, fc FlowControl) error {
	var flow []string
	switch fc {
	case FlowControlNone:
		flow = []string{"xon=off", "octs=off", "rts=on"}
	case FlowControlRTSCTS:
		flow = []string{"xon=off", "octs=on", "rts=hs"}
	case FlowControlXONXOFF:
		flow = []string{"xon=on", "octs=off", "rts=on"}
	default:
		return newError(KindInvalidConfig, "configure flow control", dev.configName(), fmt.Errorf("unknown flow control %v", fc))
	}
	return runChecked(ctx, run, KindConfigurationFailed, "configure flow control", dev.configName(),
		"mode", append([]string{dev.configName() + ":"}, flow...)...)
}
