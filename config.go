package serialctl

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// FlowControl represents the flow control mode
type FlowControl int

const (
	FlowControlNone FlowControl = iota
	FlowControlRTSCTS
	FlowControlXONXOFF
)

func (f FlowControl) String() string {
	switch f {
	case FlowControlNone:
		return "none"
	case FlowControlRTSCTS:
		return "rtscts"
	case FlowControlXONXOFF:
		return "xonxoff"
	default:
		return fmt.Sprintf("FlowControl(%d)", int(f))
	}
}

// ParseFlowControl accepts "none", "rtscts" (or "hardware") and "xonxoff" (or "software")
func ParseFlowControl(s string) (FlowControl, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return FlowControlNone, nil
	case "rtscts", "hardware":
		return FlowControlRTSCTS, nil
	case "xonxoff", "software":
		return FlowControlXONXOFF, nil
	default:
		return 0, newError(KindInvalidConfig, "parse flow control", "", fmt.Errorf("unknown flow control %q", s))
	}
}

// FlushPolicy decides what happens to buffered bytes a flush could not write
type FlushPolicy int

const (
	// FlushDrop clears the write buffer on every flush attempt, written or not
	FlushDrop FlushPolicy = iota
	// FlushRetain keeps the unwritten tail buffered for the next flush
	FlushRetain
)

func (f FlushPolicy) String() string {
	switch f {
	case FlushDrop:
		return "drop"
	case FlushRetain:
		return "retain"
	default:
		return fmt.Sprintf("FlushPolicy(%d)", int(f))
	}
}

// ParseFlushPolicy accepts "drop" and "retain"
func ParseFlushPolicy(s string) (FlushPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "drop":
		return FlushDrop, nil
	case "retain":
		return FlushRetain, nil
	default:
		return 0, newError(KindInvalidConfig, "parse flush policy", "", fmt.Errorf("unknown flush policy %q", s))
	}
}

// DefaultReadChunkSize is the largest single read issued by ReadBytes
const DefaultReadChunkSize = 128

// Config holds the configuration for a Port
type Config struct {
	AutoFlush     bool
	FlushPolicy   FlushPolicy
	SendDelay     time.Duration // wait after Send, for modem response latency
	ReadChunkSize int
	SystemName    string // overrides uname detection when set
	Runner        CommandRunner
	Opener        OpenFunc
	Logger        *zap.Logger
}

// Option is a functional option for configuring a Port
type Option func(*Config) error

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		AutoFlush:     true,
		FlushPolicy:   FlushDrop,
		SendDelay:     100 * time.Millisecond,
		ReadChunkSize: DefaultReadChunkSize,
		Runner:        ExecRunner{},
		Opener:        OpenDevice,
		Logger:        zap.NewNop(),
	}
}

// WithAutoFlush sets whether Send flushes immediately
func WithAutoFlush(enabled bool) Option {
	return func(c *Config) error {
		c.AutoFlush = enabled
		return nil
	}
}

// WithFlushPolicy sets the handling of bytes a flush failed to write
func WithFlushPolicy(policy FlushPolicy) Option {
	return func(c *Config) error {
		if policy != FlushDrop && policy != FlushRetain {
			return ErrInvalidConfig
		}
		c.FlushPolicy = policy
		return nil
	}
}

// WithSendDelay sets the default wait after Send
func WithSendDelay(d time.Duration) Option {
	return func(c *Config) error {
		if d < 0 {
			return ErrInvalidConfig
		}
		c.SendDelay = d
		return nil
	}
}

// WithReadChunkSize sets the largest single read (1-4096 bytes)
func WithReadChunkSize(size int) Option {
	return func(c *Config) error {
		if size < 1 || size > 4096 {
			return ErrInvalidConfig
		}
		c.ReadChunkSize = size
		return nil
	}
}

// WithSystemName overrides the detected system identification string
func WithSystemName(name string) Option {
	return func(c *Config) error {
		c.SystemName = name
		return nil
	}
}

// WithRunner sets the external command runner
func WithRunner(r CommandRunner) Option {
	return func(c *Config) error {
		if r == nil {
			return ErrInvalidConfig
		}
		c.Runner = r
		return nil
	}
}

// WithOpener sets the function used to acquire device handles
func WithOpener(open OpenFunc) Option {
	return func(c *Config) error {
		if open == nil {
			return ErrInvalidConfig
		}
		c.Opener = open
		return nil
	}
}

// WithLogger sets the logger; nil disables logging
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			l = zap.NewNop()
		}
		c.Logger = l
		return nil
	}
}
