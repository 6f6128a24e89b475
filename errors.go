package serialctl

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures returned by a Port
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindUnsupportedPlatform
	KindMissingDependency
	KindInvalidState
	KindInvalidDevice
	KindInvalidBaudRate
	KindInvalidConfig
	KindConfigurationFailed
	KindInvalidMode
	KindDeviceOpenFailed
	KindWriteFailed
	KindReadFailed
	KindDeviceCloseFailed
)

var kindNames = map[ErrorKind]string{
	KindUnknown:             "unknown error",
	KindUnsupportedPlatform: "unsupported platform",
	KindMissingDependency:   "missing dependency",
	KindInvalidState:        "invalid state",
	KindInvalidDevice:       "invalid device",
	KindInvalidBaudRate:     "invalid baud rate",
	KindInvalidConfig:       "invalid serial configuration",
	KindConfigurationFailed: "configuration failed",
	KindInvalidMode:         "invalid open mode",
	KindDeviceOpenFailed:    "device open failed",
	KindWriteFailed:         "write failed",
	KindReadFailed:          "read failed",
	KindDeviceCloseFailed:   "device close failed",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is the single error type returned by this package.
// Op names the Port operation that failed, Device the identifier involved (if any).
type Error struct {
	Kind   ErrorKind
	Op     string
	Device string
	Err    error
}

func (e *Error) Error() string {
	msg := "serialctl"
	if e.Op != "" {
		msg += ": " + e.Op
	}
	if e.Device != "" {
		msg += " " + e.Device
	}
	msg += ": " + e.Kind.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports a match when target is an *Error of the same kind, so the
// sentinels below work with errors.Is regardless of Op and Device.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Predefined errors for use with errors.Is
var (
	ErrUnsupportedPlatform = &Error{Kind: KindUnsupportedPlatform}
	ErrMissingDependency   = &Error{Kind: KindMissingDependency}
	ErrInvalidState        = &Error{Kind: KindInvalidState}
	ErrInvalidDevice       = &Error{Kind: KindInvalidDevice}
	ErrInvalidBaudRate     = &Error{Kind: KindInvalidBaudRate}
	ErrInvalidConfig       = &Error{Kind: KindInvalidConfig}
	ErrConfigurationFailed = &Error{Kind: KindConfigurationFailed}
	ErrInvalidMode         = &Error{Kind: KindInvalidMode}
	ErrDeviceOpenFailed    = &Error{Kind: KindDeviceOpenFailed}
	ErrWriteFailed         = &Error{Kind: KindWriteFailed}
	ErrReadFailed          = &Error{Kind: KindReadFailed}
	ErrDeviceCloseFailed   = &Error{Kind: KindDeviceCloseFailed}
)

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func newError(kind ErrorKind, op, device string, err error) *Error {
	return &Error{Kind: kind, Op: op, Device: device, Err: err}
}
