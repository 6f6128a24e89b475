package serialctl

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{
			newError(KindInvalidBaudRate, "configure baud rate", "/dev/ttyUSB0", errors.New("14400 is not a supported rate")),
			"serialctl: configure baud rate /dev/ttyUSB0: invalid baud rate: 14400 is not a supported rate",
		},
		{
			newError(KindUnsupportedPlatform, "resolve platform", "", nil),
			"serialctl: resolve platform: unsupported platform",
		},
		{
			ErrWriteFailed,
			"serialctl: write failed",
		},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Expected %q, got %q", tt.want, got)
		}
	}
}

func TestErrorIsMatchesKind(t *testing.T) {
	err := newError(KindDeviceOpenFailed, "open", "/dev/ttyS0", io.ErrUnexpectedEOF)
	wrapped := fmt.Errorf("modem init: %w", err)

	if !errors.Is(wrapped, ErrDeviceOpenFailed) {
		t.Errorf("Expected wrapped error to match ErrDeviceOpenFailed")
	}
	if errors.Is(wrapped, ErrDeviceCloseFailed) {
		t.Errorf("Expected no match against a different kind")
	}
	if !errors.Is(wrapped, io.ErrUnexpectedEOF) {
		t.Errorf("Expected the cause to remain reachable through Unwrap")
	}
	if KindOf(wrapped) != KindDeviceOpenFailed {
		t.Errorf("Expected KindDeviceOpenFailed, got %v", KindOf(wrapped))
	}
}

func TestKindOfForeignError(t *testing.T) {
	if got := KindOf(io.EOF); got != KindUnknown {
		t.Errorf("Expected KindUnknown, got %v", got)
	}
	if got := KindOf(nil); got != KindUnknown {
		t.Errorf("Expected KindUnknown for nil, got %v", got)
	}
}

func TestErrorKindString(t *testing.T) {
	for kind := KindUnknown; kind <= KindDeviceCloseFailed; kind++ {
		if _, ok := kindNames[kind]; !ok {
			t.Errorf("ErrorKind(%d) has no name", int(kind))
		}
	}
	if got := ErrorKind(99).String(); got != "ErrorKind(99)" {
		t.Errorf("Expected ErrorKind(99), got %q", got)
	}
}
