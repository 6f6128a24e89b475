//go:build !linux && !darwin && !windows

package serialctl

import (
	"errors"
	"runtime"
)

// OpenDevice is unavailable on this host; New rejects it before any open.
func OpenDevice(path string, mode Mode) (Handle, error) {
	return nil, errors.New("serial devices are not supported on " + runtime.GOOS)
}
