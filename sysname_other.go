//go:build !linux && !darwin && !windows

package serialctl

import "runtime"

// Unsupported hosts report their GOOS so ResolvePlatform rejects them by name.
func systemName() (string, error) {
	return runtime.GOOS, nil
}
