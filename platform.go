package serialctl

import (
	"fmt"
	"strings"
)

// Platform identifies the operating system family a Port drives
type Platform int

const (
	PlatformLinux Platform = iota + 1
	PlatformMacOS
	PlatformWindows
)

func (p Platform) String() string {
	switch p {
	case PlatformLinux:
		return "linux"
	case PlatformMacOS:
		return "macos"
	case PlatformWindows:
		return "windows"
	default:
		return fmt.Sprintf("Platform(%d)", int(p))
	}
}

// ResolvePlatform maps a system identification string (as reported by uname)
// to a Platform. Matching is by prefix: "Linux", "Darwin" and "Windows".
func ResolvePlatform(sysname string) (Platform, error) {
	switch {
	case strings.HasPrefix(sysname, "Linux"):
		return PlatformLinux, nil
	case strings.HasPrefix(sysname, "Darwin"):
		return PlatformMacOS, nil
	case strings.HasPrefix(sysname, "Windows"):
		return PlatformWindows, nil
	default:
		return 0, newError(KindUnsupportedPlatform, "resolve platform", "", fmt.Errorf("host system %q", sysname))
	}
}
