//go:build linux || darwin

package serialctl

import "golang.org/x/sys/unix"

// systemName returns the kernel name reported by uname(2)
func systemName() (string, error) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return "", err
	}
	return unix.ByteSliceToString(uts.Sysname[:]), nil
}
