//go:build windows

package serialctl

func systemName() (string, error) {
	return "Windows", nil
}
