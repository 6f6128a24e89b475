//go:build windows

package serialctl

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/windows"
)

const maxDWORD = ^uint32(0)

// Read timeouts that make ReadFile return immediately with whatever is buffered
var nonBlockingTimeouts = windows.CommTimeouts{
	ReadIntervalTimeout: maxDWORD,
}

// All zero: ReadFile waits until the requested bytes arrive
var blockingTimeouts = windows.CommTimeouts{}

// commHandle is a Handle over a Win32 communications handle
type commHandle struct {
	mu     sync.Mutex
	h      windows.Handle
	closed bool
}

var _ Handle = (*commHandle)(nil)

// OpenDevice opens an extended device path such as \\.\COM3
func OpenDevice(path string, mode Mode) (Handle, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("invalid mode %q", mode)
	}

	name, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, err
	}

	var access uint32
	if mode.Readable() {
		access |= windows.GENERIC_READ
	}
	if mode.Writable() {
		access |= windows.GENERIC_WRITE
	}

	h, err := windows.CreateFile(name, access, 0, nil, windows.OPEN_EXISTING, windows.FILE_ATTRIBUTE_NORMAL, 0)
	if err != nil {
		return nil, classifyOpenError(path, err)
	}

	if err := windows.SetCommTimeouts(h, &nonBlockingTimeouts); err != nil {
		windows.CloseHandle(h)
		return nil, fmt.Errorf("set comm timeouts on %s: %w", path, err)
	}

	return &commHandle{h: h}, nil
}

func classifyOpenError(path string, err error) error {
	switch {
	case errors.Is(err, windows.ERROR_FILE_NOT_FOUND):
		return fmt.Errorf("%s: %w", path, os.ErrNotExist)
	case errors.Is(err, windows.ERROR_ACCESS_DENIED):
		// COM ports are exclusive; a second opener also gets access denied
		return fmt.Errorf("%s: %w", path, os.ErrPermission)
	default:
		return fmt.Errorf("open %s: %w", path, err)
	}
}

func (c *commHandle) handle() (windows.Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return windows.InvalidHandle, os.ErrClosed
	}
	return c.h, nil
}

func (c *commHandle) Read(buf []byte) (int, error) {
	h, err := c.handle()
	if err != nil {
		return 0, err
	}

	var done uint32
	if err := windows.ReadFile(h, buf, &done, nil); err != nil {
		return int(done), err
	}
	return int(done), nil
}

func (c *commHandle) Write(data []byte) (int, error) {
	h, err := c.handle()
	if err != nil {
		return 0, err
	}

	var written int
	for written < len(data) {
		var done uint32
		if err := windows.WriteFile(h, data[written:], &done, nil); err != nil {
			return written + int(done), err
		}
		if done == 0 {
			return written, errors.New("write returned no progress")
		}
		written += int(done)
	}
	return written, nil
}

func (c *commHandle) SetBlocking(enabled bool) error {
	h, err := c.handle()
	if err != nil {
		return err
	}
	if enabled {
		return windows.SetCommTimeouts(h, &blockingTimeouts)
	}
	return windows.SetCommTimeouts(h, &nonBlockingTimeouts)
}

func (c *commHandle) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return windows.CloseHandle(c.h)
}
