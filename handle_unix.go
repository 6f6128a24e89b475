//go:build linux || darwin

package serialctl

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// writePollTimeout bounds how long a write waits for the device to accept data
const writePollTimeout = 2 * time.Second

// fdHandle is a Handle over a raw file descriptor
type fdHandle struct {
	mu     sync.Mutex
	fd     int
	closed bool
}

var _ Handle = (*fdHandle)(nil)

// OpenDevice opens path with x/sys/unix.
//
// The descriptor is opened with O_NONBLOCK so the open itself does not wait
// for carrier detect, and it is left in non-blocking mode.
func OpenDevice(path string, mode Mode) (Handle, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("invalid mode %q", mode)
	}

	flags := unix.O_NOCTTY | unix.O_NONBLOCK | unix.O_CLOEXEC
	switch {
	case mode.Plus():
		flags |= unix.O_RDWR
	case mode.Readable():
		flags |= unix.O_RDONLY
	default:
		flags |= unix.O_WRONLY
	}
	if mode.Append() {
		flags |= unix.O_APPEND
	}

	fd, err := unix.Open(path, flags, 0)
	if err != nil {
		return nil, classifyOpenError(path, err)
	}

	return newFDHandle(fd), nil
}

func newFDHandle(fd int) *fdHandle {
	return &fdHandle{fd: fd}
}

func classifyOpenError(path string, err error) error {
	switch {
	case errors.Is(err, unix.ENOENT):
		return fmt.Errorf("%s: %w", path, os.ErrNotExist)
	case errors.Is(err, unix.EACCES), errors.Is(err, unix.EPERM):
		return fmt.Errorf("%s: %w", path, os.ErrPermission)
	case errors.Is(err, unix.EBUSY):
		return fmt.Errorf("%s: device busy: %w", path, err)
	default:
		return fmt.Errorf("open %s: %w", path, err)
	}
}

// Read reads available bytes. EAGAIN is reported as an empty read.
func (h *fdHandle) Read(buf []byte) (int, error) {
	h.mu.Lock()
	fd, closed := h.fd, h.closed
	h.mu.Unlock()

	if closed {
		return 0, os.ErrClosed
	}

	for {
		n, err := unix.Read(fd, buf)
		switch {
		case err == unix.EINTR:
			continue
		case err == unix.EAGAIN:
			return 0, nil
		case err != nil:
			return 0, err
		case n < 0:
			return 0, nil
		default:
			return n, nil
		}
	}
}

// Write writes all of data, polling for writability when the descriptor
// is non-blocking and the kernel buffer is full.
func (h *fdHandle) Write(data []byte) (int, error) {
	h.mu.Lock()
	fd, closed := h.fd, h.closed
	h.mu.Unlock()

	if closed {
		return 0, os.ErrClosed
	}

	var written int
	for written < len(data) {
		n, err := unix.Write(fd, data[written:])
		switch {
		case err == unix.EINTR:
			continue
		case err == unix.EAGAIN:
			if err := waitWritable(fd); err != nil {
				return written, err
			}
			continue
		case err != nil:
			return written, err
		}
		written += n
	}
	return written, nil
}

func waitWritable(fd int) error {
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLOUT}}
	for {
		n, err := unix.Poll(fds, int(writePollTimeout/time.Millisecond))
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return err
		}
		if n == 0 {
			return os.ErrDeadlineExceeded
		}
		return nil
	}
}

func (h *fdHandle) SetBlocking(enabled bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return os.ErrClosed
	}
	return unix.SetNonblock(h.fd, !enabled)
}

func (h *fdHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true
	return unix.Close(h.fd)
}
