package serialctl

// Handle is an open byte stream to a serial device.
//
// In non-blocking mode Read returns (0, nil) when no data is available.
// In blocking mode Read waits for at least one byte; (0, nil) then means
// the stream has ended.
type Handle interface {
	Read(buf []byte) (int, error)
	Write(data []byte) (int, error)
	Close() error
	SetBlocking(enabled bool) error
}

// OpenFunc acquires a Handle for a device path with the given access mode
type OpenFunc func(path string, mode Mode) (Handle, error)
