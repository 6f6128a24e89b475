package serialctl

import "regexp"

// Mode is an fopen-style access mode: one of r, w or a, optionally followed
// by "+" for read/write and "b" for binary, e.g. "r+b".
type Mode string

// DefaultMode opens the device for reading and writing
const DefaultMode Mode = "r+b"

var modePattern = regexp.MustCompile(`^[raw]\+?b?$`)

// Valid reports whether m is an accepted access mode
func (m Mode) Valid() bool {
	return modePattern.MatchString(string(m))
}

// Readable reports whether a handle opened with m may be read
func (m Mode) Readable() bool {
	return m.Valid() && (m[0] == 'r' || m.Plus())
}

// Writable reports whether a handle opened with m may be written
func (m Mode) Writable() bool {
	return m.Valid() && (m[0] != 'r' || m.Plus())
}

// Append reports whether writes go to the end of the stream
func (m Mode) Append() bool {
	return m.Valid() && m[0] == 'a'
}

// Plus reports whether the "+" (update) flag is present
func (m Mode) Plus() bool {
	return len(m) > 1 && m[1] == '+'
}
