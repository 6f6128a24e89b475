package serialctl

import (
	"errors"
	"io"
)

// readChunks reads from h in chunks of at most chunkSize bytes.
//
// With count == 0 it drains until a read comes back empty. With count > 0 it
// stops after count bytes or at the first empty read, so it may return fewer
// bytes than asked for. It never retries an empty read.
func readChunks(h Handle, count, chunkSize int) ([]byte, error) {
	if count < 0 {
		count = 0
	}
	if chunkSize < 1 {
		chunkSize = DefaultReadChunkSize
	}

	out := make([]byte, 0, min(max(count, chunkSize), 4*chunkSize))
	buf := make([]byte, chunkSize)

	for count == 0 || len(out) < count {
		want := chunkSize
		if count > 0 {
			want = min(chunkSize, count-len(out))
		}

		n, err := h.Read(buf[:want])
		if n > 0 {
			out = append(out, buf[:n]...)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return out, err
		}
		if n == 0 {
			break
		}
	}
	return out, nil
}

// isLineEnd reports whether c terminates a line
func isLineEnd(c byte) bool {
	return c == '\r' || c == '\n'
}
