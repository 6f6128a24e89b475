package serialctl

import (
	"context"
	"sync"
	"testing"
	"time"
)

// scriptedRunner records command lines and answers with scripted exit codes
type scriptedRunner struct {
	mu    sync.Mutex
	calls []string
	exit  map[string]int
	err   error
}

func newScriptedRunner() *scriptedRunner {
	return &scriptedRunner{exit: make(map[string]int)}
}

func (r *scriptedRunner) Run(ctx context.Context, name string, args ...string) (CommandResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	line := commandLine(name, args)
	r.calls = append(r.calls, line)
	if r.err != nil {
		return CommandResult{ExitCode: -1}, r.err
	}
	return CommandResult{ExitCode: r.exit[line]}, nil
}

func (r *scriptedRunner) fail(line string, code int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exit[line] = code
}

func (r *scriptedRunner) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// memHandle is an in-memory Handle.
// Reads consume RX; with Loopback set, writes are appended to RX.
type memHandle struct {
	RX        []byte
	Written   []byte
	Loopback  bool
	ReadErr   error
	WriteErr  error
	WriteMax  int // bytes accepted per Write before WriteErr applies, 0 means all
	CloseErr  error
	Closed    bool
	Closes    int
	Blocking  bool
	ReadSizes []int
	Toggles   []bool
}

func (m *memHandle) Read(buf []byte) (int, error) {
	m.ReadSizes = append(m.ReadSizes, len(buf))
	if m.ReadErr != nil {
		return 0, m.ReadErr
	}
	n := copy(buf, m.RX)
	m.RX = m.RX[n:]
	return n, nil
}

func (m *memHandle) Write(data []byte) (int, error) {
	n := len(data)
	if m.WriteErr != nil {
		n = min(m.WriteMax, len(data))
	}
	m.Written = append(m.Written, data[:n]...)
	if m.Loopback {
		m.RX = append(m.RX, data[:n]...)
	}
	return n, m.WriteErr
}

func (m *memHandle) Close() error {
	m.Closed = true
	m.Closes++
	return m.CloseErr
}

// signalHandle reports its first Close on closed.
// Safe to close from the runtime's cleanup goroutine.
type signalHandle struct {
	once   sync.Once
	closed chan struct{}
}

func newSignalHandle() *signalHandle {
	return &signalHandle{closed: make(chan struct{})}
}

func (s *signalHandle) Read(buf []byte) (int, error) { return 0, nil }
func (s *signalHandle) Write(data []byte) (int, error) { return len(data), nil }
func (s *signalHandle) SetBlocking(enabled bool) error { return nil }

func (s *signalHandle) Close() error {
	s.once.Do(func() { close(s.closed) })
	return nil
}

func (m *memHandle) SetBlocking(enabled bool) error {
	m.Blocking = enabled
	m.Toggles = append(m.Toggles, enabled)
	return nil
}

// testRig bundles a Port with its fakes
type testRig struct {
	port   *Port
	runner *scriptedRunner
	handle *memHandle
	opened []string
	slept  []time.Duration
}

func newRig(t *testing.T, sysname string, opts ...Option) *testRig {
	t.Helper()

	rig := &testRig{
		runner: newScriptedRunner(),
		handle: &memHandle{},
	}
	opener := func(path string, mode Mode) (Handle, error) {
		rig.opened = append(rig.opened, path)
		rig.handle.Closed = false
		return rig.handle, nil
	}

	all := append([]Option{
		WithSystemName(sysname),
		WithRunner(rig.runner),
		WithOpener(opener),
	}, opts...)

	p, err := New(all...)
	if err != nil {
		t.Fatalf("New(%q) failed: %v", sysname, err)
	}
	p.sleep = func(d time.Duration) { rig.slept = append(rig.slept, d) }
	t.Cleanup(func() { p.Release() })

	rig.port = p
	return rig
}

// newOpenRig returns a rig whose Port is open on /dev/ttyUSB0
func newOpenRig(t *testing.T, opts ...Option) *testRig {
	t.Helper()

	rig := newRig(t, "Linux", opts...)
	if err := rig.port.SetDevice(context.Background(), "/dev/ttyUSB0"); err != nil {
		t.Fatalf("SetDevice failed: %v", err)
	}
	if err := rig.port.Open(DefaultMode); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return rig
}
