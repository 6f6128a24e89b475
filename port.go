package serialctl

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"
)

// State is the lifecycle stage of a Port
type State int

const (
	StateUnset State = iota
	StateSet
	StateOpened
)

func (s State) String() string {
	switch s {
	case StateUnset:
		return "unset"
	case StateSet:
		return "set"
	case StateOpened:
		return "opened"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var errReleased = errors.New("port has been released")

// Port drives one serial device through its lifecycle:
// SetDevice, optional line configuration, Open, I/O, Close.
//
// Calls are serialized by an internal mutex. ReadLine holds it while
// blocked, so a concurrent Close waits for the line to arrive.
type Port struct {
	mu sync.Mutex

	platform Platform
	strategy PlatformStrategy
	config   Config
	log      *zap.Logger
	sleep    func(time.Duration)

	state     State
	device    Device
	handle    Handle
	cleanup   runtime.Cleanup
	writeBuf  []byte
	autoFlush bool
	blocking  bool

	id         uint64
	unregister runtime.Cleanup
	released   bool
}

// New detects the host platform and returns a Port in StateUnset.
//
// It fails with ErrUnsupportedPlatform on hosts other than Linux, macOS and
// Windows, and with ErrMissingDependency when Linux has no working stty.
func New(opts ...Option) (*Port, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		if err := opt(&config); err != nil {
			return nil, err
		}
	}

	sysname := config.SystemName
	if sysname == "" {
		name, err := systemName()
		if err != nil {
			return nil, newError(KindUnsupportedPlatform, "detect platform", "", err)
		}
		sysname = name
	}

	platform, err := ResolvePlatform(sysname)
	if err != nil {
		return nil, err
	}
	strategy, err := newStrategy(platform)
	if err != nil {
		return nil, err
	}
	if err := strategy.ProbeDependency(context.Background(), config.Runner); err != nil {
		config.Logger.Error("line configuration utility unavailable", zap.Stringer("platform", platform), zap.Error(err))
		return nil, err
	}

	p := &Port{
		platform:  platform,
		strategy:  strategy,
		config:    config,
		log:       config.Logger.With(zap.Stringer("platform", platform)),
		sleep:     time.Sleep,
		autoFlush: config.AutoFlush,
	}
	p.id = teardown.add(p)
	p.unregister = runtime.AddCleanup(p, teardown.remove, p.id)

	return p, nil
}

// checkUsable rejects calls on a released Port
func (p *Port) checkUsable(op string) error {
	if p.released {
		return newError(KindInvalidState, op, "", errReleased)
	}
	return nil
}

// requireState fails with ErrInvalidState unless the Port is in want
func (p *Port) requireState(op string, want State) error {
	if err := p.checkUsable(op); err != nil {
		return err
	}
	if p.state != want {
		return newError(KindInvalidState, op, p.deviceName(), fmt.Errorf("port is %v, need %v", p.state, want))
	}
	return nil
}

func (p *Port) deviceName() string {
	if p.state == StateUnset {
		return ""
	}
	return p.device.String()
}

// SetDevice resolves and validates a device identifier and moves the Port to
// StateSet. It may be called again from StateSet to switch devices, but not
// while the Port is open.
func (p *Port) SetDevice(ctx context.Context, raw string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	const op = "set device"
	if err := p.checkUsable(op); err != nil {
		return err
	}
	if p.state == StateOpened {
		return newError(KindInvalidState, op, p.deviceName(), errors.New("close the port first"))
	}

	dev, err := p.strategy.NormalizeDevice(ctx, p.config.Runner, raw)
	if err != nil {
		p.log.Debug("device rejected", zap.String("device", raw), zap.Error(err))
		return err
	}

	p.device = dev
	p.state = StateSet
	p.log.Debug("device set", zap.String("device", raw), zap.String("path", dev.Path), zap.String("alias", dev.Alias))
	return nil
}

// ConfigureBaudRate sets the line speed. The Port must be in StateSet:
// line geometry is fixed before I/O begins.
func (p *Port) ConfigureBaudRate(ctx context.Context, rate int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	const op = "configure baud rate"
	if err := p.requireState(op, StateSet); err != nil {
		return err
	}
	if !ValidBaudRate(rate) {
		return newError(KindInvalidBaudRate, op, p.deviceName(), fmt.Errorf("%d is not a supported rate", rate))
	}

	if err := p.strategy.ConfigureLine(ctx, p.config.Runner, p.device, rate); err != nil {
		p.log.Warn("baud rate configuration failed", zap.String("device", p.deviceName()), zap.Int("baud_rate", rate), zap.Error(err))
		return err
	}
	p.log.Debug("baud rate configured", zap.String("device", p.deviceName()), zap.Int("baud_rate", rate))
	return nil
}

// ConfigureFlowControl sets the flow control discipline. Same gating as
// ConfigureBaudRate.
func (p *Port) ConfigureFlowControl(ctx context.Context, fc FlowControl) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	const op = "configure flow control"
	if err := p.requireState(op, StateSet); err != nil {
		return err
	}

	if err := p.strategy.ConfigureFlow(ctx, p.config.Runner, p.device, fc); err != nil {
		p.log.Warn("flow control configuration failed", zap.String("device", p.deviceName()), zap.Stringer("flow_control", fc), zap.Error(err))
		return err
	}
	p.log.Debug("flow control configured", zap.String("device", p.deviceName()), zap.Stringer("flow_control", fc))
	return nil
}

// Open acquires the device handle and switches it to non-blocking mode.
// An empty mode means DefaultMode. Opening an open Port is a no-op.
func (p *Port) Open(mode Mode) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	const op = "open"
	if err := p.checkUsable(op); err != nil {
		return err
	}
	if p.state == StateOpened {
		return nil
	}
	if p.state == StateUnset {
		return newError(KindInvalidState, op, "", errors.New("no device set"))
	}
	if mode == "" {
		mode = DefaultMode
	}
	if !mode.Valid() {
		return newError(KindInvalidMode, op, p.deviceName(), fmt.Errorf("mode %q", mode))
	}

	h, err := p.config.Opener(p.device.Path, mode)
	if err != nil {
		p.log.Warn("device open failed", zap.String("device", p.deviceName()), zap.Error(err))
		return newError(KindDeviceOpenFailed, op, p.deviceName(), err)
	}
	if err := h.SetBlocking(false); err != nil {
		h.Close()
		return newError(KindDeviceOpenFailed, op, p.deviceName(), fmt.Errorf("set non-blocking: %w", err))
	}

	p.handle = h
	p.blocking = false
	p.state = StateOpened
	p.cleanup = runtime.AddCleanup(p, closeAbandoned, h)
	teardown.setHandle(p.id, h)

	p.log.Debug("device opened", zap.String("device", p.deviceName()), zap.String("mode", string(mode)))
	return nil
}

// closeAbandoned runs when a Port is collected while still open
func closeAbandoned(h Handle) {
	h.Close()
}

// Close releases the handle and returns the Port to StateSet.
// Closing a Port that is not open is a no-op.
func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closeLocked()
}

func (p *Port) closeLocked() error {
	if p.state != StateOpened {
		return nil
	}

	p.cleanup.Stop()
	teardown.setHandle(p.id, nil)

	err := p.handle.Close()
	p.handle = nil
	p.blocking = false
	p.state = StateSet

	if len(p.writeBuf) > 0 {
		p.log.Warn("discarding unflushed bytes on close", zap.String("device", p.deviceName()), zap.Int("bytes", len(p.writeBuf)))
		p.writeBuf = nil
	}

	if err != nil {
		return newError(KindDeviceCloseFailed, "close", p.deviceName(), err)
	}
	p.log.Debug("device closed", zap.String("device", p.deviceName()))
	return nil
}

// Release closes the Port if needed and removes it from the process
// teardown list. The Port cannot be used afterward.
func (p *Port) Release() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.released {
		return nil
	}
	err := p.closeLocked()
	p.released = true
	p.unregister.Stop()
	teardown.remove(p.id)
	return err
}

// Send buffers data, flushes it when auto-flush is on, then waits for the
// configured send delay.
func (p *Port) Send(data []byte) error {
	return p.SendWait(data, p.config.SendDelay)
}

// SendWait is Send with an explicit wait. The wait is a fixed delay for the
// modem to respond and always runs in full unless the flush fails.
func (p *Port) SendWait(data []byte, wait time.Duration) error {
	p.mu.Lock()
	if err := p.requireState("send", StateOpened); err != nil {
		p.mu.Unlock()
		return err
	}

	p.writeBuf = append(p.writeBuf, data...)
	var err error
	if p.autoFlush {
		err = p.flushLocked()
	}
	p.mu.Unlock()

	if err != nil {
		return err
	}
	if wait > 0 {
		p.sleep(wait)
	}
	return nil
}

// Flush writes the buffered bytes. Under FlushDrop the buffer is emptied
// whether or not the write succeeds.
func (p *Port) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.requireState("flush", StateOpened); err != nil {
		return err
	}
	return p.flushLocked()
}

func (p *Port) flushLocked() error {
	if len(p.writeBuf) == 0 {
		return nil
	}

	n, err := p.handle.Write(p.writeBuf)
	n = max(0, min(n, len(p.writeBuf)))
	if err == nil && n < len(p.writeBuf) {
		err = fmt.Errorf("short write: %d of %d bytes", n, len(p.writeBuf))
	}

	// TODO: drop the FlushDrop default once callers have moved to FlushRetain;
	// it loses data silently on a failed write.
	switch p.config.FlushPolicy {
	case FlushRetain:
		p.writeBuf = append(p.writeBuf[:0], p.writeBuf[n:]...)
	default:
		if err != nil {
			p.log.Warn("dropping unwritten bytes", zap.String("device", p.deviceName()), zap.Int("bytes", len(p.writeBuf)-n))
		}
		p.writeBuf = p.writeBuf[:0]
	}

	if err != nil {
		return newError(KindWriteFailed, "flush", p.deviceName(), err)
	}
	p.log.Debug("flushed", zap.String("device", p.deviceName()), zap.Int("bytes", n))
	return nil
}

// ReadBytes reads up to count bytes without blocking; count 0 drains
// everything currently available. See readChunks.
func (p *Port) ReadBytes(count int) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	const op = "read"
	if err := p.requireState(op, StateOpened); err != nil {
		return nil, err
	}

	data, err := readChunks(p.handle, count, p.config.ReadChunkSize)
	if err != nil {
		return data, newError(KindReadFailed, op, p.deviceName(), err)
	}
	return data, nil
}

// ReadLine blocks until a CR or LF ends a non-empty line and returns the
// line without its terminator. Leading CR/LF bytes are skipped. There is no
// timeout. Non-blocking mode is restored before returning.
func (p *Port) ReadLine() (line string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	const op = "read line"
	if err := p.requireState(op, StateOpened); err != nil {
		return "", err
	}

	if err := p.handle.SetBlocking(true); err != nil {
		return "", newError(KindReadFailed, op, p.deviceName(), fmt.Errorf("set blocking: %w", err))
	}
	p.blocking = true
	defer func() {
		restoreErr := p.handle.SetBlocking(false)
		p.blocking = false
		if restoreErr != nil && err == nil {
			err = newError(KindReadFailed, op, p.deviceName(), fmt.Errorf("restore non-blocking: %w", restoreErr))
		}
	}()

	var buf []byte
	for {
		b, readErr := readChunks(p.handle, 1, 1)
		if readErr != nil {
			return string(buf), newError(KindReadFailed, op, p.deviceName(), readErr)
		}
		if len(b) == 0 {
			// end of stream
			return string(buf), nil
		}
		if isLineEnd(b[0]) {
			if len(buf) > 0 {
				return string(buf), nil
			}
			continue
		}
		buf = append(buf, b[0])
	}
}

// SetBlockingMode switches the open handle between blocking and
// non-blocking reads. It does nothing when no handle is open.
func (p *Port) SetBlockingMode(enabled bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.handle == nil {
		return nil
	}
	if err := p.handle.SetBlocking(enabled); err != nil {
		return newError(KindConfigurationFailed, "set blocking mode", p.deviceName(), err)
	}
	p.blocking = enabled
	return nil
}

// SetAutoFlush sets whether Send flushes immediately
func (p *Port) SetAutoFlush(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.autoFlush = enabled
}

// AutoFlush reports whether Send flushes immediately
func (p *Port) AutoFlush() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.autoFlush
}

// State returns the current lifecycle state
func (p *Port) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Device returns the resolved device and whether one is set
func (p *Port) Device() (Device, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.device, p.state != StateUnset
}

// Platform returns the platform resolved at construction
func (p *Port) Platform() Platform {
	return p.platform
}

// Buffered returns the number of bytes waiting to be flushed
func (p *Port) Buffered() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.writeBuf)
}

// Blocking reports whether the open handle is in blocking mode
func (p *Port) Blocking() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.blocking
}
