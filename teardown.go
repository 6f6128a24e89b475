package serialctl

import (
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"weak"
)

// teardownEntry tracks one live Port and, while it is open, its handle
type teardownEntry struct {
	id     uint64
	port   weak.Pointer[Port]
	handle Handle
}

// teardownList is the process-wide list of live Ports.
// Entries hold weak references so an abandoned Port can still be collected;
// its handle is then closed by the cleanup registered in Open and its entry
// removed by the one registered in New.
type teardownList struct {
	mu      sync.Mutex
	next    uint64
	entries map[uint64]*teardownEntry
}

var teardown = &teardownList{entries: make(map[uint64]*teardownEntry)}

func (t *teardownList) add(p *Port) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.next++
	t.entries[t.next] = &teardownEntry{id: t.next, port: weak.Make(p)}
	return t.next
}

func (t *teardownList) remove(id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, id)
}

func (t *teardownList) setHandle(id uint64, h Handle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.entries[id]; ok {
		e.handle = h
	}
}

func (t *teardownList) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

func (t *teardownList) snapshot() []teardownEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]teardownEntry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, *e)
	}
	return out
}

// CloseAll closes every open Port in the process.
//
// A Port busy in another call (typically a blocking ReadLine) has its handle
// closed directly without a state change; the process is expected to exit.
// A later CloseAll does not close that handle again.
func CloseAll() error {
	var errs []error
	for _, e := range teardown.snapshot() {
		if e.handle == nil {
			continue
		}
		p := e.port.Value()
		if p != nil && p.mu.TryLock() {
			err := p.closeLocked()
			p.mu.Unlock()
			if err != nil {
				errs = append(errs, err)
			}
			continue
		}
		// a collected Port's handle may already be closed by its cleanup
		if err := e.handle.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			errs = append(errs, newError(KindDeviceCloseFailed, "close all", "", err))
		}
		teardown.setHandle(e.id, nil)
	}
	return errors.Join(errs...)
}

var exit = os.Exit

// CloseOnSignal runs CloseAll and exits when one of sigs arrives
// (os.Interrupt and SIGTERM when none are given). The exit status is
// 130 for an interrupt and 143 otherwise. The returned function removes
// the handler.
func CloseOnSignal(sigs ...os.Signal) (stop func()) {
	if len(sigs) == 0 {
		sigs = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}

	ch := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(ch, sigs...)

	go func() {
		select {
		case sig := <-ch:
			signal.Stop(ch)
			CloseAll()
			if sig == os.Interrupt {
				exit(130)
			}
			exit(143)
		case <-done:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(ch)
			close(done)
		})
	}
}
