package reactor

import (
	"time"

	"github.com/nightingaled/reactor/internal/containers"
)

// Loop is the reactor core. It is bound to whichever goroutine calls Run,
// and every method other than InjectBreak, InjectEvent.Schedule/Cancel and
// the wake channel's write side must only be called from that goroutine.
type Loop struct {
	opts *loopOptions

	backend pollBackend
	coarse  *coarseTimerWheel
	fine    *fineTimerList

	deferList deferQueue
	idleList  deferQueue
	inject    injectQueue

	sockets      containers.DList[SocketEvent]
	readySockets containers.DList[SocketEvent]

	wake     *wakeChannel
	wakePipe *PipeEvent

	clock clockCache

	state *loopState
	quit  bool

	logger Logger
}

// New constructs a Loop with the given options. The loop is not yet
// running: call Run to start dispatching.
func New(options ...LoopOption) (*Loop, error) {
	opts := resolveLoopOptions(options)

	backend, err := newPollBackend()
	if err != nil {
		return nil, err
	}

	wake, err := newWakeChannel()
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	l := &Loop{
		opts:    opts,
		backend: backend,
		coarse:  newCoarseTimerWheel(opts.coarseResolution, opts.coarseSpan),
		fine:    newFineTimerList(),
		wake:    wake,
		logger:  opts.logger,
		state:   newLoopState(),
	}
	l.wakePipe = NewPipeEvent(l, func(Events) { l.onWake() })
	l.wakePipe.Open(wake.readFD)
	if err := l.wakePipe.ScheduleRead(); err != nil {
		_ = wake.close()
		_ = backend.Close()
		return nil, err
	}
	return l, nil
}

// Close releases the loop's own resources: the poll backend and the wake
// channel. It must only be called after Run has returned (or was never
// started) and after every caller-owned registration has been torn down.
func (l *Loop) Close() error {
	_ = l.wakePipe.Close()
	werr := l.wake.close()
	berr := l.backend.Close()
	if werr != nil {
		return werr
	}
	return berr
}

// SteadyNow returns the loop's cached monotonic clock, stable for the
// remainder of the current iteration.
func (l *Loop) SteadyNow() time.Time {
	return l.clock.now()
}

// FlushClockCaches forces the next SteadyNow call to re-read the system
// clock. The loop flushes its cache itself at the start of each iteration
// and after each poll wait; this is exposed for tests that
// need to simulate the passage of time between iterations.
func (l *Loop) FlushClockCaches() {
	l.clock.flush()
}

// IsInside reports whether the calling goroutine is, to the best of the
// loop's knowledge, the one currently executing Run. Go has no portable
// notion of "the thread that constructed this object" the way a
// single-threaded C++ reactor does, so this is an approximation based on
// whether Run is currently active; it is intended for debug assertions,
// not for correctness-critical branching. In a build with no concurrent
// callers at all, it is equivalent to the upstream design's always-true
// non-threaded case.
func (l *Loop) IsInside() bool {
	return l.state.running()
}

// Break requests that Run return after completing the current pass. Only
// safe to call from the loop's own goroutine; for any other goroutine use
// InjectBreak. Called before Run, it makes Run return without dispatching
// anything.
func (l *Loop) Break() {
	l.quit = true
	l.state.tryTransition(StateRunning, StateTerminating)
}

// InjectBreak requests, from any goroutine, that Run return. It is
// observed the next time the loop drains the inject queue, which happens
// promptly because the wake channel is written immediately.
func (l *Loop) InjectBreak() {
	if l.inject.requestQuit() {
		_ = l.wake.write()
	}
}

// Logger returns the loop's configured logger.
func (l *Loop) Logger() Logger {
	return l.logger
}

// Run dispatches events until Break, InjectBreak, or an unrecoverable
// error occurs. It returns ErrLoopTerminated if the loop has already
// returned from a previous Run (a Loop cannot be restarted), and
// ErrLoopAlreadyRunning if Run is already active — whether that is a call
// from another goroutine or a reentrant call from within a callback
// dispatched by this Run is indistinguishable without goroutine-local
// state, which Go does not expose; ErrReentrantRun is reserved for a
// caller-supplied mechanism (e.g. a context value) to report that case
// more precisely, but this implementation does not attempt to.
func (l *Loop) Run() error {
	if !l.state.tryTransition(StateAwake, StateRunning) {
		if l.state.load() == StateTerminated {
			return ErrLoopTerminated
		}
		return ErrLoopAlreadyRunning
	}

	for !l.quit {
		l.runIteration()
	}
	l.state.store(StateTerminated)
	return nil
}

// runIteration executes exactly the ordering this package documents:
// flush clock -> drain defer -> drain inject -> run timers -> maybe one
// idle step -> compute timeout -> wait -> dispatch ready sockets.
func (l *Loop) runIteration() {
	l.clock.flush()

	l.deferList.drain()
	if l.inject.drain() {
		l.quit = true
		l.state.store(StateTerminating)
	}
	if l.quit {
		return
	}

	now := l.SteadyNow()
	coarseWait := l.coarse.run(now)
	fineWait := l.fine.run(now)
	if l.quit {
		return
	}

	next := minWait(coarseWait, fineWait)

	// Idle work waits while defer work is pending; pending defer work also
	// keeps the wait below from blocking.
	again := !l.deferList.list.Empty()
	if !again {
		again = l.idleList.drainOne()
	}

	var timeout time.Duration
	switch {
	case !l.readySockets.Empty() || again:
		timeout = 0
	case next < 0:
		timeout = -1
	default:
		timeout = next
	}

	l.state.store(StateSleeping)
	err := l.backend.Wait(timeout)
	l.state.store(StateRunning)
	if err != nil {
		l.logWaitError(err)
	}

	l.clock.flush()

	l.dispatchReadySockets()
}

// dispatchReadySockets invokes each ready socket's callback. A callback
// that cancels another ready socket prevents that socket's dispatch later
// in the same pass: cancellation zeroes its scheduled mask, and dispatch
// only passes on ready events that are still scheduled.
func (l *Loop) dispatchReadySockets() {
	for {
		front := l.readySockets.Front()
		if front == nil {
			return
		}
		s := front.Owner()
		s.hook.Unlink()
		s.dispatch()
	}
}

func (l *Loop) onWake() {
	l.wake.drain()
}

func (l *Loop) logWaitError(err error) {
	if l.logger == nil {
		return
	}
	l.logger.Err().Err(err).Log(`poll backend wait failed`)
}

// invokeCallback runs fn with panic isolation: a callback that panics is
// logged and otherwise swallowed rather than taking down the whole loop.
// Every dispatched callback in this package (timer, socket, defer/idle,
// inject, signal) goes through this single call site.
func (l *Loop) invokeCallback(category string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			if l.logger != nil {
				l.logger.Err().Log(category + " callback panicked")
			}
		}
	}()
	fn()
}

func minWait(a, b time.Duration) time.Duration {
	switch {
	case a < 0:
		return b
	case b < 0:
		return a
	case a < b:
		return a
	default:
		return b
	}
}
