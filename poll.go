package reactor

import "time"

// Events is a bitmask of descriptor readiness conditions, modelled after
// poll(2)'s revents field.
type Events uint32

const (
	// EventRead indicates the descriptor is ready for reading.
	EventRead Events = 1 << iota
	// EventWrite indicates the descriptor is ready for writing.
	EventWrite
	// EventError indicates an error condition on the descriptor.
	EventError
	// EventHangup indicates the peer end of the descriptor has closed.
	EventHangup
)

// implicitEvents are always monitored once a descriptor is scheduled for
// anything, whether or not the caller asked for them: a socket that errors
// or hangs up needs to be reported even if it only asked for EventRead.
const implicitEvents = EventError | EventHangup

// pollCallback is invoked by the backend's Wait with the subset of the
// descriptor's scheduled events that are currently ready. It always runs
// on the loop's own thread, from inside Wait.
type pollCallback func(fd int, events Events)

// pollBackend multiplexes descriptor readiness. Exactly one implementation
// is compiled in per platform: epoll on Linux, poll(2) elsewhere on POSIX,
// and a select(2) emulation on Windows. None of these implementations are
// safe for concurrent use; registration and Wait must all happen on the
// loop's own thread.
type pollBackend interface {
	// Add registers fd for the given events, invoking cb when any of them
	// (or an implicit event) becomes ready. Returns ErrFDAlreadyRegistered
	// if fd is already known to the backend.
	Add(fd int, events Events, cb pollCallback) error

	// Modify changes the set of events monitored for an already-registered
	// fd. Returns ErrFDNotRegistered if fd is unknown.
	Modify(fd int, events Events) error

	// Remove unregisters fd. Returns ErrFDNotRegistered if fd is unknown.
	Remove(fd int) error

	// Abandon drops bookkeeping for fd without touching the kernel side,
	// for callers that know the descriptor itself has already been (or is
	// about to be) closed, and closing it auto-unregisters from the
	// backend. On backends where closing does not imply unregistering
	// (poll(2), the Windows emulation), Abandon behaves like Remove.
	Abandon(fd int) error

	// Wait blocks until a descriptor becomes ready or timeout elapses,
	// dispatching callbacks for whatever is ready before returning.
	// A negative timeout blocks indefinitely.
	Wait(timeout time.Duration) error

	// Close releases backend resources. The backend must not be used
	// afterwards.
	Close() error
}
