package reactor

import "github.com/nightingaled/reactor/internal/containers"

// SocketCallback receives the subset of a socket's scheduled events that
// are currently ready.
type SocketCallback func(events Events)

// SocketEvent is a per-descriptor subscription handle. The caller opens
// the underlying descriptor and decides when it is closed: either through
// Close, which closes fd, or by closing it elsewhere and calling Abandon.
// Otherwise SocketEvent only tracks which events the poll backend should
// report and dispatches them.
//
// Invariant: scheduledEvents == 0 means the descriptor is not registered
// with the backend; any other value means it is registered under exactly
// that mask (always including the implicit error/hangup bits).
type SocketEvent struct {
	loop            *Loop
	hook            containers.DListHook[SocketEvent]
	fd              int
	scheduledEvents Events
	readyEvents     Events
	cb              SocketCallback
}

// NewSocketEvent creates a subscription bound to loop. The returned handle
// is not associated with any descriptor until Open is called.
func NewSocketEvent(loop *Loop, cb SocketCallback) *SocketEvent {
	s := &SocketEvent{loop: loop, fd: -1, cb: cb}
	s.hook.Init(s)
	return s
}

// Open associates fd with this handle. fd must not already be associated.
func (s *SocketEvent) Open(fd int) {
	if s.fd >= 0 {
		panic(ErrInvariantViolation)
	}
	if s.scheduledEvents != 0 {
		panic(ErrInvariantViolation)
	}
	s.fd = fd
	s.loop.sockets.PushBack(&s.hook)
}

// IsOpen reports whether Open has been called without a matching Close or
// Abandon.
func (s *SocketEvent) IsOpen() bool { return s.fd >= 0 }

// Schedule ensures the backend registration for this descriptor equals
// events, adding the implicit error/hangup bits. A no-op if unchanged.
func (s *SocketEvent) Schedule(events Events) error {
	if events != 0 {
		events |= implicitEvents
	}
	if events == s.scheduledEvents {
		return nil
	}

	var err error
	switch {
	case s.scheduledEvents == 0 && events != 0:
		err = s.loop.backend.Add(s.fd, events, s.dispatchFromBackend)
	case s.scheduledEvents != 0 && events == 0:
		err = s.loop.backend.Remove(s.fd)
	default:
		err = s.loop.backend.Modify(s.fd, events)
	}

	if err != nil {
		// A stale-descriptor failure (the fd was closed and possibly
		// reused by an unrelated registration elsewhere) downgrades to
		// "unregistered": touching a fresh fd collision would be worse
		// than silently giving up on this one.
		if err == ErrFDNotRegistered || err == ErrFDAlreadyRegistered {
			s.scheduledEvents = 0
			if s.loop != nil && s.loop.logger != nil {
				s.loop.logger.Warning().Err(err).Log("socket event descriptor stale, schedule downgraded")
			}
			return nil
		}
		return err
	}

	s.scheduledEvents = events
	return nil
}

// explicitEvents returns the caller-requested bits, stripping the implicit
// error/hangup bits Schedule always adds back.
func (s *SocketEvent) explicitEvents() Events {
	return s.scheduledEvents &^ implicitEvents
}

// ScheduleRead adds the read bit to the current schedule.
func (s *SocketEvent) ScheduleRead() error {
	return s.Schedule(s.explicitEvents() | EventRead)
}

// ScheduleWrite adds the write bit to the current schedule.
func (s *SocketEvent) ScheduleWrite() error {
	return s.Schedule(s.explicitEvents() | EventWrite)
}

// CancelRead removes the read bit from the current schedule.
func (s *SocketEvent) CancelRead() error {
	return s.Schedule(s.explicitEvents() &^ EventRead)
}

// CancelWrite removes the write bit from the current schedule.
func (s *SocketEvent) CancelWrite() error {
	return s.Schedule(s.explicitEvents() &^ EventWrite)
}

// Cancel removes all backend registration for this descriptor, equivalent
// to Schedule(0).
func (s *SocketEvent) Cancel() error {
	return s.Schedule(0)
}

// Close unregisters the descriptor (skipping the explicit epoll_ctl(DEL)
// syscall in favour of Abandon's semantics, since the closeFD call below
// already unregisters it implicitly) and closes fd. The descriptor is no
// longer usable by the caller after this returns.
func (s *SocketEvent) Close() error {
	if s.fd < 0 {
		return nil
	}
	fd := s.fd
	s.Abandon()
	return closeFD(fd)
}

// Abandon forgets the descriptor without touching the backend at all: the
// caller already knows fd is being (or has been) closed, and on backends
// where closing implicitly unregisters (epoll), an explicit remove would
// be redundant and could race a fresh fd of the same number.
func (s *SocketEvent) Abandon() {
	if s.fd < 0 {
		return
	}
	s.hook.Unlink()
	if s.scheduledEvents != 0 {
		_ = s.loop.backend.Abandon(s.fd)
	}
	s.fd = -1
	s.scheduledEvents = 0
	s.readyEvents = 0
}

// dispatchFromBackend is the pollCallback registered with the backend. It
// does not invoke cb directly: it marks the event ready and moves the
// handle from the loop's sockets list to its ready_sockets list, so that
// dispatch order matches defer -> timers -> idle -> poll -> socket
// dispatch, rather than running inline during Wait.
func (s *SocketEvent) dispatchFromBackend(fd int, events Events) {
	s.readyEvents |= events
	s.hook.Unlink()
	s.loop.readySockets.PushBack(&s.hook)
}

// dispatch is called by the loop once per ready socket, after Wait
// returns. It is not exported: the loop alone decides when dispatch
// ordering is safe.
func (s *SocketEvent) dispatch() {
	ready := s.readyEvents & s.scheduledEvents
	s.readyEvents = 0
	if ready == 0 || s.cb == nil {
		return
	}
	if s.loop != nil {
		s.loop.invokeCallback("socket", func() { s.cb(ready) })
		return
	}
	s.cb(ready)
}
