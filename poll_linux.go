//go:build linux

package reactor

import (
	"errors"
	"time"

	"golang.org/x/sys/unix"
)

// maxEpollEvents bounds a single epoll_wait batch; any remainder is picked
// up on the next call to Wait.
const maxEpollEvents = 256

type fdEntry struct {
	events Events
	cb     pollCallback
	active bool
}

// epollBackend is the Linux pollBackend, backed directly by epoll. Closing
// a descriptor automatically unregisters it from the epoll instance, so
// Abandon is a pure bookkeeping operation: it never calls epoll_ctl.
type epollBackend struct {
	epfd    int
	fds     map[int]*fdEntry
	events  [maxEpollEvents]unix.EpollEvent
	closed  bool
}

func newPollBackend() (pollBackend, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}
	return &epollBackend{
		epfd: epfd,
		fds:  make(map[int]*fdEntry),
	}, nil
}

func (b *epollBackend) Add(fd int, events Events, cb pollCallback) error {
	if b.closed {
		return ErrBackendClosed
	}
	if _, ok := b.fds[fd]; ok {
		return ErrFDAlreadyRegistered
	}
	ev := &unix.EpollEvent{Events: eventsToEpoll(events | implicitEvents), Fd: int32(fd)}
	if err := unix.EpollCtl(b.epfd, unix.EPOLL_CTL_ADD, fd, ev); err != nil {
		return err
	}
	b.fds[fd] = &fdEntry{events: events, cb: cb, active: true}
	return nil
}

func (b *epollBackend) Modify(fd int, events Events) error {
	if b.closed {
		return ErrBackendClosed
	}
	entry, ok := b.fds[fd]
	if !ok {
		return ErrFDNotRegistered
	}
	ev := &unix.EpollEvent{Events: eventsToEpoll(events | implicitEvents), Fd: int32(fd)}
	if err := unix.EpollCtl(b.epfd, unix.EPOLL_CTL_MOD, fd, ev); err != nil {
		// EPOLL_CTL_MOD can fail with ENOENT/EBADF when the descriptor
		// was closed and possibly reused behind this backend's back
		// (the caller still believes it is registered). Report that as
		// "not registered" rather than the raw errno, so callers apply
		// the same stale-descriptor downgrade as a failed Remove.
		if errors.Is(err, unix.ENOENT) || errors.Is(err, unix.EBADF) {
			delete(b.fds, fd)
			return ErrFDNotRegistered
		}
		return err
	}
	entry.events = events
	return nil
}

func (b *epollBackend) Remove(fd int) error {
	if _, ok := b.fds[fd]; !ok {
		return ErrFDNotRegistered
	}
	delete(b.fds, fd)
	// EPOLL_CTL_DEL may legitimately fail with ENOENT if the descriptor
	// was already closed (and thus already auto-unregistered); that is
	// not an error from the caller's point of view.
	err := unix.EpollCtl(b.epfd, unix.EPOLL_CTL_DEL, fd, nil)
	if errors.Is(err, unix.ENOENT) || errors.Is(err, unix.EBADF) {
		return nil
	}
	return err
}

func (b *epollBackend) Abandon(fd int) error {
	if _, ok := b.fds[fd]; !ok {
		return ErrFDNotRegistered
	}
	delete(b.fds, fd)
	return nil
}

func (b *epollBackend) Wait(timeout time.Duration) error {
	if b.closed {
		return ErrBackendClosed
	}
	n, err := unix.EpollWait(b.epfd, b.events[:], timeoutMillis(timeout))
	if err != nil {
		if err == unix.EINTR {
			return nil
		}
		return err
	}
	for i := 0; i < n; i++ {
		fd := int(b.events[i].Fd)
		entry, ok := b.fds[fd]
		if !ok || !entry.active {
			continue
		}
		ready := epollToEvents(b.events[i].Events) & (entry.events | implicitEvents)
		if ready != 0 {
			entry.cb(fd, ready)
		}
	}
	return nil
}

func (b *epollBackend) Close() error {
	b.closed = true
	return unix.Close(b.epfd)
}

// timeoutMillis converts a Go duration into the millisecond timeout
// epoll_wait expects, treating any negative duration as "block forever".
func timeoutMillis(d time.Duration) int {
	if d < 0 {
		return -1
	}
	return int(d / time.Millisecond)
}

func eventsToEpoll(events Events) uint32 {
	var e uint32
	if events&EventRead != 0 {
		e |= unix.EPOLLIN
	}
	if events&EventWrite != 0 {
		e |= unix.EPOLLOUT
	}
	if events&EventError != 0 {
		e |= unix.EPOLLERR
	}
	if events&EventHangup != 0 {
		e |= unix.EPOLLHUP
	}
	return e
}

func epollToEvents(e uint32) Events {
	var events Events
	if e&unix.EPOLLIN != 0 {
		events |= EventRead
	}
	if e&unix.EPOLLOUT != 0 {
		events |= EventWrite
	}
	if e&unix.EPOLLERR != 0 {
		events |= EventError
	}
	if e&unix.EPOLLHUP != 0 {
		events |= EventHangup
	}
	return events
}
