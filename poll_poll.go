//go:build unix && !linux

package reactor

import (
	"time"

	"golang.org/x/sys/unix"

	"github.com/nightingaled/reactor/internal/containers"
)

// pollItem is the value stored in the fd->index hash set kept by
// pollBackendPoll, mirroring poll(2)'s need for a parallel fds slice plus an
// O(1) fd lookup (poll(2) itself has no concept of a registration handle).
type pollItem struct {
	fd     int
	events Events
	cb     pollCallback
}

func fdHash(fd int) uint64 { return uint64(fd) }

// pollBackendPoll is the pollBackend used on non-Linux POSIX platforms,
// implemented directly on poll(2). Unlike epoll, poll(2) has no equivalent
// of EPOLL_CTL_DEL-on-close, so Abandon behaves exactly like Remove here.
type pollBackendPoll struct {
	fds     []unix.PollFd
	items   []*pollItem
	index   *containers.HashSet[int, int] // fd -> slice position
	closed  bool
}

func newPollBackend() (pollBackend, error) {
	return &pollBackendPoll{
		index: containers.NewHashSet[int, int](64, fdHash),
	}, nil
}

func (b *pollBackendPoll) Add(fd int, events Events, cb pollCallback) error {
	if b.closed {
		return ErrBackendClosed
	}
	pos, present := b.index.InsertCheck(fd)
	if present {
		return ErrFDAlreadyRegistered
	}
	idx := len(b.fds)
	b.fds = append(b.fds, unix.PollFd{Fd: int32(fd), Events: eventsToPoll(events | implicitEvents)})
	b.items = append(b.items, &pollItem{fd: fd, events: events, cb: cb})
	b.index.InsertCommit(pos, fd, idx)
	return nil
}

func (b *pollBackendPoll) Modify(fd int, events Events) error {
	idx, ok := b.index.Find(fd)
	if !ok {
		return ErrFDNotRegistered
	}
	b.fds[idx].Events = eventsToPoll(events | implicitEvents)
	b.items[idx].events = events
	return nil
}

func (b *pollBackendPoll) Remove(fd int) error {
	idx, ok := b.index.Find(fd)
	if !ok {
		return ErrFDNotRegistered
	}
	b.removeAt(idx)
	return nil
}

// Abandon is equivalent to Remove: poll(2) has no implicit unregistration
// on close, so the caller's optimization for epoll does not apply here.
func (b *pollBackendPoll) Abandon(fd int) error {
	return b.Remove(fd)
}

// removeAt deletes the entry at idx via swap-with-last, fixing up the
// moved entry's recorded index in the hash set.
func (b *pollBackendPoll) removeAt(idx int) {
	last := len(b.fds) - 1
	removedFD := b.items[idx].fd
	if idx != last {
		b.fds[idx] = b.fds[last]
		b.items[idx] = b.items[last]
		b.index.Erase(b.items[idx].fd)
		pos, _ := b.index.InsertCheck(b.items[idx].fd)
		b.index.InsertCommit(pos, b.items[idx].fd, idx)
	}
	b.fds = b.fds[:last]
	b.items = b.items[:last]
	b.index.Erase(removedFD)
}

func (b *pollBackendPoll) Wait(timeout time.Duration) error {
	if b.closed {
		return ErrBackendClosed
	}
	if len(b.fds) == 0 {
		// poll(2) with an empty set still honours the timeout, which is
		// exactly the blocking behaviour we want.
		time.Sleep(clampSleep(timeout))
		return nil
	}
	n, err := unix.Poll(b.fds, timeoutMillis(timeout))
	if err != nil {
		if err == unix.EINTR {
			return nil
		}
		return err
	}
	if n == 0 {
		return nil
	}
	// Snapshot before dispatch: a callback may Add/Remove other
	// descriptors, which would otherwise shift indices mid-scan.
	ready := make([]struct {
		item   *pollItem
		events Events
	}, 0, n)
	for i := range b.fds {
		revents := pollToEvents(uint32(b.fds[i].Revents))
		if revents == 0 {
			continue
		}
		masked := revents & (b.items[i].events | implicitEvents)
		if masked != 0 {
			ready = append(ready, struct {
				item   *pollItem
				events Events
			}{b.items[i], masked})
		}
	}
	for _, r := range ready {
		if _, ok := b.index.Find(r.item.fd); ok {
			r.item.cb(r.item.fd, r.events)
		}
	}
	return nil
}

func (b *pollBackendPoll) Close() error {
	b.closed = true
	b.fds = nil
	b.items = nil
	return nil
}

func clampSleep(d time.Duration) time.Duration {
	if d < 0 {
		return time.Hour
	}
	return d
}

func timeoutMillis(d time.Duration) int {
	if d < 0 {
		return -1
	}
	return int(d / time.Millisecond)
}

func eventsToPoll(events Events) int16 {
	var e int16
	if events&EventRead != 0 {
		e |= unix.POLLIN
	}
	if events&EventWrite != 0 {
		e |= unix.POLLOUT
	}
	if events&EventError != 0 {
		e |= unix.POLLERR
	}
	if events&EventHangup != 0 {
		e |= unix.POLLHUP
	}
	return e
}

func pollToEvents(revents uint32) Events {
	var events Events
	if revents&unix.POLLIN != 0 {
		events |= EventRead
	}
	if revents&unix.POLLOUT != 0 {
		events |= EventWrite
	}
	if revents&unix.POLLERR != 0 {
		events |= EventError
	}
	if revents&unix.POLLHUP != 0 {
		events |= EventHangup
	}
	return events
}
