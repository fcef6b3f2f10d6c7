//go:build windows

package reactor

import (
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/nightingaled/reactor/internal/containers"
)

// fdSetSize matches Winsock's default FD_SETSIZE. select() on Windows (unlike
// POSIX) counts sockets rather than indexing by descriptor number, but the
// wire layout still caps the set at a fixed capacity.
const fdSetSize = 64

// winFDSet mirrors Winsock's fd_set: a count followed by a fixed array of
// SOCKET handles.
type winFDSet struct {
	count uint32
	array [fdSetSize]windows.Handle
}

func (s *winFDSet) reset() { s.count = 0 }

func (s *winFDSet) add(h windows.Handle) bool {
	if s.count >= fdSetSize {
		return false
	}
	s.array[s.count] = h
	s.count++
	return true
}

func (s *winFDSet) has(h windows.Handle) bool {
	for i := uint32(0); i < s.count; i++ {
		if s.array[i] == h {
			return true
		}
	}
	return false
}

var (
	modws2_32    = windows.NewLazySystemDLL("ws2_32.dll")
	procSelect   = modws2_32.NewProc("select")
)

type winTimeval struct {
	Sec  int32
	Usec int32
}

func selectSyscall(readfds, writefds, exceptfds *winFDSet, timeout *winTimeval) (int, error) {
	r1, _, e1 := procSelect.Call(
		0, // ignored nfds parameter, kept for BSD socket API compatibility
		uintptr(unsafe.Pointer(readfds)),
		uintptr(unsafe.Pointer(writefds)),
		uintptr(unsafe.Pointer(exceptfds)),
		uintptr(unsafe.Pointer(timeout)),
	)
	n := int(int32(r1))
	if n == -1 {
		return 0, e1
	}
	return n, nil
}

type winItem struct {
	fd     int
	handle windows.Handle
	events Events
	cb     pollCallback
}

// pollBackendWindows emulates this package's pollBackend atop Winsock's
// select(), since the platform has no native epoll/poll(2) equivalent that
// golang.org/x/sys/windows exposes directly. Capacity is bounded by
// fdSetSize, a limitation inherent to select()'s wire format.
type pollBackendWindows struct {
	items  []*winItem
	index  *containers.HashSet[int, int] // fd -> slice position
	closed bool
}

func newPollBackend() (pollBackend, error) {
	return &pollBackendWindows{
		index: containers.NewHashSet[int, int](64, fdHash),
	}, nil
}

func fdHash(fd int) uint64 { return uint64(fd) }

func (b *pollBackendWindows) Add(fd int, events Events, cb pollCallback) error {
	if b.closed {
		return ErrBackendClosed
	}
	pos, present := b.index.InsertCheck(fd)
	if present {
		return ErrFDAlreadyRegistered
	}
	if len(b.items) >= fdSetSize {
		return ErrFDOutOfRange
	}
	idx := len(b.items)
	b.items = append(b.items, &winItem{fd: fd, handle: windows.Handle(fd), events: events, cb: cb})
	b.index.InsertCommit(pos, fd, idx)
	return nil
}

func (b *pollBackendWindows) Modify(fd int, events Events) error {
	idx, ok := b.index.Find(fd)
	if !ok {
		return ErrFDNotRegistered
	}
	b.items[idx].events = events
	return nil
}

func (b *pollBackendWindows) Remove(fd int) error {
	idx, ok := b.index.Find(fd)
	if !ok {
		return ErrFDNotRegistered
	}
	b.removeAt(idx)
	return nil
}

// Abandon behaves like Remove: the select() emulation keeps its own
// bookkeeping independent of any kernel-side registration, so there is
// nothing to skip.
func (b *pollBackendWindows) Abandon(fd int) error {
	return b.Remove(fd)
}

func (b *pollBackendWindows) removeAt(idx int) {
	last := len(b.items) - 1
	removedFD := b.items[idx].fd
	if idx != last {
		b.items[idx] = b.items[last]
		b.index.Erase(b.items[idx].fd)
		pos, _ := b.index.InsertCheck(b.items[idx].fd)
		b.index.InsertCommit(pos, b.items[idx].fd, idx)
	}
	b.items = b.items[:last]
	b.index.Erase(removedFD)
}

func (b *pollBackendWindows) Wait(timeout time.Duration) error {
	if b.closed {
		return ErrBackendClosed
	}
	if len(b.items) == 0 {
		time.Sleep(clampSleep(timeout))
		return nil
	}

	var readSet, writeSet, exceptSet winFDSet
	for _, it := range b.items {
		if it.events&EventRead != 0 {
			readSet.add(it.handle)
		}
		if it.events&EventWrite != 0 {
			writeSet.add(it.handle)
		}
		exceptSet.add(it.handle) // implicit error/hangup monitoring
	}

	tv := durationToTimeval(timeout)
	n, err := selectSyscall(&readSet, &writeSet, &exceptSet, tv)
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}

	for _, it := range b.items {
		var ready Events
		if readSet.has(it.handle) {
			ready |= EventRead
		}
		if writeSet.has(it.handle) {
			ready |= EventWrite
		}
		if exceptSet.has(it.handle) {
			ready |= EventError
		}
		ready &= it.events | implicitEvents
		if ready != 0 {
			it.cb(it.fd, ready)
		}
	}
	return nil
}

func (b *pollBackendWindows) Close() error {
	b.closed = true
	b.items = nil
	return nil
}

func clampSleep(d time.Duration) time.Duration {
	if d < 0 {
		return time.Hour
	}
	return d
}

// durationToTimeval returns nil (select's "block forever") for a negative
// duration, matching this package's Wait contract.
func durationToTimeval(d time.Duration) *winTimeval {
	if d < 0 {
		return nil
	}
	return &winTimeval{
		Sec:  int32(d / time.Second),
		Usec: int32((d % time.Second) / time.Microsecond),
	}
}
