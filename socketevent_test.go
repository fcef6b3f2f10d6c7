//go:build unix

package reactor

import (
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/stretchr/testify/require"
)

func newTestPipe(t *testing.T) (r, w int) {
	t.Helper()
	var fds [2]int
	require.NoError(t, unix.Pipe2(fds[:], unix.O_CLOEXEC|unix.O_NONBLOCK))
	t.Cleanup(func() {
		_ = unix.Close(fds[0])
		_ = unix.Close(fds[1])
	})
	return fds[0], fds[1]
}

func newTestLoop(t *testing.T) *Loop {
	t.Helper()
	l, err := New(WithCoarseTimerResolution(5*time.Millisecond, 50*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestSocketEvent_ReadDispatch(t *testing.T) {
	l := newTestLoop(t)
	r, w := newTestPipe(t)

	var got Events
	s := NewSocketEvent(l, func(events Events) {
		got = events
		l.Break()
	})
	s.Open(r)
	require.NoError(t, s.ScheduleRead())

	_, err := unix.Write(w, []byte("x"))
	require.NoError(t, err)

	runWithDeadline(t, l)
	require.NotZero(t, got&EventRead)
}

func TestSocketEvent_CancelPreventsDispatch(t *testing.T) {
	l := newTestLoop(t)
	r, w := newTestPipe(t)

	fired := false
	s := NewSocketEvent(l, func(Events) { fired = true })
	s.Open(r)
	require.NoError(t, s.ScheduleRead())
	require.NoError(t, s.CancelRead())

	_, err := unix.Write(w, []byte("x"))
	require.NoError(t, err)

	done := NewDeferEvent(l, func() { l.Break() })
	done.Schedule()

	runWithDeadline(t, l)
	require.False(t, fired)
}

func TestSocketEvent_CloseClosesFD(t *testing.T) {
	l := newTestLoop(t)
	r, _ := newTestPipe(t)

	s := NewSocketEvent(l, func(Events) {})
	s.Open(r)
	require.NoError(t, s.ScheduleRead())
	require.NoError(t, s.Close())
	require.False(t, s.IsOpen())

	// The fd was closed by Close; any further syscall on it must fail.
	require.Error(t, unix.SetNonblock(r, true))
}

// runWithDeadline runs the loop, failing the test instead of hanging forever
// if nothing ever calls Break.
func runWithDeadline(t *testing.T, l *Loop) {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- l.Run() }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		l.InjectBreak()
		<-done
		t.Fatal("loop did not break within deadline")
	}
}
