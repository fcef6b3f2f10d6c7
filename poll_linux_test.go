//go:build linux

package reactor

import (
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/stretchr/testify/require"
)

func TestEpollBackend_AddWaitRemove(t *testing.T) {
	b, err := newPollBackend()
	require.NoError(t, err)
	defer b.Close()

	r, w := newTestPipe(t)

	var gotFD int
	var gotEvents Events
	require.NoError(t, b.Add(r, EventRead, func(fd int, events Events) {
		gotFD, gotEvents = fd, events
	}))

	require.ErrorIs(t, b.Add(r, EventRead, nil), ErrFDAlreadyRegistered)

	_, err = unix.Write(w, []byte("x"))
	require.NoError(t, err)

	require.NoError(t, b.Wait(time.Second))
	require.Equal(t, r, gotFD)
	require.NotZero(t, gotEvents&EventRead)

	require.NoError(t, b.Remove(r))
	require.ErrorIs(t, b.Remove(r), ErrFDNotRegistered)
}

func TestEpollBackend_WaitTimesOutWhenIdle(t *testing.T) {
	b, err := newPollBackend()
	require.NoError(t, err)
	defer b.Close()

	r, _ := newTestPipe(t)
	require.NoError(t, b.Add(r, EventRead, func(int, Events) {
		t.Fatal("callback should not fire: nothing was written")
	}))

	start := time.Now()
	require.NoError(t, b.Wait(20*time.Millisecond))
	require.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
}

func TestEpollBackend_ModifyDowngradesStaleDescriptor(t *testing.T) {
	b, err := newPollBackend()
	require.NoError(t, err)
	defer b.Close()

	r, _ := newTestPipe(t)
	require.NoError(t, b.Add(r, EventRead, func(int, Events) {}))

	// Close the descriptor behind the backend's back: epoll already
	// auto-unregistered it, but the backend's bookkeeping still thinks
	// it's live, so the next Modify must hit EPOLL_CTL_MOD on a
	// descriptor epoll no longer knows about.
	require.NoError(t, unix.Close(r))

	require.ErrorIs(t, b.Modify(r, EventRead|EventWrite), ErrFDNotRegistered)
	// The stale entry was forgotten: a further Remove sees it as
	// already gone rather than still registered.
	require.ErrorIs(t, b.Remove(r), ErrFDNotRegistered)
}

func TestEpollBackend_AbandonSkipsCtlDel(t *testing.T) {
	b, err := newPollBackend()
	require.NoError(t, err)
	defer b.Close()

	r, _ := newTestPipe(t)
	require.NoError(t, b.Add(r, EventRead, func(int, Events) {}))
	require.NoError(t, b.Abandon(r))
	require.ErrorIs(t, b.Remove(r), ErrFDNotRegistered)
}
