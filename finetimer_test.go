package reactor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFineTimerList_FiresInDueOrder(t *testing.T) {
	l := newFineTimerList()
	base := time.Unix(5000, 0)

	var fired []int
	mk := func(id int, due time.Time) *FineTimerEvent {
		e := &FineTimerEvent{due: due, cb: func() { fired = append(fired, id) }}
		e.hook.Init(e)
		return e
	}

	// Inserted out of order; must fire in due-time order.
	c := mk(3, base.Add(30*time.Second))
	a := mk(1, base.Add(10*time.Second))
	b := mk(2, base.Add(20*time.Second))
	l.insert(c)
	l.insert(a)
	l.insert(b)

	wait := l.run(base.Add(25 * time.Second))
	require.Equal(t, []int{1, 2}, fired)
	require.Equal(t, 5*time.Second, wait)
}

func TestFineTimerList_TiesFireFIFO(t *testing.T) {
	l := newFineTimerList()
	due := time.Unix(6000, 0)

	var fired []int
	mk := func(id int) *FineTimerEvent {
		e := &FineTimerEvent{due: due, cb: func() { fired = append(fired, id) }}
		e.hook.Init(e)
		return e
	}
	l.insert(mk(1))
	l.insert(mk(2))
	l.insert(mk(3))

	l.run(due)
	require.Equal(t, []int{1, 2, 3}, fired)
}

func TestFineTimerList_EmptyReturnsNegative(t *testing.T) {
	l := newFineTimerList()
	require.Equal(t, time.Duration(-1), l.run(time.Now()))
}

func TestFineTimerEvent_ScheduleEarlier(t *testing.T) {
	l := &Loop{opts: resolveLoopOptions(nil)}
	l.fine = newFineTimerList()
	now := time.Unix(7000, 0)
	l.clock.cached, l.clock.valid = now, true

	e := NewFineTimerEvent(l, func() {})
	e.Schedule(10 * time.Second)
	firstDue := e.due

	// A later candidate must not push the due time back.
	e.ScheduleEarlier(20 * time.Second)
	require.Equal(t, firstDue, e.due)

	// An earlier candidate replaces it.
	e.ScheduleEarlier(2 * time.Second)
	require.Equal(t, now.Add(2*time.Second), e.due)
}

func TestFineTimerEvent_Cancel(t *testing.T) {
	l := &Loop{opts: resolveLoopOptions(nil)}
	l.fine = newFineTimerList()
	l.clock.cached, l.clock.valid = time.Unix(8000, 0), true

	e := NewFineTimerEvent(l, func() {})
	e.Schedule(time.Second)
	require.True(t, e.IsPending())
	e.Cancel()
	require.False(t, e.IsPending())
}
