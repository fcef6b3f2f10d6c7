package reactor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeferQueue_DrainRunsAllQueued(t *testing.T) {
	l := &Loop{}
	var ran []int
	mk := func(id int) *DeferEvent {
		e := NewDeferEvent(l, func() { ran = append(ran, id) })
		return e
	}
	a, b := mk(1), mk(2)
	a.Schedule()
	b.Schedule()

	l.deferList.drain()
	require.Equal(t, []int{1, 2}, ran)
	require.False(t, a.IsPending())
	require.False(t, b.IsPending())
}

func TestDeferEvent_ScheduleIsIdempotent(t *testing.T) {
	l := &Loop{}
	calls := 0
	e := NewDeferEvent(l, func() { calls++ })
	e.Schedule()
	e.Schedule()
	require.Equal(t, 1, l.deferList.list.Len())

	l.deferList.drain()
	require.Equal(t, 1, calls)
}

func TestDeferEvent_RescheduleDuringDrainLandsNextPass(t *testing.T) {
	l := &Loop{}
	var ran []int
	var e *DeferEvent
	e = NewDeferEvent(l, func() {
		ran = append(ran, 1)
		e.Schedule()
	})
	e.Schedule()

	l.deferList.drain()
	require.Equal(t, []int{1}, ran)
	require.True(t, e.IsPending())

	l.deferList.drain()
	require.Equal(t, []int{1, 1}, ran)
}

func TestDeferQueue_DrainOneRunsExactlyOne(t *testing.T) {
	l := &Loop{}
	var ran []int
	mk := func(id int) *DeferEvent {
		return NewDeferEvent(l, func() { ran = append(ran, id) })
	}
	a, b := mk(1), mk(2)
	a.ScheduleIdle()
	b.ScheduleIdle()

	again := l.idleList.drainOne()
	require.True(t, again)
	require.Equal(t, []int{1}, ran)
	require.True(t, b.IsPending())

	again = l.idleList.drainOne()
	require.True(t, again)
	require.Equal(t, []int{1, 2}, ran)

	again = l.idleList.drainOne()
	require.False(t, again)
}

func TestDeferEvent_ScheduleMovesOffIdleList(t *testing.T) {
	l := &Loop{}
	e := NewDeferEvent(l, func() {})
	e.ScheduleIdle()
	require.Equal(t, 1, l.idleList.list.Len())

	e.Schedule()
	require.Equal(t, 0, l.idleList.list.Len())
	require.Equal(t, 1, l.deferList.list.Len())
}

func TestDeferEvent_Cancel(t *testing.T) {
	l := &Loop{}
	e := NewDeferEvent(l, func() {})
	e.Schedule()
	require.True(t, e.IsPending())
	e.Cancel()
	require.False(t, e.IsPending())
}
