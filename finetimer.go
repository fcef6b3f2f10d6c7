package reactor

import (
	"time"

	"github.com/nightingaled/reactor/internal/containers"
)

// fineTimerList is an ordered set of absolute-deadline timers with an
// unbounded horizon, for deadlines too long or too precise for the coarse
// wheel's ~1s granularity.
type fineTimerList struct {
	tree *containers.RBTree[FineTimerEvent]
}

func newFineTimerList() *fineTimerList {
	tree := &containers.RBTree[FineTimerEvent]{}
	tree.Less = func(a, b *FineTimerEvent) bool { return a.due.Before(b.due) }
	return &fineTimerList{tree: tree}
}

func (l *fineTimerList) insert(t *FineTimerEvent) {
	l.tree.Insert(&t.hook)
}

// run pops and fires every timer whose due time has passed, returning the
// wait until the next deadline, or a negative duration if the list is
// empty.
func (l *fineTimerList) run(now time.Time) time.Duration {
	for {
		front := l.tree.Front()
		if front == nil {
			return -1
		}
		t := front.Owner()
		if t.due.After(now) {
			return t.due.Sub(now)
		}
		l.tree.Delete(front)
		t.due = time.Time{}
		t.fire()
	}
}

// FineTimerEvent is a subscription handle for a precise, long-horizon
// deadline, ordered by absolute due time against every other fine timer.
type FineTimerEvent struct {
	loop *Loop
	hook containers.RBHook[FineTimerEvent]
	due  time.Time
	cb   TimerCallback
}

// NewFineTimerEvent creates an unscheduled fine timer bound to loop.
func NewFineTimerEvent(loop *Loop, cb TimerCallback) *FineTimerEvent {
	t := &FineTimerEvent{loop: loop, cb: cb}
	t.hook.Init(t)
	return t
}

// IsPending reports whether the timer is currently scheduled.
func (t *FineTimerEvent) IsPending() bool { return t.hook.Linked() }

// Schedule cancels any existing schedule and fires d from now.
func (t *FineTimerEvent) Schedule(d time.Duration) {
	t.Cancel()
	t.due = t.loop.SteadyNow().Add(d)
	t.loop.fine.insert(t)
}

// ScheduleEarlier schedules the timer for d from now only if it is not
// already pending with an earlier due time.
func (t *FineTimerEvent) ScheduleEarlier(d time.Duration) {
	candidate := t.loop.SteadyNow().Add(d)
	if t.IsPending() && !candidate.Before(t.due) {
		return
	}
	t.Cancel()
	t.due = candidate
	t.loop.fine.insert(t)
}

// Cancel unlinks the timer if pending; a no-op otherwise.
func (t *FineTimerEvent) Cancel() {
	if t.hook.Linked() {
		t.loop.fine.tree.Delete(&t.hook)
	}
}

func (t *FineTimerEvent) fire() {
	if t.cb == nil {
		return
	}
	if t.loop != nil {
		t.loop.invokeCallback("fine timer", t.cb)
		return
	}
	t.cb()
}
