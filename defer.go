package reactor

import "github.com/nightingaled/reactor/internal/containers"

// DeferCallback is invoked with no argument when a defer or idle event
// runs.
type DeferCallback func()

type deferQueue struct {
	list containers.DList[DeferEvent]
}

func (q *deferQueue) schedule(e *DeferEvent) {
	if e.hook.Linked() {
		return
	}
	q.list.PushBack(&e.hook)
}

// drain moves every currently-queued event out before invoking callbacks,
// so that a callback rescheduling itself lands on the next drain rather
// than being observed in this one.
func (q *deferQueue) drain() {
	q.list.ClearAndDispose(func(e *DeferEvent) {
		e.fire()
	})
}

// drainOne runs at most one queued event, used for the idle list: idle
// work is only allowed to make one step of progress per iteration, since
// the loop must re-check for higher-priority work before trying another.
func (q *deferQueue) drainOne() bool {
	front := q.list.Front()
	if front == nil {
		return false
	}
	e := front.Owner()
	e.hook.Unlink()
	e.fire()
	return true
}

// DeferEvent is a subscription handle for "run on next iteration" (via
// Schedule) or "run only when idle" (via ScheduleIdle) work. Scheduling is
// idempotent: calling it while already pending is a no-op.
type DeferEvent struct {
	loop *Loop
	hook containers.DListHook[DeferEvent]
	cb   DeferCallback
	idle bool
}

// NewDeferEvent creates an unscheduled defer/idle event bound to loop.
func NewDeferEvent(loop *Loop, cb DeferCallback) *DeferEvent {
	e := &DeferEvent{loop: loop, cb: cb}
	e.hook.Init(e)
	return e
}

// IsPending reports whether the event is currently queued.
func (e *DeferEvent) IsPending() bool { return e.hook.Linked() }

// Schedule queues the callback to run at the top of the next iteration,
// before timers or socket dispatch. Idempotent while already pending.
func (e *DeferEvent) Schedule() {
	if e.hook.Linked() && !e.idle {
		return
	}
	e.hook.Unlink()
	e.idle = false
	e.loop.deferList.schedule(e)
}

// ScheduleIdle queues the callback to run only once no defer, ready
// socket, or expired timer remains in the current iteration.
func (e *DeferEvent) ScheduleIdle() {
	if e.hook.Linked() && e.idle {
		return
	}
	e.hook.Unlink()
	e.idle = true
	e.loop.idleList.schedule(e)
}

// Cancel unlinks the event if pending; a no-op otherwise.
func (e *DeferEvent) Cancel() {
	e.hook.Unlink()
}

func (e *DeferEvent) fire() {
	if e.cb == nil {
		return
	}
	if e.loop != nil {
		e.loop.invokeCallback("defer", e.cb)
		return
	}
	e.cb()
}
