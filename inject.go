package reactor

import (
	"sync"

	"github.com/nightingaled/reactor/internal/containers"
)

// InjectCallback is invoked with no argument when an inject event drains
// on the loop's own thread.
type InjectCallback func()

// injectQueue is the thread-safe counterpart of deferQueue: schedule and
// cancel take a lock, since they may be called from any thread, but
// draining happens lock-free on the loop's own thread after moving the
// whole list out under the lock.
type injectQueue struct {
	mu          sync.Mutex
	list        containers.DList[InjectEvent]
	quitPending bool
}

func (q *injectQueue) schedule(e *InjectEvent) (wake bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if e.hook.Linked() {
		return false
	}
	q.list.PushBack(&e.hook)
	return true
}

func (q *injectQueue) cancel(e *InjectEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()
	e.hook.Unlink()
}

func (q *injectQueue) requestQuit() (wake bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.quitPending {
		return false
	}
	q.quitPending = true
	return true
}

// drain moves the whole list out under the lock, then invokes callbacks
// without holding it: new injections made concurrently with this drain
// are observed on the next iteration, never raced against this one. Each
// event is unlinked from the moved-out list under the lock, so a
// concurrent Cancel stays safe. It also reports and clears any pending
// injected quit request.
func (q *injectQueue) drain() (quit bool) {
	var local containers.DList[InjectEvent]
	q.mu.Lock()
	local.Splice(&q.list)
	quit = q.quitPending
	q.quitPending = false
	q.mu.Unlock()

	for {
		q.mu.Lock()
		h := local.PopFront()
		q.mu.Unlock()
		if h == nil {
			return quit
		}
		h.Owner().fire()
	}
}

// InjectEvent is a subscription handle safe to Schedule or Cancel from any
// thread, the loop's sole genuinely concurrent surface besides the wake
// channel's write side.
type InjectEvent struct {
	loop *Loop
	hook containers.DListHook[InjectEvent]
	cb   InjectCallback
}

// NewInjectEvent creates an unscheduled inject event bound to loop.
func NewInjectEvent(loop *Loop, cb InjectCallback) *InjectEvent {
	e := &InjectEvent{loop: loop, cb: cb}
	e.hook.Init(e)
	return e
}

// Schedule queues the callback to run on the loop's own thread at the
// start of its next pass through the inject drain, waking a blocked Wait
// if necessary. Safe to call from any thread.
func (e *InjectEvent) Schedule() {
	if e.loop.inject.schedule(e) {
		_ = e.loop.wake.write()
	}
}

// Cancel unlinks the event if pending. Safe to call from any thread.
func (e *InjectEvent) Cancel() {
	e.loop.inject.cancel(e)
}

func (e *InjectEvent) fire() {
	if e.cb == nil {
		return
	}
	if e.loop != nil {
		e.loop.invokeCallback("inject", e.cb)
		return
	}
	e.cb()
}
