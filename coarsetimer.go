package reactor

import (
	"time"

	"github.com/nightingaled/reactor/internal/containers"
)

// TimerCallback is invoked when a timer fires. It takes no argument: the
// timer object itself is reachable from the callback's own closure if
// needed.
type TimerCallback func()

// coarseTimerWheel buckets timers of ~1s-to-minutes durations into a fixed
// ring, trading precision for O(1) insert and cancel. Long- or high-
// precision deadlines belong in the fine timer list instead.
type coarseTimerWheel struct {
	resolution time.Duration
	span       time.Duration
	nBuckets   int
	buckets    []containers.DList[CoarseTimerEvent]
	ready      containers.DList[CoarseTimerEvent]
	lastTime   time.Time
	empty      bool
}

func newCoarseTimerWheel(resolution, span time.Duration) *coarseTimerWheel {
	n := int(span / resolution)
	if n < 1 {
		n = 1
	}
	return &coarseTimerWheel{
		resolution: resolution,
		span:       span,
		nBuckets:   n,
		buckets:    make([]containers.DList[CoarseTimerEvent], n),
		empty:      true,
	}
}

func (w *coarseTimerWheel) bucketIndexAt(t time.Time) int {
	idx := int(t.UnixNano()/int64(w.resolution)) % w.nBuckets
	if idx < 0 {
		idx += w.nBuckets
	}
	return idx
}

func (w *coarseTimerWheel) bucketStart(reference time.Time) time.Time {
	ticks := reference.UnixNano() / int64(w.resolution)
	return time.Unix(0, ticks*int64(w.resolution))
}

// insert places t into the ready list if already due, otherwise into the
// bucket matching its due time.
func (w *coarseTimerWheel) insert(t *CoarseTimerEvent, now time.Time) {
	w.empty = false
	if !t.due.After(now) {
		w.ready.PushBack(&t.hook)
		return
	}
	idx := w.bucketIndexAt(t.due)
	w.buckets[idx].PushBack(&t.hook)
}

// run drains due timers and returns the wait until the next plausible
// deadline, or a negative duration if nothing is scheduled.
func (w *coarseTimerWheel) run(now time.Time) time.Duration {
	if w.empty {
		return -1
	}

	// Step 1: the ready list runs unconditionally.
	w.ready.ClearAndDispose(func(t *CoarseTimerEvent) {
		t.due = time.Time{}
		t.fire()
	})

	// The very first call has no prior scan position to resume from, so it
	// must assume nothing about where timers landed relative to "now" and
	// scan every bucket, rather than seeding lastTime from now and
	// potentially skipping buckets populated before this call.
	firstRun := w.lastTime.IsZero()
	fullScan := firstRun || now.Before(w.lastTime) || !now.Before(w.lastTime.Add(w.span-w.resolution))

	start := w.bucketIndexAt(w.lastTime)
	end := start
	if !fullScan {
		end = w.bucketIndexAt(now)
		if start == end {
			// Still in the same bucket as the last run: leave it alone
			// and wait for its end to pass, so that every timer landing
			// in it fires together as a single future batch rather than
			// dribbling out one run() call at a time.
			wait := w.nextWait(now)
			w.empty = wait < 0
			return wait
		}
	}

	w.lastTime = w.bucketStart(now)

	// Runs buckets [start, end) circularly; when fullScan forced end back
	// to start, this covers every bucket exactly once.
	for i := start; ; {
		w.drainBucket(i, now)
		i = (i + 1) % w.nBuckets
		if i == end {
			break
		}
	}

	wait := w.nextWait(now)
	w.empty = wait < 0
	return wait
}

// drainBucket moves bucket i's contents to a temporary list, then for each
// node either fires it (due <= now) or reinserts it into the same bucket.
// Moving to a temporary first tolerates a callback cancelling or
// rescheduling other timers in the same bucket mid-drain.
func (w *coarseTimerWheel) drainBucket(i int, now time.Time) {
	var tmp containers.DList[CoarseTimerEvent]
	tmp.Splice(&w.buckets[i])

	tmp.ClearAndDispose(func(t *CoarseTimerEvent) {
		if !t.due.After(now) {
			t.due = time.Time{}
			t.fire()
			return
		}
		w.buckets[i].PushBack(&t.hook)
	})
}

// nextWait reports how long until the wheel's nearest populated bucket
// edge, or -1 if the wheel holds nothing.
func (w *coarseTimerWheel) nextWait(now time.Time) time.Duration {
	if !w.ready.Empty() {
		return 0
	}
	cur := w.bucketIndexAt(now)
	end := w.bucketStart(now).Add(w.resolution)
	for k := 0; k < w.nBuckets; k++ {
		if !w.buckets[(cur+k)%w.nBuckets].Empty() {
			return end.Add(time.Duration(k) * w.resolution).Sub(now)
		}
	}
	return -1
}

// CoarseTimerEvent is a subscription handle for a ~1s-resolution timer,
// suitable for short-lived deadlines (network I/O timeouts) that are
// usually cancelled before firing.
type CoarseTimerEvent struct {
	loop *Loop
	hook containers.DListHook[CoarseTimerEvent]
	due  time.Time
	cb   TimerCallback
}

// NewCoarseTimerEvent creates an unscheduled coarse timer bound to loop.
func NewCoarseTimerEvent(loop *Loop, cb TimerCallback) *CoarseTimerEvent {
	t := &CoarseTimerEvent{loop: loop, cb: cb}
	t.hook.Init(t)
	return t
}

// IsPending reports whether the timer is currently scheduled.
func (t *CoarseTimerEvent) IsPending() bool { return t.hook.Linked() }

// Schedule cancels any existing schedule and fires d from now.
func (t *CoarseTimerEvent) Schedule(d time.Duration) {
	t.Cancel()
	now := t.loop.SteadyNow()
	t.due = now.Add(d)
	t.loop.coarse.insert(t, now)
}

// Cancel unlinks the timer if pending; a no-op otherwise.
func (t *CoarseTimerEvent) Cancel() {
	t.hook.Unlink()
}

func (t *CoarseTimerEvent) fire() {
	if t.cb == nil {
		return
	}
	if t.loop != nil {
		t.loop.invokeCallback("coarse timer", t.cb)
		return
	}
	t.cb()
}
