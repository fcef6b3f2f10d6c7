package reactor

import "time"

// clockCache memoizes a monotonic timestamp for the duration of one loop
// iteration, so that every timer and socket-event check made while
// dispatching a batch of ready descriptors observes the same "now". The
// loop flushes it at the start of each iteration and again right after the
// poll backend's Wait returns.
type clockCache struct {
	cached time.Time
	valid  bool
}

// flush invalidates the cached value, forcing the next call to now() to
// read the system clock again.
func (c *clockCache) flush() {
	c.valid = false
}

// now returns the cached timestamp, populating it from time.Now on first
// use since the last flush.
func (c *clockCache) now() time.Time {
	if !c.valid {
		c.cached = time.Now()
		c.valid = true
	}
	return c.cached
}
