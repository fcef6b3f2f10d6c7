package reactor

// wakeChannel lets a thread other than the loop's own thread interrupt a
// blocked Wait call. Writes coalesce: multiple writes before the loop
// drains the channel are observed as a single wake-up. The write side is
// safe to call concurrently with the loop's own thread; the rest of the
// channel is not.
type wakeChannel struct {
	readFD  int
	writeFD int
}

// newWakeChannel allocates the platform wake mechanism: eventfd on Linux,
// a non-blocking self-pipe on other POSIX platforms, a loopback TCP pair
// on Windows (where select() only accepts socket handles).
func newWakeChannel() (*wakeChannel, error) {
	r, w, err := createWakePair()
	if err != nil {
		return nil, err
	}
	return &wakeChannel{readFD: r, writeFD: w}, nil
}

// write signals the loop. Safe for concurrent use from any thread.
func (w *wakeChannel) write() error {
	return writeWake(w.writeFD)
}

// drain consumes any pending wake-ups, leaving the channel quiescent.
// Must only be called from the loop's own thread.
func (w *wakeChannel) drain() {
	drainWake(w.readFD)
}

func (w *wakeChannel) close() error {
	return closeWakePair(w.readFD, w.writeFD)
}
