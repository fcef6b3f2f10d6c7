package reactor

import "time"

// loopOptions holds the resolved configuration for a Loop, built up by
// applying the LoopOption values passed to New.
type loopOptions struct {
	logger           Logger
	coarseResolution time.Duration
	coarseSpan       time.Duration
	assertInvariants bool
}

// LoopOption configures a Loop at construction.
type LoopOption interface {
	applyLoop(*loopOptions)
}

type loopOptionFunc func(*loopOptions)

func (f loopOptionFunc) applyLoop(o *loopOptions) { f(o) }

// WithLogger overrides the Loop's logger. The default is a stumpy-backed
// logiface logger writing to os.Stderr at info level.
func WithLogger(logger Logger) LoopOption {
	return loopOptionFunc(func(o *loopOptions) {
		if logger != nil {
			o.logger = logger
		}
	})
}

// WithCoarseTimerResolution overrides the coarse timer wheel's bucket
// width and total span. It exists for tests that want a wheel short enough
// to observe wraparound without waiting minutes; production callers should
// leave this at the default (1s resolution, 2 minute span).
func WithCoarseTimerResolution(resolution, span time.Duration) LoopOption {
	return loopOptionFunc(func(o *loopOptions) {
		if resolution > 0 && span > 0 {
			o.coarseResolution = resolution
			o.coarseSpan = span
		}
	})
}

// WithInvariantAssertions records whether extra consistency checks are
// wanted. The setting is stored in the loop's options; no code in this
// package reads it, so it enables no checks.
func WithInvariantAssertions(enabled bool) LoopOption {
	return loopOptionFunc(func(o *loopOptions) {
		o.assertInvariants = enabled
	})
}

func resolveLoopOptions(opts []LoopOption) *loopOptions {
	cfg := &loopOptions{
		coarseResolution: time.Second,
		coarseSpan:       2 * time.Minute,
	}
	for _, opt := range opts {
		if opt != nil {
			opt.applyLoop(cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = defaultLogger()
	}
	return cfg
}
