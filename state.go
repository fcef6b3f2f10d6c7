package reactor

import "sync/atomic"

// LoopState is the Loop's run/quit state machine.
//
//	StateAwake       -> StateRunning        [Run starts]
//	StateRunning     -> StateSleeping        [entering backend.Wait]
//	StateSleeping    -> StateRunning         [backend.Wait returns]
//	StateRunning     -> StateTerminating     [Break / InjectBreak observed]
//	StateTerminating -> StateSleeping        [Break from an idle callback: that pass still waits]
//	StateTerminating -> StateTerminated      [Run about to return]
//	StateRunning     -> StateTerminated      [Run returns after a Break made before Run]
//
// An InjectBreak made while the loop is blocked in Wait is observed only
// after Wait returns, when the next pass drains the inject queue.
//
// StateTerminated is terminal: a Loop cannot be restarted once Run returns.
type LoopState uint32

const (
	StateAwake LoopState = iota
	StateRunning
	StateSleeping
	StateTerminating
	StateTerminated
)

func (s LoopState) String() string {
	switch s {
	case StateAwake:
		return "awake"
	case StateRunning:
		return "running"
	case StateSleeping:
		return "sleeping"
	case StateTerminating:
		return "terminating"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// loopState is a lock-free state machine. tryTransition is a single CAS
// with no validation beyond the (from, to) pair the caller supplies; store
// sets a state unconditionally, and the loop uses it for the transitions
// it makes from its own goroutine.
type loopState struct {
	v atomic.Uint32
}

func newLoopState() *loopState {
	s := &loopState{}
	s.v.Store(uint32(StateAwake))
	return s
}

func (s *loopState) load() LoopState {
	return LoopState(s.v.Load())
}

func (s *loopState) store(state LoopState) {
	s.v.Store(uint32(state))
}

func (s *loopState) tryTransition(from, to LoopState) bool {
	return s.v.CompareAndSwap(uint32(from), uint32(to))
}

// running reports whether the loop is actively dispatching or blocked in
// the poll backend, i.e. somewhere inside Run.
func (s *loopState) running() bool {
	switch s.load() {
	case StateRunning, StateSleeping, StateTerminating:
		return true
	default:
		return false
	}
}
