package reactor

import "errors"

// Sentinel errors returned by Loop methods. Callers should match against
// these with errors.Is rather than comparing strings.
var (
	// ErrLoopAlreadyRunning is returned by Run when the loop is already
	// inside a call to Run, whether on another goroutine or reentrantly
	// from one of its own callbacks.
	ErrLoopAlreadyRunning = errors.New("reactor: loop already running")

	// ErrReentrantRun names a recursive call to Run from within a callback
	// dispatched by the same Loop. Run does not return it: such a call is
	// reported as ErrLoopAlreadyRunning.
	ErrReentrantRun = errors.New("reactor: reentrant call to Run")

	// ErrLoopTerminated is returned by Run once the loop has already
	// returned from a previous Run and cannot be restarted.
	ErrLoopTerminated = errors.New("reactor: loop already terminated")

	// ErrFDOutOfRange is returned by the Windows poll backend's Add when
	// its fixed-capacity select() set is already full.
	ErrFDOutOfRange = errors.New("reactor: file descriptor out of range")

	// ErrFDAlreadyRegistered is returned by a poll backend's Add when the
	// descriptor is already registered with it.
	ErrFDAlreadyRegistered = errors.New("reactor: file descriptor already registered")

	// ErrFDNotRegistered is returned when an operation references a
	// descriptor the poll backend does not know about.
	ErrFDNotRegistered = errors.New("reactor: file descriptor not registered")

	// ErrInvariantViolation marks a bug: a precondition the caller is
	// responsible for upholding did not hold. SocketEvent.Open panics with
	// it when the handle is already open. It is never expected in a
	// correct program.
	ErrInvariantViolation = errors.New("reactor: invariant violation")

	// ErrBackendClosed is returned by a poll backend's Add and Wait (and
	// the epoll backend's Modify) once Close has been called.
	ErrBackendClosed = errors.New("reactor: poll backend closed")
)
