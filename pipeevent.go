package reactor

// PipeCallback receives the subset of a pipe's scheduled events that are
// currently ready.
type PipeCallback func(events Events)

// PipeEvent is a thin façade over SocketEvent for descriptors that are
// pipes, FIFOs, or other non-socket readiness-reporting handles (inotify,
// signalfd, eventfd, an io_uring completion fd). The poll backend treats
// them identically to sockets; this type exists purely so callers do not
// have to reason about socket-specific naming for a non-socket fd.
type PipeEvent struct {
	inner *SocketEvent
}

// NewPipeEvent creates a subscription bound to loop, not yet associated
// with any descriptor.
func NewPipeEvent(loop *Loop, cb PipeCallback) *PipeEvent {
	return &PipeEvent{inner: NewSocketEvent(loop, SocketCallback(cb))}
}

func (p *PipeEvent) Open(fd int) { p.inner.Open(fd) }

func (p *PipeEvent) IsOpen() bool { return p.inner.IsOpen() }

func (p *PipeEvent) Schedule(events Events) error { return p.inner.Schedule(events) }

func (p *PipeEvent) ScheduleRead() error { return p.inner.ScheduleRead() }

func (p *PipeEvent) ScheduleWrite() error { return p.inner.ScheduleWrite() }

func (p *PipeEvent) CancelRead() error { return p.inner.CancelRead() }

func (p *PipeEvent) CancelWrite() error { return p.inner.CancelWrite() }

func (p *PipeEvent) Cancel() error { return p.inner.Cancel() }

func (p *PipeEvent) Close() error { return p.inner.Close() }

func (p *PipeEvent) Abandon() { p.inner.Abandon() }
