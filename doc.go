// Package reactor implements the playback daemon's event loop: a
// single-threaded reactor multiplexing descriptor readiness, deferred
// work, cross-thread wake-ups, two timer resolutions, and POSIX signal
// delivery.
//
// # Architecture
//
// [Loop] is the reactor core. Every other exported type in this package —
// [SocketEvent], [PipeEvent], [CoarseTimerEvent], [FineTimerEvent],
// [DeferEvent], [InjectEvent], [SignalMonitor] — is a subscription handle
// bound to one Loop at construction, holding a non-owning reference back
// to it. None of these types own the resource they monitor (a socket, a
// pipe, a deadline): ownership stays with the caller, and cancelling or
// closing a handle unlinks it from the loop in O(1).
//
// Internally the loop is built on intrusive containers
// (internal/containers): a doubly-linked list for sockets/defer/idle, a
// singly-linked list for hash-set chaining, a hash set for the poll()
// backend's fd index, and a red-black tree for the fine timer list. The
// lists and the tree do not allocate on insert or cancel; the hash set
// allocates one entry per inserted descriptor.
//
// # Platform support
//
// The poll backend is chosen at compile time by build tag:
//   - Linux: epoll
//   - other POSIX (Darwin, BSD): poll()
//   - Windows: an emulation layer over select()
//
// # Thread model
//
// A Loop is bound to the thread that calls [Loop.Run]. Every method is
// safe to call only from that thread except [Loop.InjectBreak],
// [InjectEvent.Schedule], [InjectEvent.Cancel], and the wake channel's
// write side — the reactor's only genuinely thread-safe surface. Every
// other registration (timers, socket events, defer/idle events) must be
// made from the loop's own thread; a registered source is never migrated
// to a different thread after Run starts.
//
// # Non-goals
//
// No multi-reactor load balancing, no migrating sources between threads,
// no fair scheduling across priorities, no sub-millisecond real-time
// guarantees, and no general-purpose task framework: the reactor exposes
// callbacks, not futures or promises.
package reactor
