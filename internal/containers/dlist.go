// Package containers implements the intrusive, arena-free data structures
// the reactor's dispatch core is built on: a doubly-linked list, a
// singly-linked list (with a stable merge sort), a chained hash set, and a
// red-black tree. The lists and the tree do not allocate on insert or
// erase — the link fields live inside the value being stored, and
// ownership of that value stays with the caller. HashSet is the exception:
// InsertCommit allocates one entry per inserted key.
package containers

// DListHook is the link embedded inside a value stored in a DList. It is
// zero-value ready; a hook not yet pushed into any list reports Linked()
// false.
type DListHook[T any] struct {
	prev, next *DListHook[T]
	list       *DList[T]
	owner      *T
}

// Init binds the hook to the value that contains it. Call this once,
// typically in the owner's constructor, before the hook is ever linked.
func (h *DListHook[T]) Init(owner *T) {
	h.owner = owner
}

// Owner returns the value this hook is embedded in.
func (h *DListHook[T]) Owner() *T {
	return h.owner
}

// Linked reports whether the hook is currently inside a list.
func (h *DListHook[T]) Linked() bool {
	return h.list != nil
}

// Unlink removes the hook from whatever list it is currently linked into.
// A no-op on an already-unlinked hook, matching the source's "auto-unlink"
// hook mode: callers may unconditionally Unlink in a destructor.
func (h *DListHook[T]) Unlink() {
	if h.list == nil {
		return
	}
	h.prev.next = h.next
	h.next.prev = h.prev
	h.list.size--
	h.prev, h.next, h.list = nil, nil, nil
}

// DList is a circular doubly-linked list with a sentinel node, giving O(1)
// PushFront, PushBack and Unlink with a cached size.
type DList[T any] struct {
	root DListHook[T]
	size int
}

func (l *DList[T]) lazyInit() {
	if l.root.next == nil {
		l.root.next = &l.root
		l.root.prev = &l.root
	}
}

// Len returns the number of linked nodes.
func (l *DList[T]) Len() int {
	return l.size
}

// Empty reports whether the list has no linked nodes.
func (l *DList[T]) Empty() bool {
	l.lazyInit()
	return l.root.next == &l.root
}

// PushBack links h at the tail of the list. If h is already linked
// elsewhere it is unlinked first.
func (l *DList[T]) PushBack(h *DListHook[T]) {
	l.lazyInit()
	if h.list != nil {
		h.Unlink()
	}
	last := l.root.prev
	h.prev = last
	h.next = &l.root
	last.next = h
	l.root.prev = h
	h.list = l
	l.size++
}

// PushFront links h at the head of the list.
func (l *DList[T]) PushFront(h *DListHook[T]) {
	l.lazyInit()
	if h.list != nil {
		h.Unlink()
	}
	first := l.root.next
	h.next = first
	h.prev = &l.root
	first.prev = h
	l.root.next = h
	h.list = l
	l.size++
}

// Front returns the first linked hook, or nil if the list is empty.
func (l *DList[T]) Front() *DListHook[T] {
	l.lazyInit()
	if l.Empty() {
		return nil
	}
	return l.root.next
}

// Back returns the last linked hook, or nil if the list is empty.
func (l *DList[T]) Back() *DListHook[T] {
	l.lazyInit()
	if l.Empty() {
		return nil
	}
	return l.root.prev
}

// PopFront unlinks and returns the first hook, or nil if empty.
func (l *DList[T]) PopFront() *DListHook[T] {
	h := l.Front()
	if h != nil {
		h.Unlink()
	}
	return h
}

// Splice moves all nodes from other onto the tail of l. other is left
// empty.
func (l *DList[T]) Splice(other *DList[T]) {
	l.lazyInit()
	other.lazyInit()
	if other.Empty() {
		return
	}
	first := other.root.next
	last := other.root.prev
	tail := l.root.prev

	for n := first; n != &other.root; n = n.next {
		n.list = l
	}

	tail.next = first
	first.prev = tail
	last.next = &l.root
	l.root.prev = last

	l.size += other.size
	other.root.next = &other.root
	other.root.prev = &other.root
	other.size = 0
}

// Each iterates from front to back, stopping early if fn returns false.
// fn must not unlink nodes other than the one it is currently given; use
// ClearAndDispose for disposal loops that mutate the list as they go.
func (l *DList[T]) Each(fn func(*T) bool) {
	l.lazyInit()
	for n := l.root.next; n != &l.root; n = n.next {
		if !fn(n.owner) {
			return
		}
	}
}

// ClearAndDispose detaches the entire list and invokes dispose once per
// node, re-reading the (now-empty) detached list's head after every call.
// This tolerates a disposer that links the node — or any other node —
// back into l, or into an unrelated list: since each iteration re-pops the
// head of the detached set rather than following a pointer captured in
// advance, re-insertions during disposal never corrupt the traversal.
func (l *DList[T]) ClearAndDispose(dispose func(*T)) {
	var tmp DList[T]
	tmp.lazyInit()
	l.lazyInit()
	if l.Empty() {
		return
	}
	first := l.root.next
	last := l.root.prev
	tmp.root.next = first
	tmp.root.prev = last
	first.prev = &tmp.root
	last.next = &tmp.root
	tmp.size = l.size

	l.root.next = &l.root
	l.root.prev = &l.root
	l.size = 0

	for n := first; n != &tmp.root; n = n.next {
		n.list = &tmp
	}

	for {
		h := tmp.root.next
		if h == &tmp.root {
			break
		}
		h.Unlink()
		dispose(h.owner)
	}
}
