package containers

// rbColor is a red-black tree node's colour.
type rbColor bool

const (
	red   rbColor = true
	black rbColor = false
)

// RBHook is the link embedded inside a value stored in an RBTree.
type RBHook[T any] struct {
	left, right, parent *RBHook[T]
	color                rbColor
	owner                *T
	tree                 *RBTree[T]
}

// Init binds the hook to its owning value.
func (h *RBHook[T]) Init(owner *T) {
	h.owner = owner
}

// Owner returns the value this hook is embedded in.
func (h *RBHook[T]) Owner() *T {
	return h.owner
}

// Linked reports whether the hook is currently inside a tree.
func (h *RBHook[T]) Linked() bool {
	return h.tree != nil
}

// RBTree is an intrusive red-black tree ordered by a caller-supplied Less.
// Equal keys are not reordered relative to each other on insert: Less
// returning false for both a<b and b<a sends a newly inserted equal key to
// the right of any existing equal keys, which combined with in-order
// traversal yields FIFO order among ties.
type RBTree[T any] struct {
	root *RBHook[T]
	nilH RBHook[T]
	size int
	Less func(a, b *T) bool
}

func (t *RBTree[T]) lazyInit() {
	if t.root == nil {
		t.nilH.color = black
		t.nilH.left = &t.nilH
		t.nilH.right = &t.nilH
		t.nilH.parent = &t.nilH
		t.root = &t.nilH
	}
}

// Len returns the number of nodes in the tree.
func (t *RBTree[T]) Len() int {
	return t.size
}

// Empty reports whether the tree has no nodes.
func (t *RBTree[T]) Empty() bool {
	return t.size == 0
}

func (t *RBTree[T]) rotateLeft(x *RBHook[T]) {
	y := x.right
	x.right = y.left
	if y.left != &t.nilH {
		y.left.parent = x
	}
	y.parent = x.parent
	if x.parent == &t.nilH {
		t.root = y
	} else if x == x.parent.left {
		x.parent.left = y
	} else {
		x.parent.right = y
	}
	y.left = x
	x.parent = y
}

func (t *RBTree[T]) rotateRight(x *RBHook[T]) {
	y := x.left
	x.left = y.right
	if y.right != &t.nilH {
		y.right.parent = x
	}
	y.parent = x.parent
	if x.parent == &t.nilH {
		t.root = y
	} else if x == x.parent.right {
		x.parent.right = y
	} else {
		x.parent.left = y
	}
	y.right = x
	x.parent = y
}

// Insert links h (already Init'd with its owner) into the tree.
func (t *RBTree[T]) Insert(h *RBHook[T]) {
	t.lazyInit()

	var parent *RBHook[T] = &t.nilH
	cur := t.root
	for cur != &t.nilH {
		parent = cur
		if t.Less(h.owner, cur.owner) {
			cur = cur.left
		} else {
			// equal or greater: ties go right, so a run of equal
			// keys reads out in insertion order under in-order
			// traversal.
			cur = cur.right
		}
	}

	h.left, h.right = &t.nilH, &t.nilH
	h.parent = parent
	h.color = red
	h.tree = t

	if parent == &t.nilH {
		t.root = h
	} else if t.Less(h.owner, parent.owner) {
		parent.left = h
	} else {
		parent.right = h
	}

	t.size++
	t.insertFixup(h)
}

func (t *RBTree[T]) insertFixup(z *RBHook[T]) {
	for z.parent.color == red {
		if z.parent == z.parent.parent.left {
			y := z.parent.parent.right
			if y.color == red {
				z.parent.color = black
				y.color = black
				z.parent.parent.color = red
				z = z.parent.parent
			} else {
				if z == z.parent.right {
					z = z.parent
					t.rotateLeft(z)
				}
				z.parent.color = black
				z.parent.parent.color = red
				t.rotateRight(z.parent.parent)
			}
		} else {
			y := z.parent.parent.left
			if y.color == red {
				z.parent.color = black
				y.color = black
				z.parent.parent.color = red
				z = z.parent.parent
			} else {
				if z == z.parent.left {
					z = z.parent
					t.rotateRight(z)
				}
				z.parent.color = black
				z.parent.parent.color = red
				t.rotateLeft(z.parent.parent)
			}
		}
	}
	t.root.color = black
}

func (t *RBTree[T]) transplant(u, v *RBHook[T]) {
	if u.parent == &t.nilH {
		t.root = v
	} else if u == u.parent.left {
		u.parent.left = v
	} else {
		u.parent.right = v
	}
	v.parent = u.parent
}

func (t *RBTree[T]) minimum(x *RBHook[T]) *RBHook[T] {
	for x.left != &t.nilH {
		x = x.left
	}
	return x
}

// Front returns the leftmost (smallest-keyed) node, or nil if empty.
func (t *RBTree[T]) Front() *RBHook[T] {
	t.lazyInit()
	if t.root == &t.nilH {
		return nil
	}
	return t.minimum(t.root)
}

// Delete unlinks h from the tree. h must currently be linked in t.
func (t *RBTree[T]) Delete(z *RBHook[T]) {
	y := z
	yOriginalColor := y.color
	var x *RBHook[T]

	if z.left == &t.nilH {
		x = z.right
		t.transplant(z, z.right)
	} else if z.right == &t.nilH {
		x = z.left
		t.transplant(z, z.left)
	} else {
		y = t.minimum(z.right)
		yOriginalColor = y.color
		x = y.right
		if y.parent == z {
			x.parent = y
		} else {
			t.transplant(y, y.right)
			y.right = z.right
			y.right.parent = y
		}
		t.transplant(z, y)
		y.left = z.left
		y.left.parent = y
		y.color = z.color
	}

	if yOriginalColor == black {
		t.deleteFixup(x)
	}

	z.left, z.right, z.parent, z.tree = nil, nil, nil, nil
	t.size--
}

func (t *RBTree[T]) deleteFixup(x *RBHook[T]) {
	for x != t.root && x.color == black {
		if x == x.parent.left {
			w := x.parent.right
			if w.color == red {
				w.color = black
				x.parent.color = red
				t.rotateLeft(x.parent)
				w = x.parent.right
			}
			if w.left.color == black && w.right.color == black {
				w.color = red
				x = x.parent
			} else {
				if w.right.color == black {
					w.left.color = black
					w.color = red
					t.rotateRight(w)
					w = x.parent.right
				}
				w.color = x.parent.color
				x.parent.color = black
				w.right.color = black
				t.rotateLeft(x.parent)
				x = t.root
			}
		} else {
			w := x.parent.left
			if w.color == red {
				w.color = black
				x.parent.color = red
				t.rotateRight(x.parent)
				w = x.parent.left
			}
			if w.right.color == black && w.left.color == black {
				w.color = red
				x = x.parent
			} else {
				if w.left.color == black {
					w.right.color = black
					w.color = red
					t.rotateLeft(w)
					w = x.parent.left
				}
				w.color = x.parent.color
				x.parent.color = black
				w.left.color = black
				t.rotateRight(x.parent)
				x = t.root
			}
		}
	}
	x.color = black
}

// BlackHeight returns the black-height of the tree (the number of black
// nodes on any root-to-leaf path, counting the root and not counting the
// nil leaves) and
// whether the red/black invariants currently hold. Exposed for property
// tests (spec P10); not used on the hot path.
func (t *RBTree[T]) BlackHeight() (height int, ok bool) {
	t.lazyInit()
	if t.root == &t.nilH {
		return 0, true
	}
	if t.root.color != black {
		return 0, false
	}
	h, ok := t.checkNode(t.root)
	return h, ok
}

func (t *RBTree[T]) checkNode(n *RBHook[T]) (int, bool) {
	if n == &t.nilH {
		return 0, true
	}
	if n.color == red {
		if n.left.color != black || n.right.color != black {
			return 0, false
		}
	}
	lh, lok := t.checkNode(n.left)
	rh, rok := t.checkNode(n.right)
	if !lok || !rok || lh != rh {
		return 0, false
	}
	add := 0
	if n.color == black {
		add = 1
	}
	return lh + add, true
}
