package containers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type dlistItem struct {
	hook DListHook[dlistItem]
	id   int
}

func newDListItem(id int) *dlistItem {
	it := &dlistItem{id: id}
	it.hook.Init(it)
	return it
}

func TestDList_PushBackOrder(t *testing.T) {
	var l DList[dlistItem]
	a, b, c := newDListItem(1), newDListItem(2), newDListItem(3)
	l.PushBack(&a.hook)
	l.PushBack(&b.hook)
	l.PushBack(&c.hook)

	require.Equal(t, 3, l.Len())

	var got []int
	l.Each(func(v *dlistItem) bool {
		got = append(got, v.id)
		return true
	})
	require.Equal(t, []int{1, 2, 3}, got)
}

func TestDList_UnlinkUpdatesSize(t *testing.T) {
	var l DList[dlistItem]
	a, b := newDListItem(1), newDListItem(2)
	l.PushBack(&a.hook)
	l.PushBack(&b.hook)
	require.Equal(t, 2, l.Len())

	a.hook.Unlink()
	require.Equal(t, 1, l.Len())
	require.False(t, a.hook.Linked())
	require.True(t, b.hook.Linked())

	// Unlinking twice is a no-op, matching the auto-unlink hook contract.
	a.hook.Unlink()
	require.Equal(t, 1, l.Len())
}

func TestDList_ClearAndDisposeToleratesReinsertion(t *testing.T) {
	var l DList[dlistItem]
	a, b, c := newDListItem(1), newDListItem(2), newDListItem(3)
	l.PushBack(&a.hook)
	l.PushBack(&b.hook)
	l.PushBack(&c.hook)

	var ran []int
	l.ClearAndDispose(func(v *dlistItem) {
		ran = append(ran, v.id)
		if v.id == 1 {
			// The disposer re-links a different, not-yet-visited
			// node back into l; this must not corrupt the
			// in-progress traversal of the detached set.
			l.PushBack(&b.hook)
		}
	})

	// Relinking b into l took it out of the detached set before it was
	// visited, so it is not disposed.
	require.Equal(t, []int{1, 3}, ran)
	// b was re-inserted into l by the disposer.
	require.Equal(t, 1, l.Len())
	require.True(t, b.hook.Linked())
}

func TestDList_Splice(t *testing.T) {
	var l1, l2 DList[dlistItem]
	a, b := newDListItem(1), newDListItem(2)
	l1.PushBack(&a.hook)
	l2.PushBack(&b.hook)

	l1.Splice(&l2)
	require.Equal(t, 2, l1.Len())
	require.Equal(t, 0, l2.Len())
	require.True(t, l2.Empty())
}
