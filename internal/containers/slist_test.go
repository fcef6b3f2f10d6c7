package containers

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

type slistItem struct {
	hook SListHook[slistItem]
	key  int
	seq  int // original position, to assert stability
}

func newSListItem(key, seq int) *slistItem {
	it := &slistItem{key: key, seq: seq}
	it.hook.Init(it)
	return it
}

func TestSList_PushBackAndFront(t *testing.T) {
	var l SList[slistItem]
	a, b := newSListItem(1, 0), newSListItem(2, 1)
	l.PushBack(&a.hook)
	l.PushBack(&b.hook)
	require.Equal(t, 2, l.Len())
	require.Equal(t, a, l.Front().Owner())
}

func TestSList_ReverseTwiceIsIdentity(t *testing.T) {
	var l SList[slistItem]
	items := []*slistItem{newSListItem(1, 0), newSListItem(2, 1), newSListItem(3, 2)}
	for _, it := range items {
		l.PushBack(&it.hook)
	}

	l.Reverse()
	l.Reverse()

	var got []int
	for n := l.Front(); n != nil; n = n.next {
		got = append(got, n.Owner().key)
	}
	require.Equal(t, []int{1, 2, 3}, got)
}

func TestSList_MergeSortStable(t *testing.T) {
	var l SList[slistItem]
	rng := rand.New(rand.NewSource(42))
	const n = 500
	var keys []int
	for i := 0; i < n; i++ {
		k := rng.Intn(20) // heavy collisions to exercise tie-stability
		keys = append(keys, k)
		it := newSListItem(k, i)
		l.PushBack(&it.hook)
	}

	l.MergeSort(func(a, b *slistItem) bool { return a.key < b.key })

	require.Equal(t, n, l.Len())

	var gotKeys []int
	lastSeqByKey := map[int]int{}
	for node := l.Front(); node != nil; node = node.next {
		v := node.Owner()
		gotKeys = append(gotKeys, v.key)
		if prev, ok := lastSeqByKey[v.key]; ok {
			require.Greater(t, v.seq, prev, "equal keys must preserve original order")
		}
		lastSeqByKey[v.key] = v.seq
	}

	for i := 1; i < len(gotKeys); i++ {
		require.LessOrEqual(t, gotKeys[i-1], gotKeys[i])
	}
}

func TestSList_InsertAfterAndEraseAfter(t *testing.T) {
	var l SList[slistItem]
	a, c := newSListItem(1, 0), newSListItem(3, 1)
	l.PushBack(&a.hook)
	l.PushBack(&c.hook)

	b := newSListItem(2, 2)
	l.InsertAfter(&a.hook, &b.hook)
	require.Equal(t, 3, l.Len())

	erased := l.EraseAfter(&a.hook)
	require.Same(t, &b.hook, erased)
	require.Equal(t, 2, l.Len())
}

func TestSList_RemoveByValue(t *testing.T) {
	var l SList[slistItem]
	a, b, c := newSListItem(1, 0), newSListItem(2, 1), newSListItem(3, 2)
	l.PushBack(&a.hook)
	l.PushBack(&b.hook)
	l.PushBack(&c.hook)

	require.True(t, l.Remove(&b.hook))
	require.Equal(t, 2, l.Len())
	require.False(t, l.Remove(&b.hook))
}
