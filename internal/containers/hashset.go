package containers

// hashEntry is the node stored inside a HashSet bucket, allocated by
// InsertCommit. Each bucket is itself an SList, so a HashSet is an
// open-chained hash table built directly on the singly-linked list in
// slist.go.
type hashEntry[K comparable, V any] struct {
	hook SListHook[hashEntry[K, V]]
	key  K
	val  V
}

// HashSet is a fixed-bucket-count, open-chained hash set. The caller
// supplies the hash function; equality uses K's comparable constraint, so
// hash and equality are always consistent by construction.
type HashSet[K comparable, V any] struct {
	buckets []SList[hashEntry[K, V]]
	hashFn  func(K) uint64
	size    int
}

// NewHashSet creates a hash set with nBuckets chains. nBuckets is rounded
// up to 1 if given as zero or negative.
func NewHashSet[K comparable, V any](nBuckets int, hashFn func(K) uint64) *HashSet[K, V] {
	if nBuckets < 1 {
		nBuckets = 1
	}
	return &HashSet[K, V]{
		buckets: make([]SList[hashEntry[K, V]], nBuckets),
		hashFn:  hashFn,
	}
}

// Len returns the number of entries in the set.
func (s *HashSet[K, V]) Len() int {
	return s.size
}

func (s *HashSet[K, V]) bucket(k K) *SList[hashEntry[K, V]] {
	return &s.buckets[s.hashFn(k)%uint64(len(s.buckets))]
}

// Find returns the value stored under k, if any.
func (s *HashSet[K, V]) Find(k K) (V, bool) {
	return findInBucket(s.bucket(k), k)
}

// findInBucket scans an already-hashed bucket for k, so a caller that has
// already computed the bucket (InsertCheck) does not pay for a second hash.
func findInBucket[K comparable, V any](b *SList[hashEntry[K, V]], k K) (V, bool) {
	for n := b.Front(); n != nil; n = n.next {
		if n.owner.key == k {
			return n.owner.val, true
		}
	}
	var zero V
	return zero, false
}

// InsertPosition names the bucket an insertion would land in, produced by
// InsertCheck and consumed by InsertCommit, so a caller that has already
// hashed and scanned the bucket (to learn "inserted?") does not pay for a
// second hash/scan on commit.
type InsertPosition[K comparable, V any] struct {
	bucket *SList[hashEntry[K, V]]
}

// InsertCheck hashes k once and reports whether it is already present,
// alongside the position to pass to InsertCommit for two-phase insertion.
func (s *HashSet[K, V]) InsertCheck(k K) (pos InsertPosition[K, V], alreadyPresent bool) {
	b := s.bucket(k)
	_, found := findInBucket(b, k)
	return InsertPosition[K, V]{bucket: b}, found
}

// InsertCommit links a new (k, v) pair at the previously computed
// position. Calling this when InsertCheck reported alreadyPresent is a
// caller bug (it produces a duplicate chain entry) and is not itself
// checked here, matching the two-phase contract's "caller already knows".
func (s *HashSet[K, V]) InsertCommit(pos InsertPosition[K, V], k K, v V) {
	e := &hashEntry[K, V]{key: k, val: v}
	e.hook.Init(e)
	pos.bucket.PushFront(&e.hook)
	s.size++
}

// Erase removes the entry for k, reporting whether one was found.
func (s *HashSet[K, V]) Erase(k K) bool {
	b := s.bucket(k)
	for n := b.Front(); n != nil; n = n.next {
		if n.owner.key == k {
			b.Remove(n)
			s.size--
			return true
		}
	}
	return false
}

// RemoveAndDisposeIf removes every entry matching pred, invoking dispose
// for each one removed.
func (s *HashSet[K, V]) RemoveAndDisposeIf(pred func(K, V) bool, dispose func(K, V)) {
	for i := range s.buckets {
		b := &s.buckets[i]
		for n := b.Front(); n != nil; {
			next := n.next
			if pred(n.owner.key, n.owner.val) {
				k, v := n.owner.key, n.owner.val
				b.Remove(n)
				s.size--
				dispose(k, v)
			}
			n = next
		}
	}
}
