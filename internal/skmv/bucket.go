package skmv

// bucket is one slot of the sketch's C[0..m-1] array (spec.md §3
// "Bucket"): k entries plus the P2C lock zone state. head always indexes
// the entry holding the maximum in-window hash, whenever one exists;
// lockTime and lockMaxV are only meaningful while lock is set.
type bucket struct {
	entries  []entry
	lock     bool
	lockTime adjustedTimestamp
	lockMaxV uint64
	head     uint32
}

func newBucket(k uint32, hashRange, twoN uint64) bucket {
	entries := make([]entry, k)
	for i := range entries {
		entries[i] = newEntry(hashRange, twoN)
	}
	return bucket{
		entries:  entries,
		lock:     false,
		lockTime: newAdjustedTimestamp(twoN),
		lockMaxV: hashRange,
		head:     0,
	}
}

// updateHead performs the full rescan from spec.md §4.4 "update_head":
// among entries that are non-empty and in-window, set head to the index
// of maximum h. If none are in-window, head defaults to 0.
func (b *bucket) updateHead(T, hashRange uint64) {
	var maxHash uint64
	maxIndex := uint32(0)
	found := false

	for i := range b.entries {
		e := &b.entries[i]
		if e.h == hashRange || !e.t.inWindow(T) {
			continue
		}
		if !found || e.h > maxHash {
			maxHash = e.h
			maxIndex = uint32(i)
			found = true
		}
	}

	if !found {
		b.head = 0
		return
	}
	b.head = maxIndex
}

// findInsertPosition scans for an empty entry first, then an outdated
// (out-of-window) one, per spec.md §4.4 "No-lock case" / "Locked case".
// Returns -1 if no such slot exists.
func (b *bucket) findInsertPosition(T, hashRange uint64) int {
	for i := range b.entries {
		if b.entries[i].h == hashRange {
			return i
		}
	}
	for i := range b.entries {
		if !b.entries[i].t.inWindow(T) {
			return i
		}
	}
	return -1
}

// findOutdatedEntry scans for an out-of-window entry, used by the locked
// k-minimum case (spec.md §4.4 "Locked case"). An empty entry's AT is
// always unset, so it also reports out-of-window here.
func (b *bucket) findOutdatedEntry(T uint64) int {
	for i := range b.entries {
		if !b.entries[i].t.inWindow(T) {
			return i
		}
	}
	return -1
}

// maintainLock runs the pre-update lock maintenance of spec.md §4.4 step 3:
// clear an expired lock, then activate a fresh one if the head has gone
// stale while unlocked. Shared verbatim by record, periodic-clean-bucket,
// and estimate (spec.md §4.6, §4.7 step 1). Returns true iff this call is
// the one that transitioned the lock from clear to held, for callers that
// want to count activations (spec.md §6 "Observability").
//
// A head entry that has never been written (still the empty sentinel) is
// not "stale" — there is nothing to lock around yet, and an empty bucket
// must stay unlocked so the no-lock path can fill its slots freely.
func (b *bucket) maintainLock(T, hashRange uint64) bool {
	if b.lock && !b.lockTime.inWindow(T) {
		b.lock = false
	}
	if !b.lock {
		head := &b.entries[b.head]
		if !head.empty(hashRange) && !head.t.inWindow(T) {
			b.lock = true
			b.lockTime.record(T)
			b.lockMaxV = hashRange
			return true
		}
	}
	return false
}

// BucketSnapshot is the read-only view of a bucket exposed via
// Sketch.Bucket(i) for tests and debugging (spec.md §6).
type BucketSnapshot struct {
	Entries  []EntrySnapshot
	Lock     bool
	LockMaxV uint64
	Head     uint32
}
