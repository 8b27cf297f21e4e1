package skmv

// entry is a single k-minimum slot (spec.md §3 "Entry"): a hash value plus
// its compressed arrival time. An entry is empty iff h == hashRange
// (the sentinel) and t is unset; the sketch keeps both conditions in sync
// on every mutation and after cleaning, per the emptiness invariant.
type entry struct {
	h uint64
	t adjustedTimestamp
}

func newEntry(hashRange, twoN uint64) entry {
	return entry{h: hashRange, t: newAdjustedTimestamp(twoN)}
}

// empty reports whether this entry currently holds no element.
func (e *entry) empty(hashRange uint64) bool {
	return e.h == hashRange && e.t.unset()
}

// set overwrites this entry with a new hash observed at time T.
func (e *entry) set(h, T uint64) {
	e.h = h
	e.t.record(T)
}

// EntrySnapshot is the read-only view of an entry exposed for tests and
// debugging (spec.md §6 "Observability").
type EntrySnapshot struct {
	Hash     uint64
	InWindow bool
	Empty    bool
}
