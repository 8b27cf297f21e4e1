// Package skmv implements the CORE of a Sliding KMV (S-KMV) sketch: a
// probabilistic estimator of the number of distinct elements observed per
// flow, and in aggregate, over a time-based sliding window. See spec.md /
// SPEC_FULL.md for the algorithm this package implements.
//
// The Sketch is single-threaded and synchronous by design (spec.md §5):
// Record, PeriodicClean, PeriodicCleanBucket and Estimate all mutate
// shared state without locking. Concurrent calls from multiple goroutines
// are undefined behaviour — callers that need concurrent ingestion must
// serialize calls themselves (cmd/skmv-engine holds a mutex around every
// call).
package skmv

import "fmt"

// Sketch owns the full bucket array and the global clock T. All memory is
// allocated once at construction (spec.md §3 "Lifecycle") — entries are
// reused in place and never reallocated on the record path.
type Sketch struct {
	n      uint64 // window length N
	k      uint32
	m      uint32
	delta1 uint32
	delta2 uint32

	hashRange      uint64 // 2^delta1 - 1
	timestampRange uint64 // 2^delta2 - 1
	twoN           uint64 // 2*N, the AT modulus

	t               uint64 // current global time T
	buckets         []bucket
	lockActivations uint64 // cumulative count of lock-zone activations, across all buckets
}

// New constructs a Sketch with the given parameters, validating them per
// spec.md §6: N > 0, k >= 1, m >= 1, 1 <= delta1 <= 64, 1 <= delta2 <= 63,
// and N <= (2^delta2 - 1)/2 (AT requires 2N distinct values plus a
// sentinel, so N can be at most half the timestamp range).
func New(n uint64, k, m, delta1, delta2 uint32) (*Sketch, error) {
	if n == 0 {
		return nil, &ConfigurationError{Param: "N", Value: int64(n), Err: ErrInvalidWindow}
	}
	if k < 1 {
		return nil, &ConfigurationError{Param: "k", Value: int64(k), Err: ErrInvalidK}
	}
	if m < 1 {
		return nil, &ConfigurationError{Param: "m", Value: int64(m), Err: ErrInvalidM}
	}
	if delta1 < 1 || delta1 > 64 {
		return nil, &ConfigurationError{Param: "delta1", Value: int64(delta1), Err: ErrInvalidDelta1}
	}
	if delta2 < 1 || delta2 > 63 {
		return nil, &ConfigurationError{Param: "delta2", Value: int64(delta2), Err: ErrInvalidDelta2}
	}

	timestampRange := rangeOf(delta2)
	if n > timestampRange/2 {
		return nil, &ConfigurationError{Param: "N", Value: int64(n), Err: ErrInvalidWindow}
	}

	hashRange := rangeOf(delta1)
	twoN := 2 * n

	buckets := make([]bucket, m)
	for i := range buckets {
		buckets[i] = newBucket(k, hashRange, twoN)
	}

	return &Sketch{
		n:              n,
		k:              k,
		m:              m,
		delta1:         delta1,
		delta2:         delta2,
		hashRange:      hashRange,
		timestampRange: timestampRange,
		twoN:           twoN,
		t:              0,
		buckets:        buckets,
	}, nil
}

// rangeOf returns 2^bits - 1 without overflowing for bits == 64.
func rangeOf(bits uint32) uint64 {
	if bits == 64 {
		return ^uint64(0)
	}
	return (uint64(1) << bits) - 1
}

// Record processes one (flow_label, element_id, timestamp) arrival,
// per spec.md §4.4.
func (s *Sketch) Record(flowLabel, elementID, timestamp uint64) {
	s.t = timestamp
	idx := bucketHash(flowLabel, s.m)
	hy := elementHash(elementID, s.hashRange)

	b := &s.buckets[idx]

	// Step 3: pre-update lock maintenance.
	if b.maintainLock(s.t, s.hashRange) {
		s.lockActivations++
	}

	// Step 4: duplicate check — refresh the arrival time and return.
	for i := range b.entries {
		if b.entries[i].h == hy {
			b.entries[i].t.record(s.t)
			return
		}
	}

	// Step 5: dispatch on lock state.
	if !b.lock {
		s.updateNoLock(b, hy)
	} else {
		s.updateWithLock(b, hy)
	}
}

// updateNoLock implements spec.md §4.4 "No-lock case".
func (s *Sketch) updateNoLock(b *bucket, hy uint64) {
	oldHeadHash := b.entries[b.head].h

	if pos := b.findInsertPosition(s.t, s.hashRange); pos != -1 {
		b.entries[pos].set(hy, s.t)
		b.updateHead(s.t, s.hashRange)
		return
	}

	if hy < oldHeadHash {
		b.entries[b.head].set(hy, s.t)
		b.updateHead(s.t, s.hashRange)
	}
	// else: reject, not a k-minimum.
}

// updateWithLock implements spec.md §4.4 "Locked case".
func (s *Sketch) updateWithLock(b *bucket, hy uint64) {
	oldHeadHash := b.entries[b.head].h

	switch {
	case hy < oldHeadHash:
		// Subcase 2a: k-minimum.
		if pos := b.findOutdatedEntry(s.t); pos != -1 {
			b.entries[pos].set(hy, s.t)
		} else {
			b.entries[b.head].set(hy, s.t)
			b.updateHead(s.t, s.hashRange)
			b.lock = false
		}
	case oldHeadHash < hy && hy < b.lockMaxV:
		// Subcase 2b: P2C zone — shrink the upper bound.
		b.lockMaxV = hy
	}
	// Subcase 2c: hy >= lockMaxV — do nothing.
}

// PeriodicClean cleans every bucket at t_now, per spec.md §4.6. Callers
// must invoke this at least once every N time units of stream progress to
// keep the AT encoding unambiguous — see the cleaning-frequency contract
// in spec.md §4.6 and §7 ("missed cleaning deadline").
func (s *Sketch) PeriodicClean(tNow uint64) {
	s.t = tNow
	for i := range s.buckets {
		s.cleanBucket(&s.buckets[i])
	}
}

// PeriodicCleanBucket cleans a single bucket at t_now, per spec.md §4.6
// and §7 (OutOfRange for i not in [0, m)).
func (s *Sketch) PeriodicCleanBucket(tNow uint64, i uint32) error {
	if i >= s.m {
		return &OutOfRangeError{Index: i, M: s.m}
	}
	s.t = tNow
	s.cleanBucket(&s.buckets[i])
	return nil
}

func (s *Sketch) cleanBucket(b *bucket) {
	for i := range b.entries {
		e := &b.entries[i]
		e.t.clean(s.t)
		if e.t.unset() {
			e.h = s.hashRange
		}
	}
	b.updateHead(s.t, s.hashRange)
	if b.maintainLock(s.t, s.hashRange) {
		s.lockActivations++
	}
}

// Estimate computes the aggregate distinct-element estimate across all
// buckets, per spec.md §4.7. Per-bucket cardinality uses an O(k) scan for
// the k-minimum set's maximum instead of a full sort — the KMV formula
// only needs that maximum, never the order of the rest, and this keeps
// Estimate allocation-free (spec.md §5's resource policy).
func (s *Sketch) Estimate() float64 {
	var harmonicSum float64
	effectiveM := s.m

	for i := range s.buckets {
		b := &s.buckets[i]
		if b.maintainLock(s.t, s.hashRange) {
			s.lockActivations++
		}

		kPrime, alpha := s.collectValidHashes(b)
		if kPrime == 0 {
			effectiveM--
			continue
		}

		nI := float64(kPrime)*float64(s.hashRange)/float64(alpha) - 1
		if nI > 0 {
			harmonicSum += 1.0 / nI
		}
	}

	if harmonicSum > 0 && effectiveM > 0 {
		return float64(effectiveM) / harmonicSum
	}
	return 0
}

// collectValidHashes returns the count and maximum of the entries that
// are non-empty and in-window, excluding the head entry when the bucket
// is locked (spec.md §4.7 step 2).
func (s *Sketch) collectValidHashes(b *bucket) (count int, max uint64) {
	for i := range b.entries {
		e := &b.entries[i]
		if e.h == s.hashRange || !e.t.inWindow(s.t) {
			continue
		}
		if b.lock && uint32(i) == b.head {
			continue
		}
		count++
		if e.h > max {
			max = e.h
		}
	}
	return count, max
}

// CurrentTime returns the sketch's current global time T.
func (s *Sketch) CurrentTime() uint64 { return s.t }

// WindowSize returns the configured window length N.
func (s *Sketch) WindowSize() uint64 { return s.n }

// K returns the configured per-bucket k-minimum count.
func (s *Sketch) K() uint32 { return s.k }

// M returns the configured bucket count.
func (s *Sketch) M() uint32 { return s.m }

// HashRange returns 2^delta1 - 1, the maximum hash value (and the empty
// sentinel).
func (s *Sketch) HashRange() uint64 { return s.hashRange }

// TimestampRange returns 2^delta2 - 1.
func (s *Sketch) TimestampRange() uint64 { return s.timestampRange }

// LockActivations returns the cumulative number of times any bucket's P2C
// lock zone has activated since construction.
func (s *Sketch) LockActivations() uint64 { return s.lockActivations }

// Bucket returns a read-only snapshot of bucket i, for tests and
// debugging (spec.md §6). Panics-free: an out-of-range index returns an
// error instead, mirroring PeriodicCleanBucket's contract.
func (s *Sketch) Bucket(i uint32) (BucketSnapshot, error) {
	if i >= s.m {
		return BucketSnapshot{}, &OutOfRangeError{Index: i, M: s.m}
	}
	b := &s.buckets[i]

	entries := make([]EntrySnapshot, len(b.entries))
	for j := range b.entries {
		e := &b.entries[j]
		entries[j] = EntrySnapshot{
			Hash:     e.h,
			InWindow: e.t.inWindow(s.t),
			Empty:    e.empty(s.hashRange),
		}
	}

	return BucketSnapshot{
		Entries:  entries,
		Lock:     b.lock,
		LockMaxV: b.lockMaxV,
		Head:     b.head,
	}, nil
}

// String renders the sketch's top-level configuration, mirroring the
// Java original's toString() overrides used for debugging — see
// SPEC_FULL.md's "supplemented features".
func (s *Sketch) String() string {
	return fmt.Sprintf("Sketch{N=%d, k=%d, m=%d, delta1=%d, delta2=%d, T=%d}",
		s.n, s.k, s.m, s.delta1, s.delta2, s.t)
}
