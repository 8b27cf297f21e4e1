package skmv

import "testing"

const testHashRange = uint64(1<<32 - 1)
const testTwoN = uint64(200)

func TestNewBucketAllEntriesEmpty(t *testing.T) {
	b := newBucket(4, testHashRange, testTwoN)
	for i := range b.entries {
		if !b.entries[i].empty(testHashRange) {
			t.Fatalf("entry %d should start empty", i)
		}
	}
	if b.lock {
		t.Fatal("a fresh bucket must start unlocked")
	}
	if b.head != 0 {
		t.Fatalf("a fresh bucket's head must default to 0, got %d", b.head)
	}
}

func TestFindInsertPositionPrefersEmptyOverOutdated(t *testing.T) {
	b := newBucket(2, testHashRange, testTwoN)
	b.entries[0].set(50, 0)
	// entries[1] remains empty.

	pos := b.findInsertPosition(0, testHashRange)
	if pos != 1 {
		t.Fatalf("expected the empty slot (1) to be chosen, got %d", pos)
	}
}

func TestFindInsertPositionFallsBackToOutdated(t *testing.T) {
	b := newBucket(2, testHashRange, testTwoN)
	b.entries[0].set(50, 0)
	b.entries[1].set(60, 0)

	// At T=101 with N=100 (twoN=200), both entries recorded at t=0 are
	// out of window.
	pos := b.findInsertPosition(101, testHashRange)
	if pos != 0 {
		t.Fatalf("expected the first outdated slot (0), got %d", pos)
	}
}

func TestFindInsertPositionReturnsMinusOneWhenFull(t *testing.T) {
	b := newBucket(2, testHashRange, testTwoN)
	b.entries[0].set(50, 0)
	b.entries[1].set(60, 0)

	pos := b.findInsertPosition(0, testHashRange)
	if pos != -1 {
		t.Fatalf("expected no insert position when full and in-window, got %d", pos)
	}
}

func TestFindOutdatedEntryIgnoresInWindowEntries(t *testing.T) {
	b := newBucket(2, testHashRange, testTwoN)
	b.entries[0].set(50, 0)
	b.entries[1].set(60, 0)

	if pos := b.findOutdatedEntry(0); pos != -1 {
		t.Fatalf("expected no outdated entry while both are fresh, got %d", pos)
	}
	if pos := b.findOutdatedEntry(101); pos != 0 {
		t.Fatalf("expected entry 0 to be outdated at T=101, got %d", pos)
	}
}

func TestUpdateHeadPicksMaximumInWindowHash(t *testing.T) {
	b := newBucket(3, testHashRange, testTwoN)
	b.entries[0].set(10, 0)
	b.entries[1].set(90, 0)
	b.entries[2].set(50, 0)

	b.updateHead(0, testHashRange)
	if b.head != 1 {
		t.Fatalf("expected head to point at the largest hash (index 1, value 90), got %d", b.head)
	}
}

func TestUpdateHeadSkipsOutOfWindowEntries(t *testing.T) {
	b := newBucket(3, testHashRange, testTwoN)
	b.entries[0].set(10, 0)
	b.entries[1].set(90, 0) // will be stale at T=101
	b.entries[2].set(50, 50)

	b.updateHead(101, testHashRange)
	if b.head != 2 {
		t.Fatalf("expected head to skip the stale entry 1 and land on 2 (value 50), got %d", b.head)
	}
}

func TestUpdateHeadDefaultsToZeroWhenNothingInWindow(t *testing.T) {
	b := newBucket(2, testHashRange, testTwoN)
	b.entries[0].set(10, 0)
	b.entries[1].set(90, 0)

	b.updateHead(101, testHashRange)
	if b.head != 0 {
		t.Fatalf("expected head to default to 0 when nothing is in window, got %d", b.head)
	}
}

func TestMaintainLockSkipsEmptyHead(t *testing.T) {
	b := newBucket(2, testHashRange, testTwoN)
	b.maintainLock(500, testHashRange)
	if b.lock {
		t.Fatal("an all-empty bucket must never lock, regardless of T")
	}
}

func TestMaintainLockActivatesOnStaleNonEmptyHead(t *testing.T) {
	b := newBucket(2, testHashRange, testTwoN)
	b.entries[0].set(10, 0)
	b.head = 0

	b.maintainLock(101, testHashRange)
	if !b.lock {
		t.Fatal("expected lock to activate once the non-empty head goes stale")
	}
	if b.lockMaxV != testHashRange {
		t.Fatalf("expected lockMaxV to reset to hashRange on activation, got %d", b.lockMaxV)
	}
}

func TestMaintainLockClearsOnTimeout(t *testing.T) {
	b := newBucket(2, testHashRange, testTwoN)
	b.entries[0].set(10, 0)
	b.head = 0

	b.maintainLock(101, testHashRange) // activates, lockTime.record(101)
	if !b.lock {
		t.Fatal("expected lock active at T=101")
	}

	b.maintainLock(201, testHashRange) // 201-101 == N(100), lock should clear
	if b.lock {
		t.Fatal("expected lock to have cleared by T=201")
	}
}

func TestMaintainLockIsIdempotentWhileHeld(t *testing.T) {
	b := newBucket(2, testHashRange, testTwoN)
	b.entries[0].set(10, 0)
	b.head = 0

	b.maintainLock(101, testHashRange)
	firstLockTime := b.lockTime

	b.maintainLock(150, testHashRange)
	if b.lockTime != firstLockTime {
		t.Fatal("a held lock's activation time must not be refreshed by later maintainLock calls")
	}
}
