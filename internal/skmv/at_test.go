package skmv

import "testing"

func TestAdjustedTimestampUnsetInitially(t *testing.T) {
	at := newAdjustedTimestamp(2 * 100)
	if !at.unset() {
		t.Fatal("freshly constructed AT should be unset")
	}
	if at.inWindow(0) {
		t.Fatal("unset AT must never be in window")
	}
}

func TestAdjustedTimestampZeroAgeInWindow(t *testing.T) {
	at := newAdjustedTimestamp(2 * 100)
	at.record(50)
	if !at.inWindow(50) {
		t.Fatal("recording at T and checking inWindow(T) must return true")
	}
}

func TestAdjustedTimestampBoundary(t *testing.T) {
	n := uint64(100)
	at := newAdjustedTimestamp(2 * n)
	at.record(0)

	if !at.inWindow(n - 1) {
		t.Errorf("T=N-1 should still be in window")
	}
	if at.inWindow(n) {
		t.Errorf("T=N should be out of window (age == N is not < N)")
	}
}

func TestAdjustedTimestampCleanResetsSentinel(t *testing.T) {
	n := uint64(100)
	at := newAdjustedTimestamp(2 * n)
	at.record(0)

	at.clean(50)
	if at.unset() {
		t.Fatal("clean must not reset an in-window AT")
	}

	at.clean(200)
	if !at.unset() {
		t.Fatal("clean must reset an out-of-window AT to the sentinel")
	}
	if at.inWindow(200) {
		t.Fatal("a cleaned AT must report out of window")
	}
}

func TestAdjustedTimestampAliasingRequiresCleaning(t *testing.T) {
	// spec.md §4.1: without cleaning, an AT recorded at t=0 aliases back
	// into the window once T advances by a full 2N — this test documents
	// that behaviour rather than "fixing" it, since the fix is cleaning
	// discipline, not the encoding.
	n := uint64(100)
	at := newAdjustedTimestamp(2 * n)
	at.record(0)

	if !at.inWindow(210) {
		t.Fatal("expected aliasing at T=210 without intervening cleaning: 210 mod 200 = 10, which reads as in-window")
	}

	// Cleaning in between prevents the alias: at T=100 the entry's age
	// reaches N, so it is out of window and gets reset to the sentinel.
	at2 := newAdjustedTimestamp(2 * n)
	at2.record(0)
	at2.clean(100)
	at2.clean(200)
	if at2.inWindow(210) {
		t.Fatal("periodic cleaning should have prevented aliasing at T=210")
	}
}
