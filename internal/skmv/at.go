package skmv

// adjustedTimestamp is the compressed arrival-time encoding described in
// spec.md §4.1. It stores t mod 2N instead of t, which is what lets an
// Entry fit in delta2 bits instead of a full 64-bit timestamp. The
// sentinel vAT == 2N means "unset"; record() never produces that value
// since t mod 2N is always in [0, 2N).
type adjustedTimestamp struct {
	twoN uint64 // 2*N, cached so every op is one subtraction away from a mod
	vAT  uint64 // in [0, 2N], 2N means unset
}

func newAdjustedTimestamp(twoN uint64) adjustedTimestamp {
	return adjustedTimestamp{twoN: twoN, vAT: twoN}
}

// record sets vAT := t mod 2N. Recording the same timestamp twice, or the
// same modular residue from two different real times, overwrites the
// previous value — that's the aliasing spec.md §4.1 warns about and that
// periodic cleaning exists to bound.
func (a *adjustedTimestamp) record(t uint64) {
	a.vAT = t % a.twoN
}

// inWindow reports whether the recorded time is within N of T, i.e.
// whether it falls in the sliding window (T-N, T]. A zero-age timestamp
// (T == vAT) is in window.
func (a *adjustedTimestamp) inWindow(T uint64) bool {
	if a.vAT == a.twoN {
		return false
	}
	diff := (T + a.twoN - a.vAT) % a.twoN
	return diff < a.twoN/2
}

// clean resets vAT to the unset sentinel if the recorded time has fallen
// out of window relative to T. It is a no-op otherwise, including when
// already unset.
func (a *adjustedTimestamp) clean(T uint64) {
	if a.vAT == a.twoN {
		return
	}
	diff := (T + a.twoN - a.vAT) % a.twoN
	if diff >= a.twoN/2 {
		a.vAT = a.twoN
	}
}

// unset reports whether this AT currently holds the sentinel.
func (a *adjustedTimestamp) unset() bool {
	return a.vAT == a.twoN
}
