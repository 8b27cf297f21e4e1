package skmv

import "fmt"

// Sentinel errors returned by the package. Construction failures wrap one
// of these in a *ConfigurationError (and out-of-range bucket indexes in an
// *OutOfRangeError) so callers can errors.Is against a stable value
// instead of parsing messages.
var (
	// ErrInvalidWindow is returned when N <= 0 or N exceeds half the
	// timestamp range derivable from delta2.
	ErrInvalidWindow = fmt.Errorf("skmv: invalid window size")

	// ErrInvalidK is returned when k < 1.
	ErrInvalidK = fmt.Errorf("skmv: k must be >= 1")

	// ErrInvalidM is returned when m < 1.
	ErrInvalidM = fmt.Errorf("skmv: m must be >= 1")

	// ErrInvalidDelta1 is returned when delta1 is outside [1, 64].
	ErrInvalidDelta1 = fmt.Errorf("skmv: delta1 must be in [1, 64]")

	// ErrInvalidDelta2 is returned when delta2 is outside [1, 63].
	ErrInvalidDelta2 = fmt.Errorf("skmv: delta2 must be in [1, 63]")

	// ErrBucketIndexOutOfRange is returned by PeriodicCleanBucket when the
	// requested index does not fall in [0, m).
	ErrBucketIndexOutOfRange = fmt.Errorf("skmv: bucket index out of range")
)

// ConfigurationError wraps a parameter validation failure raised at
// construction time (spec §7). It carries the offending parameter name and
// value so callers can report a precise diagnostic without string parsing.
type ConfigurationError struct {
	Param string
	Value int64
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("skmv: configuration error: %s=%d: %v", e.Param, e.Value, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// OutOfRangeError wraps ErrBucketIndexOutOfRange with the offending index
// and the valid bound, for PeriodicCleanBucket (spec §7).
type OutOfRangeError struct {
	Index uint32
	M     uint32
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("skmv: bucket index %d out of range [0, %d)", e.Index, e.M)
}

func (e *OutOfRangeError) Unwrap() error { return ErrBucketIndexOutOfRange }
