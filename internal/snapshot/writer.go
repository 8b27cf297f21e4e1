// Package snapshot persists periodic Estimate() results as a time series.
// It never persists the raw bucket array: the non-goal on sketch-state
// persistence (SPEC_FULL.md §5) only rules out serializing skmv.Sketch
// itself, not recording what it computes.
package snapshot

import (
	"time"

	"FlowSKMV/internal/model"
)

// EstimateSnapshot is one point of the estimate time series: the sketch's
// configuration plus the cardinality estimate it produced at Timestamp.
type EstimateSnapshot struct {
	Timestamp time.Time
	Window    uint64
	K         uint32
	M         uint32
	Estimate  float64
}

// Writer is implemented by every snapshot sink. It reuses the Writer
// contract the rest of the codebase's snapshot writers implement
// (internal/model.Writer), so a single scheduler loop can drive any mix
// of writers.
type Writer = model.Writer
