// Package metrics exposes Prometheus instrumentation for skmv-engine,
// grounded on the rest of the example pack's use of client_golang for
// counters and gauges around a streaming pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RecordsIngested counts every Record handed to Sketch.Record.
	RecordsIngested = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "skmv",
		Name:      "records_ingested_total",
		Help:      "Total number of records processed by the sketch.",
	})

	// LockActivations counts every transition of a bucket's P2C lock
	// from unlocked to locked, across all buckets.
	LockActivations = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "skmv",
		Name:      "lock_activations_total",
		Help:      "Total number of times a bucket's P2C lock zone activated.",
	})

	// CurrentEstimate tracks the most recently computed cardinality
	// estimate.
	CurrentEstimate = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "skmv",
		Name:      "current_estimate",
		Help:      "Most recent Estimate() result.",
	})

	// CleanDuration tracks how long a full PeriodicClean pass takes, to
	// help size the clean interval relative to ingestion rate.
	CleanDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "skmv",
		Name:      "clean_duration_seconds",
		Help:      "Duration of a full PeriodicClean pass over all buckets.",
	})
)

func init() {
	prometheus.MustRegister(RecordsIngested, LockActivations, CurrentEstimate, CleanDuration)
}

// Handler returns the HTTP handler to mount at the metrics listen
// address.
func Handler() http.Handler {
	return promhttp.Handler()
}
