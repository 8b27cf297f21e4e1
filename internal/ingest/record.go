// Package ingest supplies the record sources that feed a skmv.Sketch:
// a flat-file reader for batch/offline runs and a NATS pub/sub pair for
// streaming ingestion (SPEC_FULL.md §3, §4).
package ingest

// Record is one (flow_label, element_id, timestamp) arrival, the wire and
// in-memory shape of everything upstream of skmv.Sketch.Record.
type Record struct {
	FlowLabel uint64
	ElementID uint64
	Timestamp uint64
}

// Handler processes one Record as it arrives from any source.
type Handler func(Record)
