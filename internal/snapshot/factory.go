package snapshot

import (
	"fmt"
	"time"

	"FlowSKMV/internal/config"
)

// BuildWriters constructs one Writer per enabled entry in defs, in order.
// Unknown writer types are rejected rather than silently skipped.
func BuildWriters(defs []config.WriterDef, interval time.Duration) ([]Writer, error) {
	var writers []Writer
	for _, def := range defs {
		if !def.Enabled {
			continue
		}

		switch def.Type {
		case "text":
			writers = append(writers, NewTextWriter(def.Path, interval))
		case "clickhouse":
			w, err := NewClickHouseWriter(def.ClickHouse, interval)
			if err != nil {
				return nil, fmt.Errorf("failed to build clickhouse writer: %w", err)
			}
			writers = append(writers, w)
		default:
			return nil, fmt.Errorf("unknown writer type: %q", def.Type)
		}
	}
	return writers, nil
}
