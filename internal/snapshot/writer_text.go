package snapshot

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// TextWriter appends each EstimateSnapshot as one line to a file,
// creating the parent directory if needed.
type TextWriter struct {
	path     string
	interval time.Duration
}

// NewTextWriter creates a writer that appends to the file at path.
func NewTextWriter(path string, interval time.Duration) Writer {
	return &TextWriter{path: path, interval: interval}
}

// GetInterval returns the configured snapshot interval for this writer.
func (w *TextWriter) GetInterval() time.Duration {
	return w.interval
}

// Write appends one line of the form "<timestamp> window=<N> k=<k> m=<m>
// estimate=<value>" to the configured file.
func (w *TextWriter) Write(payload interface{}, timestamp string) error {
	snap, ok := payload.(EstimateSnapshot)
	if !ok {
		return fmt.Errorf("invalid payload type for TextWriter: expected snapshot.EstimateSnapshot, got %T", payload)
	}

	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}

	file, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open snapshot file '%s': %w", w.path, err)
	}
	defer file.Close()

	line := fmt.Sprintf("%s window=%d k=%d m=%d estimate=%f\n", timestamp, snap.Window, snap.K, snap.M, snap.Estimate)
	if _, err := file.WriteString(line); err != nil {
		return fmt.Errorf("failed to write snapshot line: %w", err)
	}

	log.Printf("wrote estimate snapshot to %s: estimate=%f", w.path, snap.Estimate)
	return nil
}
