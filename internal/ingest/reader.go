package ingest

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ReadFile streams records from a whitespace-separated text file, one
// record per line: "<flow_label> <element_id> <timestamp>". Blank lines
// and lines starting with '#' are skipped. This mirrors the column
// layout the original data loader expects, adapted to Go (SPEC_FULL.md
// §4 "Supplemented features") rather than the synthetic-data generator
// that produced it.
func ReadFile(path string, handle Handler) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("ingest: failed to open %q: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		r, err := parseLine(line)
		if err != nil {
			return fmt.Errorf("ingest: %q line %d: %w", path, lineNo, err)
		}
		handle(r)
	}
	return scanner.Err()
}

func parseLine(line string) (Record, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return Record{}, fmt.Errorf("expected 3 fields, got %d", len(fields))
	}

	flowLabel, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("invalid flow_label %q: %w", fields[0], err)
	}
	elementID, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("invalid element_id %q: %w", fields[1], err)
	}
	timestamp, err := strconv.ParseUint(fields[2], 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("invalid timestamp %q: %w", fields[2], err)
	}

	return Record{FlowLabel: flowLabel, ElementID: elementID, Timestamp: timestamp}, nil
}
