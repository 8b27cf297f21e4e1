package ingest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadFileParsesRecordsAndSkipsCommentsAndBlanks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "records.txt")
	content := "# flow_label element_id timestamp\n1 100 0\n\n1 101 5\n2 200 5\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var got []Record
	if err := ReadFile(path, func(r Record) { got = append(got, r) }); err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	want := []Record{
		{FlowLabel: 1, ElementID: 100, Timestamp: 0},
		{FlowLabel: 1, ElementID: 101, Timestamp: 5},
		{FlowLabel: 2, ElementID: 200, Timestamp: 5},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d records, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("record %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestReadFileRejectsMalformedLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.txt")
	if err := os.WriteFile(path, []byte("1 2\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := ReadFile(path, func(Record) {}); err == nil {
		t.Fatal("expected an error for a line with the wrong field count")
	}
}

func TestReadFileMissingFile(t *testing.T) {
	if err := ReadFile(filepath.Join(t.TempDir(), "missing.txt"), func(Record) {}); err == nil {
		t.Fatal("expected an error opening a nonexistent file")
	}
}
