package ledger_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"shoebox/internal/ledger"
)

var captureTime = time.Date(2011, 6, 18, 14, 30, 5, 0, time.Local)

func TestKeyFormat(t *testing.T) {
	got := ledger.Key(captureTime, 123456789)
	want := "2011-06-18T14:30:05_123456789"
	if got != want {
		t.Fatalf("Key = %q, want %q", got, want)
	}
}

func TestKeyDropsSubsecondPrecision(t *testing.T) {
	a := ledger.Key(captureTime, 100)
	b := ledger.Key(captureTime.Add(300*time.Millisecond), 100)
	if a != b {
		t.Fatalf("keys should match across sub-second differences: %q vs %q", a, b)
	}
}

func TestRecordAndLookup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conversion_ledger.json")
	l := ledger.Open(path, nil)

	if l.Has(captureTime, 1000) {
		t.Fatal("fresh ledger should be empty")
	}

	key, err := l.Record(captureTime, 1000, "/camcorder/00000.MTS", "/videos/2011/06 June/00000.mp4")
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if key != ledger.Key(captureTime, 1000) {
		t.Fatalf("unexpected key: %q", key)
	}

	entry, ok := l.Lookup(captureTime, 1000)
	if !ok {
		t.Fatal("expected ledger hit")
	}
	if entry.OriginalName != "00000.MTS" || entry.OutputName != "00000.mp4" {
		t.Fatalf("unexpected entry: %+v", entry)
	}

	if l.Has(captureTime, 1001) {
		t.Fatal("different size must be a different key")
	}
}

func TestLedgerPersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conversion_ledger.json")

	first := ledger.Open(path, nil)
	if _, err := first.Record(captureTime, 500, "/src/a.avi", "/out/a.mp4"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	second := ledger.Open(path, nil)
	if !second.Has(captureTime, 500) {
		t.Fatal("expected hit after reload")
	}
	if second.Count() != 1 {
		t.Fatalf("unexpected count: %d", second.Count())
	}
	if second.TotalOriginalBytes() != 500 {
		t.Fatalf("unexpected total: %d", second.TotalOriginalBytes())
	}
}

func TestLedgerFileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conversion_ledger.json")
	l := ledger.Open(path, nil)
	if _, err := l.Record(captureTime, 500, "/src/a.avi", "/out/a.mp4"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	var file struct {
		Version int                        `json:"version"`
		Entries map[string]json.RawMessage `json:"entries"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		t.Fatalf("parse ledger: %v", err)
	}
	if file.Version != 1 {
		t.Fatalf("version = %d, want 1", file.Version)
	}
	if _, ok := file.Entries["2011-06-18T14:30:05_500"]; !ok {
		t.Fatalf("expected keyed entry, got %v", file.Entries)
	}
}

func TestCorruptLedgerStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conversion_ledger.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	l := ledger.Open(path, nil)
	if l.Count() != 0 {
		t.Fatalf("corrupt ledger should start empty, got %d entries", l.Count())
	}
	// And it must still accept new records.
	if _, err := l.Record(captureTime, 42, "/src/b.avi", "/out/b.mp4"); err != nil {
		t.Fatalf("Record after corrupt load failed: %v", err)
	}
}

func TestPathlessLedgerIsNoop(t *testing.T) {
	l := ledger.Open("", nil)
	key, err := l.Record(captureTime, 10, "/src/c.avi", "/out/c.mp4")
	if err != nil {
		t.Fatalf("Record on pathless ledger should be a no-op: %v", err)
	}
	if key == "" {
		t.Fatal("key should still be derived")
	}
	if l.Has(captureTime, 10) {
		t.Fatal("pathless ledger should never hit")
	}
}
