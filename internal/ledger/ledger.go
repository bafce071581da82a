// Package ledger tracks which videos have already been converted so the
// same content arriving from multiple backup sources is never re-encoded.
// Entries are keyed by (capture time, original byte size): camcorder
// filenames repeat across cards (00000.MTS, 00001.MTS) and cannot identify
// content, but the recording timestamp plus exact size can.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"shoebox/internal/logging"
)

const ledgerVersion = 1

const keyTimeLayout = "2006-01-02T15:04:05"

// Entry records one completed conversion.
type Entry struct {
	OriginalName string    `json:"original_name"`
	OriginalPath string    `json:"original_path"`
	OriginalSize int64     `json:"original_size"`
	OutputName   string    `json:"output_name"`
	OutputPath   string    `json:"output_path"`
	ConvertedAt  time.Time `json:"converted_at"`
}

type ledgerFile struct {
	Version int              `json:"version"`
	Entries map[string]Entry `json:"entries"`
}

// Ledger provides thread-safe access to the conversion ledger.
type Ledger struct {
	path    string
	logger  *slog.Logger
	mu      sync.RWMutex
	entries map[string]Entry
}

// Key builds the ledger key for a capture time and original size.
// Sub-second precision is deliberately dropped: different containers report
// different fractional precision for the same recording.
func Key(captureTime time.Time, size int64) string {
	return fmt.Sprintf("%s_%d", captureTime.Format(keyTimeLayout), size)
}

// Open loads the ledger at path, starting empty when the file is missing.
// A corrupt file is reported but does not block the run.
func Open(path string, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "ledger")

	l := &Ledger{
		path:    path,
		logger:  logger,
		entries: make(map[string]Entry),
	}
	if path == "" {
		return l
	}

	if err := l.load(); err != nil {
		logger.Warn("failed to load conversion ledger",
			logging.String(logging.FieldEventType, "ledger_load_failed"),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "ledger will start empty"),
			logging.String(logging.FieldImpact, "previously converted videos may be re-encoded"))
	}
	return l
}

// Has reports whether a video with this capture time and size was already
// converted.
func (l *Ledger) Has(captureTime time.Time, size int64) bool {
	_, ok := l.Lookup(captureTime, size)
	return ok
}

// Lookup returns the recorded conversion for a capture time and size.
func (l *Ledger) Lookup(captureTime time.Time, size int64) (Entry, bool) {
	if l.path == "" {
		return Entry{}, false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	entry, ok := l.entries[Key(captureTime, size)]
	return entry, ok
}

// Record adds a completed conversion and persists the ledger. It returns
// the key that was written.
func (l *Ledger) Record(captureTime time.Time, size int64, originalPath, outputPath string) (string, error) {
	if originalPath == "" || outputPath == "" {
		return "", errors.New("original and output paths are required")
	}
	key := Key(captureTime, size)
	if l.path == "" {
		return key, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries[key] = Entry{
		OriginalName: filepath.Base(originalPath),
		OriginalPath: originalPath,
		OriginalSize: size,
		OutputName:   filepath.Base(outputPath),
		OutputPath:   outputPath,
		ConvertedAt:  time.Now().UTC().Truncate(time.Second),
	}

	if err := l.save(); err != nil {
		return key, fmt.Errorf("persist ledger: %w", err)
	}

	l.logger.Debug("recorded conversion",
		logging.String("key", key),
		logging.String("output", outputPath))
	return key, nil
}

// Count returns the number of recorded conversions.
func (l *Ledger) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// TotalOriginalBytes sums the original sizes of all recorded conversions.
func (l *Ledger) TotalOriginalBytes() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var total int64
	for _, entry := range l.entries {
		total += entry.OriginalSize
	}
	return total
}

// Entries returns all recorded conversions sorted by key.
func (l *Ledger) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	keys := make([]string, 0, len(l.entries))
	for key := range l.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		entries = append(entries, l.entries[key])
	}
	return entries
}

func (l *Ledger) load() error {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read ledger file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var file ledgerFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse ledger file: %w", err)
	}
	if file.Entries == nil {
		file.Entries = make(map[string]Entry)
	}

	l.entries = file.Entries
	l.logger.Debug("loaded conversion ledger",
		logging.Int("entry_count", len(l.entries)),
		logging.String("path", l.path))
	return nil
}

// save writes the ledger to disk atomically.
func (l *Ledger) save() error {
	file := ledgerFile{Version: ledgerVersion, Entries: l.entries}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}

	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create ledger directory: %w", err)
	}

	tmpPath := l.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, l.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
