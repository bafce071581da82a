package mediaindex

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"shoebox/internal/datesolver"
	"shoebox/internal/identity"
	"shoebox/internal/logging"
)

// ErrStale is returned for queries against an index that predates a bulk
// mutation. Callers must Rebuild before querying again.
var ErrStale = errors.New("media index is stale")

// Record is one known on-disk file in the organized archive.
type Record struct {
	Path        string
	Key         identity.Key
	Attribution string
	Size        int64
	ModTime     time.Time
	// Duration in seconds, 0 when unknown. Populated lazily by callers that
	// probe videos; the scan itself never opens files.
	Duration float64
}

// Index maps canonical identity keys to archive records.
type Index struct {
	logger *slog.Logger
	roots  []string
	tokens []string

	mu      sync.RWMutex
	byKey   map[identity.Key][]Record
	byStamp map[time.Time][]Record
	stale   bool
	built   bool
}

// New creates an index over the given archive roots. tokens lists configured
// attribution tokens passed through to identity normalization.
func New(logger *slog.Logger, tokens []string, roots ...string) *Index {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Index{
		logger:  logging.NewComponentLogger(logger, "mediaindex"),
		roots:   roots,
		tokens:  tokens,
		byKey:   make(map[identity.Key][]Record),
		byStamp: make(map[time.Time][]Record),
		stale:   true,
	}
}

// Build walks every root and indexes all media files. Missing roots are
// skipped so a fresh archive starts empty rather than failing.
func (ix *Index) Build(ctx context.Context) error {
	byKey := make(map[identity.Key][]Record)
	byStamp := make(map[time.Time][]Record)
	count := 0

	for _, root := range ix.roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if d == nil {
					// Root itself is missing.
					return fs.SkipAll
				}
				return err
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if d.IsDir() || !IsMedia(path) {
				return nil
			}

			info, err := d.Info()
			if err != nil {
				return err
			}
			record := Record{
				Path:    path,
				Size:    info.Size(),
				ModTime: info.ModTime(),
			}
			id := identity.Normalize(d.Name(), ix.tokens)
			record.Key = id.Key
			record.Attribution = id.Attribution

			byKey[record.Key] = append(byKey[record.Key], record)
			if stamp, ok := datesolver.FromFilename(d.Name()); ok {
				byStamp[stamp] = append(byStamp[stamp], record)
			}
			count++
			return nil
		})
		if err != nil {
			return err
		}
	}

	ix.mu.Lock()
	ix.byKey = byKey
	ix.byStamp = byStamp
	ix.stale = false
	ix.built = true
	ix.mu.Unlock()

	ix.logger.Debug("index built",
		logging.Int("files", count),
		logging.Int("keys", len(byKey)))
	return nil
}

// Rebuild re-scans the archive, clearing any staleness.
func (ix *Index) Rebuild(ctx context.Context) error {
	return ix.Build(ctx)
}

// MarkStale flags the index after a bulk mutation. Subsequent queries fail
// with ErrStale until Rebuild runs.
func (ix *Index) MarkStale() {
	ix.mu.Lock()
	ix.stale = true
	ix.mu.Unlock()
}

// Add registers a record placed into the archive after Build, keeping the
// index current across a batch without a full rescan.
func (ix *Index) Add(rec Record) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.byKey[rec.Key] = append(ix.byKey[rec.Key], rec)
	if stamp, ok := datesolver.FromFilename(filepath.Base(rec.Path)); ok {
		ix.byStamp[stamp] = append(ix.byStamp[stamp], rec)
	}
}

// Lookup returns all records sharing the identity key.
func (ix *Index) Lookup(key identity.Key) ([]Record, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if ix.stale {
		return nil, ErrStale
	}
	records := ix.byKey[key]
	cp := make([]Record, len(records))
	copy(cp, records)
	return cp, nil
}

// Contains reports whether any record shares the identity key.
func (ix *Index) Contains(key identity.Key) (bool, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if ix.stale {
		return false, ErrStale
	}
	_, ok := ix.byKey[key]
	return ok, nil
}

// LookupStamp returns records whose filenames embed the given timestamp.
// The converter uses this to match a source clip against an already
// organized copy by capture time.
func (ix *Index) LookupStamp(stamp time.Time) ([]Record, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if ix.stale {
		return nil, ErrStale
	}
	records := ix.byStamp[stamp]
	cp := make([]Record, len(records))
	copy(cp, records)
	return cp, nil
}

// Stats summarizes index contents.
type Stats struct {
	Files  int
	Keys   int
	Stamps int
	Stale  bool
}

// Stats returns current index counters. Unlike queries it never fails on a
// stale index; the staleness is part of the answer.
func (ix *Index) Stats() Stats {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	files := 0
	for _, records := range ix.byKey {
		files += len(records)
	}
	return Stats{
		Files:  files,
		Keys:   len(ix.byKey),
		Stamps: len(ix.byStamp),
		Stale:  ix.stale,
	}
}
