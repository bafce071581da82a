// Package probecache memoizes ffprobe results so repeated runs over large
// archives skip re-probing unchanged files. Entries are invalidated by an
// mtime+size fingerprint.
package probecache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"shoebox/internal/logging"
)

// Entry is one cached probe result, fingerprinted by the file's mtime and size.
type Entry struct {
	Path      string    `json:"path"`
	Duration  float64   `json:"duration"`
	Codec     string    `json:"codec"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	BitRate   int64     `json:"bit_rate"`
	FrameRate float64   `json:"frame_rate"`
	// Capture is the container's embedded creation timestamp, if the
	// probe found one.
	Capture  *time.Time `json:"capture,omitempty"`
	Size     int64      `json:"size"`
	ModTime  time.Time  `json:"mtime"`
	CachedAt time.Time  `json:"cached_at"`
}

// Cache provides thread-safe access to the probe cache.
type Cache struct {
	path    string
	logger  *slog.Logger
	mu      sync.RWMutex
	entries map[string]Entry // keyed by file path
}

// NewCache creates a new cache instance. If path is empty, the cache will be
// non-functional (all operations become no-ops). The cache file is created
// lazily on first Store call.
func NewCache(path string, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "probecache")

	c := &Cache{
		path:    path,
		logger:  logger,
		entries: make(map[string]Entry),
	}

	if path == "" {
		return c
	}

	if err := c.load(); err != nil {
		logger.Warn("failed to load probe cache",
			logging.String(logging.FieldEventType, "probecache_load_failed"),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "cache will start empty"),
			logging.String(logging.FieldImpact, "files will be re-probed"))
	}

	return c
}

// Lookup returns the cached entry for a file when its mtime and size still
// match the fingerprint recorded at store time.
func (c *Cache) Lookup(path string, size int64, modTime time.Time) (Entry, bool) {
	path = strings.TrimSpace(path)
	if path == "" || c.path == "" {
		return Entry{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, found := c.entries[path]
	if !found {
		return Entry{}, false
	}
	if entry.Size != size || !entry.ModTime.Equal(modTime) {
		return Entry{}, false
	}
	return entry, true
}

// Store adds or updates an entry in the cache and persists to disk.
func (c *Cache) Store(entry Entry) error {
	entry.Path = strings.TrimSpace(entry.Path)
	if entry.Path == "" {
		return errors.New("entry path cannot be empty")
	}
	if c.path == "" {
		return nil
	}
	if entry.CachedAt.IsZero() {
		entry.CachedAt = time.Now().UTC()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[entry.Path] = entry

	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}

	c.logger.Debug("cached probe result",
		logging.String("path", entry.Path),
		logging.Float64("duration", entry.Duration),
		logging.String("codec", entry.Codec))

	return nil
}

// Remove deletes an entry by path and persists the change.
func (c *Cache) Remove(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("entry path cannot be empty")
	}
	if c.path == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[path]; !exists {
		return fmt.Errorf("path %q not found in cache", path)
	}

	delete(c.entries, path)

	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}
	return nil
}

// Prune drops entries whose files no longer exist and persists the result.
func (c *Cache) Prune() (int, error) {
	if c.path == "" {
		return 0, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for path := range c.entries {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			delete(c.entries, path)
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}

	if err := c.save(); err != nil {
		return removed, fmt.Errorf("persist cache: %w", err)
	}

	c.logger.Debug("pruned probe cache", logging.Int("removed", removed))
	return removed, nil
}

// Clear removes all entries and persists the empty cache.
func (c *Cache) Clear() error {
	if c.path == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]Entry)

	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}
	return nil
}

// Count returns the number of entries in the cache.
func (c *Cache) Count() int {
	if c.path == "" {
		return 0
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

func (c *Cache) load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read cache file: %w", err)
	}

	if len(data) == 0 {
		return nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse cache file: %w", err)
	}

	c.entries = make(map[string]Entry, len(entries))
	for _, entry := range entries {
		if strings.TrimSpace(entry.Path) != "" {
			c.entries[entry.Path] = entry
		}
	}

	c.logger.Debug("loaded probe cache",
		logging.Int("entry_count", len(c.entries)),
		logging.String("path", c.path))

	return nil
}

// save writes the cache to disk atomically.
func (c *Cache) save() error {
	entries := make([]Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		entries = append(entries, entry)
	}

	// Sort for deterministic output
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
