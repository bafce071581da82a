package probecache_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"shoebox/internal/probecache"
)

func TestLookupHonorsFingerprint(t *testing.T) {
	dir := t.TempDir()
	cache := probecache.NewCache(filepath.Join(dir, "probe_cache.json"), nil)

	mtime := time.Date(2021, 7, 4, 12, 0, 0, 0, time.UTC)
	entry := probecache.Entry{
		Path:     "/videos/clip.avi",
		Duration: 95.2,
		Codec:    "mpeg4",
		Size:     1024,
		ModTime:  mtime,
	}
	if err := cache.Store(entry); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	got, ok := cache.Lookup("/videos/clip.avi", 1024, mtime)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.Duration != 95.2 || got.Codec != "mpeg4" {
		t.Fatalf("unexpected entry: %+v", got)
	}

	if _, ok := cache.Lookup("/videos/clip.avi", 2048, mtime); ok {
		t.Fatal("size change must invalidate the entry")
	}
	if _, ok := cache.Lookup("/videos/clip.avi", 1024, mtime.Add(time.Second)); ok {
		t.Fatal("mtime change must invalidate the entry")
	}
}

func TestCachePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "probe_cache.json")
	mtime := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	first := probecache.NewCache(path, nil)
	if err := first.Store(probecache.Entry{Path: "/v/a.mp4", Duration: 10, Size: 5, ModTime: mtime}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	second := probecache.NewCache(path, nil)
	if second.Count() != 1 {
		t.Fatalf("expected 1 entry after reload, got %d", second.Count())
	}
	if _, ok := second.Lookup("/v/a.mp4", 5, mtime); !ok {
		t.Fatal("expected hit after reload")
	}
}

func TestPruneDropsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	cache := probecache.NewCache(filepath.Join(dir, "probe_cache.json"), nil)

	existing := filepath.Join(dir, "keep.mp4")
	if err := os.WriteFile(existing, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	for _, p := range []string{existing, filepath.Join(dir, "gone.mp4")} {
		if err := cache.Store(probecache.Entry{Path: p, Size: 1, ModTime: time.Now()}); err != nil {
			t.Fatalf("Store failed: %v", err)
		}
	}

	removed, err := cache.Prune()
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 1 || cache.Count() != 1 {
		t.Fatalf("unexpected prune result: removed=%d count=%d", removed, cache.Count())
	}
}

func TestEmptyPathIsNoop(t *testing.T) {
	cache := probecache.NewCache("", nil)
	if err := cache.Store(probecache.Entry{Path: "/v/a.mp4"}); err != nil {
		t.Fatalf("Store on pathless cache should be a no-op: %v", err)
	}
	if _, ok := cache.Lookup("/v/a.mp4", 0, time.Time{}); ok {
		t.Fatal("pathless cache should never hit")
	}
	if cache.Count() != 0 {
		t.Fatalf("unexpected count: %d", cache.Count())
	}
}
