package fileutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"shoebox/internal/fileutil"
)

func TestCopyFileVerified(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	payload := []byte("shoebox payload for copy verification")
	if err := os.WriteFile(src, payload, 0o644); err != nil {
		t.Fatalf("write src: %v", err)
	}

	if err := fileutil.CopyFileVerified(src, dst); err != nil {
		t.Fatalf("CopyFileVerified failed: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read dst: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("copied content mismatch: %q", got)
	}
}

func TestMoveFileCreatesDestinationDir(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "clip.mp4")
	dst := filepath.Join(dir, "2021", "07 July", "clip.mp4")
	if err := os.WriteFile(src, []byte("video"), 0o644); err != nil {
		t.Fatalf("write src: %v", err)
	}

	if err := fileutil.MoveFile(src, dst); err != nil {
		t.Fatalf("MoveFile failed: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatal("source should be gone after move")
	}
	if _, err := os.Stat(dst); err != nil {
		t.Fatalf("destination missing: %v", err)
	}
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "IMG_1234.jpg")

	got, err := fileutil.UniquePath(path)
	if err != nil {
		t.Fatalf("UniquePath failed: %v", err)
	}
	if got != path {
		t.Fatalf("free path should be returned unchanged, got %q", got)
	}

	if err := os.WriteFile(path, []byte("a"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err = fileutil.UniquePath(path)
	if err != nil {
		t.Fatalf("UniquePath failed: %v", err)
	}
	if got != filepath.Join(dir, "IMG_1234_1.jpg") {
		t.Fatalf("unexpected variant: %q", got)
	}

	if err := os.WriteFile(got, []byte("b"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err = fileutil.UniquePath(path)
	if err != nil {
		t.Fatalf("UniquePath failed: %v", err)
	}
	if got != filepath.Join(dir, "IMG_1234_2.jpg") {
		t.Fatalf("unexpected second variant: %q", got)
	}
}
