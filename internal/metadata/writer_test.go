package metadata_test

import (
	"context"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"shoebox/internal/metadata"
	"shoebox/internal/testsupport"
)

var captureDate = time.Date(2019, 6, 3, 11, 57, 16, 0, time.Local)

func TestArgsSingleDate(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	w := metadata.NewExiftool(cfg, nil)

	args := w.Args("/photos/IMG_1234.jpg", metadata.Fields{CaptureDate: captureDate})
	want := []string{
		"-overwrite_original", "-q",
		"-DateTimeOriginal=2019:06:03 11:57:16",
		"-CreateDate=2019:06:03 11:57:16",
		"-ModifyDate=2019:06:03 11:57:16",
		"-FileModifyDate=2019:06:03 11:57:16",
		"/photos/IMG_1234.jpg",
	}
	if !slices.Equal(args, want) {
		t.Fatalf("args mismatch:\n got %v\nwant %v", args, want)
	}
}

func TestArgsConflictingDatesSplitTags(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	w := metadata.NewExiftool(cfg, nil)

	later := captureDate.AddDate(0, 1, 0)
	args := w.Args("/photos/IMG_1234.jpg", metadata.Fields{
		CaptureDate: captureDate,
		ModifyDate:  &later,
	})

	if !slices.Contains(args, "-DateTimeOriginal=2019:06:03 11:57:16") {
		t.Fatalf("capture date missing: %v", args)
	}
	if !slices.Contains(args, "-FileModifyDate=2019:07:03 11:57:16") {
		t.Fatalf("later modify date missing: %v", args)
	}
}

func TestArgsZeroDateRestoresFromExisting(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	w := metadata.NewExiftool(cfg, nil)

	args := w.Args("/photos/IMG_1234.jpg", metadata.Fields{})
	if !slices.Contains(args, "-FileModifyDate<DateTimeOriginal") {
		t.Fatalf("expected restore-from-existing tag, got %v", args)
	}
	for _, a := range args {
		if len(a) > 18 && a[:18] == "-DateTimeOriginal=" {
			t.Fatalf("zero capture date must not write DateTimeOriginal: %v", args)
		}
	}
}

func TestArgsFiltersNullIslandGPS(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	w := metadata.NewExiftool(cfg, nil)

	args := w.Args("/photos/IMG_1234.jpg", metadata.Fields{
		CaptureDate: captureDate,
		Location:    &metadata.Location{Latitude: 0, Longitude: 0},
	})
	for _, a := range args {
		if len(a) >= 4 && a[:4] == "-GPS" {
			t.Fatalf("(0,0) location must be dropped, got %v", args)
		}
	}

	args = w.Args("/photos/IMG_1234.jpg", metadata.Fields{
		CaptureDate: captureDate,
		Location:    &metadata.Location{Latitude: 37.7749, Longitude: -122.4194, Altitude: 16},
	})
	if !slices.Contains(args, "-GPSLatitude=37.7749") ||
		!slices.Contains(args, "-GPSLongitude=-122.4194") ||
		!slices.Contains(args, "-GPSAltitude=16") {
		t.Fatalf("expected GPS tags, got %v", args)
	}
}

func TestArgsIncludesArtist(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	w := metadata.NewExiftool(cfg, nil)

	args := w.Args("/photos/IMG_1234_Clif.jpg", metadata.Fields{
		CaptureDate: captureDate,
		Artist:      "Clif",
	})
	if !slices.Contains(args, "-Artist=Clif") {
		t.Fatalf("expected artist tag, got %v", args)
	}
}

func TestApplySucceedsWithStubbedExiftool(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries("exiftool"))
	w := metadata.NewExiftool(cfg, nil)

	path := filepath.Join(t.TempDir(), "IMG_1234.jpg")
	testsupport.WriteFileBytes(t, path, jpegHeader)

	got, err := w.Apply(context.Background(), path, metadata.Fields{CaptureDate: captureDate})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if got != path {
		t.Fatalf("path should be unchanged on success, got %q", got)
	}
}
