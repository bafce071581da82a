package dupes_test

import (
	"errors"
	"testing"

	"shoebox/internal/dupes"
	"shoebox/internal/identity"
	"shoebox/internal/mediaindex"
)

var opts = dupes.Options{SizeTolerance: 0.20, DurationToleranceSeconds: 1.0}

func photoRecord(path string, size int64) mediaindex.Record {
	return mediaindex.Record{
		Path: path,
		Key:  identity.Key{Base: "IMG_1234", Ext: ".jpg"},
		Size: size,
	}
}

func videoRecord(path string, size int64, duration float64) mediaindex.Record {
	return mediaindex.Record{
		Path:     path,
		Key:      identity.Key{Base: "VID_20210704_090000", Ext: ".mp4"},
		Size:     size,
		Duration: duration,
	}
}

func TestClassifyExactKeepsExisting(t *testing.T) {
	incoming := photoRecord("/incoming/IMG_1234.jpg", 1000)
	existing := photoRecord("/photos/2020/IMG_1234.jpg", 1005)

	res, err := dupes.Classify(incoming, existing, opts)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if res.Verdict != dupes.VerdictExact {
		t.Fatalf("verdict = %q, want exact", res.Verdict)
	}
	if res.Keep.Path != existing.Path {
		t.Fatalf("exact should keep the organized copy, kept %q", res.Keep.Path)
	}
	if res.Confidence != dupes.ConfidenceNormal {
		t.Fatalf("photo pair should have normal confidence, got %q", res.Confidence)
	}
}

func TestClassifySimilarFlagsInspection(t *testing.T) {
	incoming := photoRecord("/incoming/IMG_1234.jpg", 900)
	existing := photoRecord("/photos/IMG_1234.jpg", 1000)

	res, err := dupes.Classify(incoming, existing, opts)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if res.Verdict != dupes.VerdictSimilar {
		t.Fatalf("verdict = %q, want similar", res.Verdict)
	}
	if !res.InspectSuggested {
		t.Fatal("similar pairs should suggest inspection")
	}
}

func TestClassifyOnePercentBoundaryIsSimilar(t *testing.T) {
	incoming := photoRecord("/incoming/IMG_1234.jpg", 990)
	existing := photoRecord("/photos/IMG_1234.jpg", 1000)

	res, err := dupes.Classify(incoming, existing, opts)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if res.Verdict != dupes.VerdictSimilar {
		t.Fatalf("exactly 1%% delta should classify similar, got %q", res.Verdict)
	}
}

func TestClassifySignificantKeepsSmaller(t *testing.T) {
	incoming := photoRecord("/incoming/IMG_1234.jpg", 5000)
	existing := photoRecord("/photos/IMG_1234.jpg", 3000)

	res, err := dupes.Classify(incoming, existing, opts)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if res.Verdict != dupes.VerdictSignificant {
		t.Fatalf("verdict = %q, want significant-difference", res.Verdict)
	}
	if res.Keep.Size != 3000 {
		t.Fatalf("significant should keep the smaller file, kept size %d", res.Keep.Size)
	}
}

func TestClassifyBloatedReencode(t *testing.T) {
	incoming := videoRecord("/incoming/VID_20210704_090000.mp4", 100_000_000, 95.2)
	existing := videoRecord("/videos/VID_20210704_090000.mp4", 40_000_000, 95.8)

	res, err := dupes.Classify(incoming, existing, opts)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if res.Verdict != dupes.VerdictBloated {
		t.Fatalf("verdict = %q, want bloated-reencode", res.Verdict)
	}
	if res.Keep.Size != 40_000_000 {
		t.Fatalf("bloated should keep the smaller file, kept size %d", res.Keep.Size)
	}
	if res.Drop.Size != 100_000_000 {
		t.Fatalf("bloated should drop the larger file, dropped size %d", res.Drop.Size)
	}
}

func TestClassifyBloatedRequiresDurationMatch(t *testing.T) {
	// Same 2.5x size ratio but durations differ: this is different footage,
	// so it falls through to the size-delta thresholds.
	incoming := videoRecord("/incoming/VID_20210704_090000.mp4", 100_000_000, 240.0)
	existing := videoRecord("/videos/VID_20210704_090000.mp4", 40_000_000, 95.0)

	res, err := dupes.Classify(incoming, existing, opts)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if res.Verdict != dupes.VerdictSignificant {
		t.Fatalf("verdict = %q, want significant-difference", res.Verdict)
	}
}

func TestClassifyMissingDurationDowngradesConfidence(t *testing.T) {
	incoming := videoRecord("/incoming/VID_20210704_090000.mp4", 100_000_000, 0)
	existing := videoRecord("/videos/VID_20210704_090000.mp4", 40_000_000, 95.0)

	res, err := dupes.Classify(incoming, existing, opts)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if res.Confidence != dupes.ConfidenceDowngraded {
		t.Fatalf("confidence = %q, want downgraded", res.Confidence)
	}
	if res.Verdict != dupes.VerdictSignificant {
		t.Fatalf("verdict = %q, want size-only significant-difference", res.Verdict)
	}
}

func TestClassifyRejectsMismatchedKeys(t *testing.T) {
	original := photoRecord("/photos/IMG_1234.jpg", 1000)
	edited := original
	edited.Key.Edited = true

	if _, err := dupes.Classify(edited, original, opts); !errors.Is(err, dupes.ErrKeyMismatch) {
		t.Fatalf("expected ErrKeyMismatch for edited-vs-original, got %v", err)
	}
}
