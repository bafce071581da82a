package dupes

import (
	"errors"
	"fmt"
	"math"

	"shoebox/internal/mediaindex"
)

// Verdict names the relationship between two copies of the same asset.
type Verdict string

const (
	// VerdictExact: size delta under 1%. Keep either; prefer the organized copy.
	VerdictExact Verdict = "exact"
	// VerdictSimilar: size delta within the similar band. Keep either;
	// flagged for optional manual inspection.
	VerdictSimilar Verdict = "similar"
	// VerdictSignificant: large size delta. The larger copy is assumed to be
	// a redundant higher-bitrate re-export, so the smaller one is kept.
	VerdictSignificant Verdict = "significant-difference"
	// VerdictBloated: same footage (duration match) but one copy is at least
	// twice the size, typical of a cloud-export re-encode at inflated bitrate.
	VerdictBloated Verdict = "bloated-reencode"
)

// Confidence grades a classification.
type Confidence string

const (
	ConfidenceNormal Confidence = "normal"
	// ConfidenceDowngraded marks video pairs classified on size alone
	// because a duration was unavailable.
	ConfidenceDowngraded Confidence = "downgraded"
)

const (
	exactDelta       = 0.01
	bloatedSizeRatio = 2.0
)

// ErrKeyMismatch is returned for record pairs that do not share an identity
// key. Edited variants carry a distinct key from their originals, so they
// can never be classified against each other.
var ErrKeyMismatch = errors.New("records do not share an identity key")

// Options holds the configurable thresholds.
type Options struct {
	// SizeTolerance is the delta ratio separating similar from
	// significant-difference.
	SizeTolerance float64
	// DurationToleranceSeconds is the maximum duration difference for two
	// videos to count as the same footage.
	DurationToleranceSeconds float64
}

// Result is a classification outcome with a retention recommendation.
type Result struct {
	Verdict    Verdict
	Confidence Confidence
	// Keep and Drop are the recommended retention split.
	Keep mediaindex.Record
	Drop mediaindex.Record
	// InspectSuggested is set for similar pairs where neither copy is an
	// obvious keeper.
	InspectSuggested bool
	Reason           string
}

// Classify compares an incoming record against an existing archive record
// sharing the same identity key. For exact and similar pairs the existing
// copy is kept; for significant and bloated pairs the smaller copy wins.
func Classify(incoming, existing mediaindex.Record, opts Options) (Result, error) {
	if incoming.Key != existing.Key {
		return Result{}, ErrKeyMismatch
	}
	if opts.SizeTolerance <= 0 {
		opts.SizeTolerance = 0.20
	}
	if opts.DurationToleranceSeconds <= 0 {
		opts.DurationToleranceSeconds = 1.0
	}

	confidence := ConfidenceNormal
	isVideo := mediaindex.IsVideo(incoming.Path) || mediaindex.IsVideo(existing.Path)
	durationsKnown := incoming.Duration > 0 && existing.Duration > 0
	if isVideo && !durationsKnown {
		confidence = ConfidenceDowngraded
	}

	smaller, larger := incoming, existing
	if existing.Size < incoming.Size {
		smaller, larger = existing, incoming
	}

	// Bloated re-encode takes precedence: the duration match proves the
	// footage is the same even though the sizes are far apart.
	if durationsKnown &&
		math.Abs(incoming.Duration-existing.Duration) <= opts.DurationToleranceSeconds &&
		larger.Size > 0 && smaller.Size > 0 &&
		float64(larger.Size) >= bloatedSizeRatio*float64(smaller.Size) {
		return Result{
			Verdict:    VerdictBloated,
			Confidence: confidence,
			Keep:       smaller,
			Drop:       larger,
			Reason: fmt.Sprintf("duration match within %.1fs but %.1fx size",
				opts.DurationToleranceSeconds, float64(larger.Size)/float64(smaller.Size)),
		}, nil
	}

	delta := sizeDeltaRatio(incoming.Size, existing.Size)
	switch {
	case delta < exactDelta:
		return Result{
			Verdict:    VerdictExact,
			Confidence: confidence,
			Keep:       existing,
			Drop:       incoming,
			Reason:     fmt.Sprintf("size delta %.2f%%", delta*100),
		}, nil
	case delta <= opts.SizeTolerance:
		return Result{
			Verdict:          VerdictSimilar,
			Confidence:       confidence,
			Keep:             existing,
			Drop:             incoming,
			InspectSuggested: true,
			Reason:           fmt.Sprintf("size delta %.2f%%", delta*100),
		}, nil
	default:
		return Result{
			Verdict:    VerdictSignificant,
			Confidence: confidence,
			Keep:       smaller,
			Drop:       larger,
			Reason:     fmt.Sprintf("size delta %.2f%%, larger copy assumed redundant re-export", delta*100),
		}, nil
	}
}

func sizeDeltaRatio(a, b int64) float64 {
	if a == b {
		return 0
	}
	max := float64(a)
	if b > a {
		max = float64(b)
	}
	if max == 0 {
		return 0
	}
	return math.Abs(float64(a)-float64(b)) / max
}
