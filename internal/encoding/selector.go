package encoding

import "fmt"

// Profile names an encoder configuration.
type Profile string

const (
	// ProfileHighComplexity uses software libx265: slower, but it preserves
	// noisy or grainy footage that hardware encoders visibly smear.
	ProfileHighComplexity Profile = "high-complexity"
	// ProfileStandard uses the hardware HEVC encoder for clean footage.
	ProfileStandard Profile = "standard"
)

// defaultFrameRate is assumed when the container does not report one.
// Consumer camcorder footage is overwhelmingly 30fps.
const defaultFrameRate = 30.0

// Clip carries the probed properties the selector needs.
type Clip struct {
	Width     int
	Height    int
	BitRate   int64 // bits per second
	FrameRate float64
}

// SelectorOptions holds the selection thresholds.
type SelectorOptions struct {
	// DensityThreshold is the bits-per-pixel-per-frame value above which a
	// clip is treated as high complexity.
	DensityThreshold float64
	// ForceHighComplexity selects the software profile unconditionally.
	ForceHighComplexity bool
}

// Selection is a profile decision with the evidence behind it.
type Selection struct {
	Profile Profile
	// Density is the computed bits-per-pixel-per-frame, 0 when the clip
	// could not be analyzed.
	Density float64
	Reason  string
}

// Select picks an encoder profile for a clip. Complexity is measured as
// bits per pixel per frame: noise and grain resist compression, so noisy
// footage carries a higher bitrate for its resolution than clean footage.
func Select(clip Clip, opts SelectorOptions) Selection {
	if opts.DensityThreshold <= 0 {
		opts.DensityThreshold = 0.17
	}
	if opts.ForceHighComplexity {
		return Selection{Profile: ProfileHighComplexity, Reason: "forced by configuration"}
	}

	pixels := clip.Width * clip.Height
	if clip.BitRate <= 0 || pixels <= 0 {
		// Unanalyzable clips take the faster encoder.
		return Selection{Profile: ProfileStandard, Reason: "could not analyze"}
	}

	fps := clip.FrameRate
	if fps <= 0 {
		fps = defaultFrameRate
	}

	density := float64(clip.BitRate) / float64(pixels) / fps
	if density > opts.DensityThreshold {
		return Selection{
			Profile: ProfileHighComplexity,
			Density: density,
			Reason:  fmt.Sprintf("high complexity (%.3f bpp > %v)", density, opts.DensityThreshold),
		}
	}
	return Selection{
		Profile: ProfileStandard,
		Density: density,
		Reason:  fmt.Sprintf("normal complexity (%.3f bpp)", density),
	}
}
