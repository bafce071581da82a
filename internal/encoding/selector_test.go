package encoding_test

import (
	"math"
	"strings"
	"testing"

	"shoebox/internal/encoding"
)

func TestSelectHighComplexity(t *testing.T) {
	// Grainy Hi8 transfer: 16.4 Mbps at 1080p is far above what clean
	// footage needs.
	sel := encoding.Select(encoding.Clip{
		Width:     1920,
		Height:    1080,
		BitRate:   16_400_000,
		FrameRate: 30,
	}, encoding.SelectorOptions{DensityThreshold: 0.17})

	if sel.Profile != encoding.ProfileHighComplexity {
		t.Fatalf("profile = %q, want high-complexity", sel.Profile)
	}
	if math.Abs(sel.Density-0.2636) > 0.0005 {
		t.Fatalf("density = %.4f, want ~0.2636", sel.Density)
	}
	if !strings.Contains(sel.Reason, "high complexity") {
		t.Fatalf("reason = %q", sel.Reason)
	}
}

func TestSelectStandard(t *testing.T) {
	sel := encoding.Select(encoding.Clip{
		Width:     1440,
		Height:    1080,
		BitRate:   6_700_000,
		FrameRate: 30,
	}, encoding.SelectorOptions{DensityThreshold: 0.17})

	if sel.Profile != encoding.ProfileStandard {
		t.Fatalf("profile = %q, want standard", sel.Profile)
	}
	if math.Abs(sel.Density-0.1436) > 0.0005 {
		t.Fatalf("density = %.4f, want ~0.1436", sel.Density)
	}
}

func TestSelectAssumesThirtyFPSWhenUnknown(t *testing.T) {
	with := encoding.Select(encoding.Clip{Width: 1920, Height: 1080, BitRate: 16_400_000, FrameRate: 30}, encoding.SelectorOptions{})
	without := encoding.Select(encoding.Clip{Width: 1920, Height: 1080, BitRate: 16_400_000}, encoding.SelectorOptions{})
	if with.Density != without.Density {
		t.Fatalf("unknown frame rate should assume 30fps: %.4f vs %.4f", with.Density, without.Density)
	}
}

func TestSelectUnanalyzableFallsBackToStandard(t *testing.T) {
	sel := encoding.Select(encoding.Clip{Width: 1920, Height: 1080}, encoding.SelectorOptions{})
	if sel.Profile != encoding.ProfileStandard {
		t.Fatalf("profile = %q, want standard for missing bitrate", sel.Profile)
	}
	if sel.Density != 0 {
		t.Fatalf("density should be zero when unanalyzable, got %.4f", sel.Density)
	}
}

func TestSelectForceOverridesDensity(t *testing.T) {
	sel := encoding.Select(encoding.Clip{
		Width:     1440,
		Height:    1080,
		BitRate:   6_700_000,
		FrameRate: 30,
	}, encoding.SelectorOptions{ForceHighComplexity: true})

	if sel.Profile != encoding.ProfileHighComplexity {
		t.Fatalf("profile = %q, want forced high-complexity", sel.Profile)
	}
}
