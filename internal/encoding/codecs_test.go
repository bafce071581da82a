package encoding_test

import (
	"strings"
	"testing"

	"shoebox/internal/encoding"
)

func TestNeedsConversion(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		codec  string
		want   bool
		reason string
	}{
		{"avchd always converts", "/cam/00012.MTS", "h264", true, "AVCHD"},
		{"m2ts always converts", "/cam/00012.m2ts", "hevc", true, "AVCHD"},
		{"legacy mpeg2", "/old/tape.mpg", "mpeg2video", true, "legacy codec"},
		{"legacy h264 mp4", "/phone/VID_0001.mp4", "h264", true, "legacy codec"},
		{"already hevc", "/phone/VID_0002.mp4", "hevc", false, "already efficient"},
		{"already av1", "/web/clip.mkv", "av1", false, "already efficient"},
		{"unknown codec", "/misc/clip.mp4", "", false, "codec unknown"},
		{"unrecognized codec", "/misc/clip.mkv", "prores", false, "unrecognized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := encoding.NeedsConversion(tt.path, tt.codec)
			if got != tt.want {
				t.Fatalf("NeedsConversion(%q, %q) = %v, want %v", tt.path, tt.codec, got, tt.want)
			}
			if !strings.Contains(reason, tt.reason) {
				t.Fatalf("reason = %q, want substring %q", reason, tt.reason)
			}
		})
	}
}
