package ffprobe

import (
	"math"
	"testing"
	"time"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "audio"},
			{CodecType: "video", CodecName: "H264", Width: 1920, Height: 1080, AvgFrameRate: "30000/1001"},
		},
		Format: Format{
			Duration: "123.45",
			Size:     "1000",
			BitRate:  "32000",
		},
	}

	stream, ok := result.VideoStream()
	if !ok {
		t.Fatal("expected a video stream")
	}
	if stream.Width != 1920 || stream.Height != 1080 {
		t.Fatalf("unexpected dimensions: %dx%d", stream.Width, stream.Height)
	}
	if result.VideoCodec() != "h264" {
		t.Fatalf("unexpected codec: %q", result.VideoCodec())
	}
	if got := stream.FrameRate(); math.Abs(got-29.97) > 0.01 {
		t.Fatalf("unexpected frame rate: %v", got)
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 1000 {
		t.Fatalf("unexpected size: %d", result.SizeBytes())
	}
	if result.BitRate() != 32000 {
		t.Fatalf("unexpected bitrate: %d", result.BitRate())
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Format: Format{
			Duration: "bad",
			Size:     "-1",
			BitRate:  "nope",
		},
	}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
	if result.BitRate() != 0 {
		t.Fatalf("expected bitrate 0, got %d", result.BitRate())
	}
	if result.VideoCodec() != "" {
		t.Fatalf("expected empty codec, got %q", result.VideoCodec())
	}
}

func TestFrameRateFallsBackToRFrameRate(t *testing.T) {
	stream := Stream{AvgFrameRate: "0/0", RFrameRate: "25/1"}
	if got := stream.FrameRate(); got != 25 {
		t.Fatalf("unexpected frame rate: %v", got)
	}
}

func TestCreationTime(t *testing.T) {
	result := Result{Format: Format{Tags: map[string]string{
		"creation_time": "2021-07-04T12:00:00.000000Z",
	}}}
	got, ok := result.CreationTime()
	if !ok {
		t.Fatal("expected a creation time")
	}
	want := time.Date(2021, 7, 4, 12, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("creation time = %v, want %v", got, want)
	}

	empty := Result{}
	if _, ok := empty.CreationTime(); ok {
		t.Fatal("expected no creation time")
	}
}
