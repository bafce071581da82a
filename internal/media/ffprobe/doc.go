// Package ffprobe wraps the ffprobe binary to inspect media containers:
// duration, codec, resolution, bitrate, frame rate, and the embedded
// creation timestamp used as container date evidence.
package ffprobe
