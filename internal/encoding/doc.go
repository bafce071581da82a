// Package encoding decides whether a video needs conversion, selects an
// encoder profile based on content complexity, and drives ffmpeg to
// produce archival H.265 output.
package encoding
