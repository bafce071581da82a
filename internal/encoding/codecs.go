package encoding

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Legacy codecs that benefit from re-encoding to H.265.
var convertCodecs = map[string]struct{}{
	"mpeg2video": {},
	"h264":       {},
	"avc":        {},
	"mpeg4":      {},
	"mjpeg":      {},
	"wmv3":       {},
	"vc1":        {},
}

// Codecs already at or beyond H.265 efficiency. Re-encoding these only
// loses quality.
var skipCodecs = map[string]struct{}{
	"hevc": {},
	"h265": {},
	"av1":  {},
	"vp9":  {},
}

// NeedsConversion reports whether a video should be re-encoded, with a
// human-readable reason. AVCHD containers are always converted regardless
// of codec: the .mts wrapper itself is the problem for modern players.
func NeedsConversion(path, codec string) (bool, string) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mts", ".m2ts":
		return true, "AVCHD format"
	}

	codec = strings.ToLower(strings.TrimSpace(codec))
	if codec == "" {
		return false, "codec unknown"
	}
	if _, ok := skipCodecs[codec]; ok {
		return false, fmt.Sprintf("already efficient codec (%s)", codec)
	}
	if _, ok := convertCodecs[codec]; ok {
		return true, fmt.Sprintf("legacy codec (%s)", codec)
	}
	return false, fmt.Sprintf("unrecognized codec (%s)", codec)
}
