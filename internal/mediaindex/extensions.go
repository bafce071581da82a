package mediaindex

import (
	"path/filepath"
	"strings"
)

var photoExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".bmp": {},
	".heic": {}, ".heif": {}, ".webp": {}, ".tiff": {},
}

var videoExtensions = map[string]struct{}{
	".mp4": {}, ".mov": {}, ".avi": {}, ".mkv": {}, ".m4v": {},
	".3gp": {}, ".wmv": {}, ".mpg": {}, ".mpeg": {}, ".mts": {},
}

// IsPhoto reports whether the path carries a recognized photo extension.
func IsPhoto(path string) bool {
	_, ok := photoExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// IsVideo reports whether the path carries a recognized video extension.
func IsVideo(path string) bool {
	_, ok := videoExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// IsMedia reports whether the path is a recognized photo or video.
func IsMedia(path string) bool {
	return IsPhoto(path) || IsVideo(path)
}
