// Package metadata writes resolved capture dates and location data into
// media files via exiftool, and detects a file's real format from its
// magic bytes so mislabeled extensions can be corrected before writing.
package metadata
