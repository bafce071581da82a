// Package organizer imports media from a source tree into the
// date-organized archive.
//
// Each file is normalized to an identity key, its capture date is resolved
// from filename, sidecar, container, and filesystem evidence, and duplicates
// are classified against the archive index. Unambiguous duplicates are
// dropped, ambiguous files land in the review directory, and everything
// else moves into the YYYY/MM layout with metadata written back via
// exiftool. Every outcome is recorded in the run journal.
package organizer
