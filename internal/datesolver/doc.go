// Package datesolver derives an authoritative capture date for a media file
// from noisy, partially-missing evidence: embedded filename timestamps,
// sidecar metadata, container metadata, and filesystem timestamps.
//
// Filename evidence is checked first and short-circuits everything else.
// Sidecar timestamps are reconciled within a calendar-month tolerance;
// irreconcilable pairs produce a dual-date result rather than a guess.
// Files with no usable evidence are flagged for manual review, never dated
// as "today".
package datesolver
