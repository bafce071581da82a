// Package converter re-encodes legacy camcorder and phone video into
// archival H.265.
//
// Each source clip passes a codec gate, has its capture date resolved, and
// is checked against the conversion ledger and the archive index so the
// same footage arriving from a second backup source is never encoded
// twice. Surviving clips are routed to a software or hardware encoder
// profile based on content complexity.
package converter
