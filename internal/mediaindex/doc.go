// Package mediaindex maintains an in-memory index of the organized archive:
// canonical identity key to on-disk records, plus a secondary index from
// filename-embedded timestamps used by the converter. The index is rebuilt
// from a full scan after each bulk mutation; queries against a stale index
// fail loudly instead of returning outdated answers.
package mediaindex
