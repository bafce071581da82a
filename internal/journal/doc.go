// Package journal persists per-file outcomes of organize and convert runs
// in SQLite so past batches can be inspected after the fact.
package journal
