// Command shoebox consolidates photo and video collections into a
// date-organized archive: organize imports and deduplicates media,
// convert re-encodes legacy video, and the index, ledger, and journal
// subcommands inspect the archive's bookkeeping.
package main
