package journal

import (
	"strings"
	"time"
)

// Status records the final outcome for a single file within a run.
type Status string

const (
	StatusOrganized Status = "organized"
	StatusConverted Status = "converted"
	StatusDuplicate Status = "duplicate"
	StatusSkipped   Status = "skipped"
	StatusReview    Status = "review"
	StatusFailed    Status = "failed"
)

// Operation identifies the run type that produced a journal entry.
type Operation string

const (
	OpOrganize Operation = "organize"
	OpConvert  Operation = "convert"
)

var allStatuses = []Status{
	StatusOrganized,
	StatusConverted,
	StatusDuplicate,
	StatusSkipped,
	StatusReview,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// Item is one journal row: what happened to one source file during a run.
type Item struct {
	ID         int64
	BatchID    string
	Operation  Operation
	SourcePath string
	DestPath   string
	Status     Status
	Detail     string
	CreatedAt  time.Time
}

// BatchSummary aggregates per-status counts for a single run.
type BatchSummary struct {
	BatchID   string
	Operation Operation
	StartedAt time.Time
	Total     int
	Counts    map[Status]int
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}
