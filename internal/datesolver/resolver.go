package datesolver

import (
	"errors"
	"time"
)

// ErrNoEvidence is returned when a file carries no usable date evidence at
// all. Callers route such files to manual review.
var ErrNoEvidence = errors.New("no usable date evidence")

// Source names the evidence class a resolution came from.
type Source string

const (
	SourceFilename   Source = "filename"
	SourceSidecar    Source = "sidecar"
	SourceContainer  Source = "container"
	SourceFilesystem Source = "filesystem"
)

// Confidence grades how trustworthy a resolution is.
type Confidence string

const (
	// ConfidenceExact means the date was embedded in the filename.
	ConfidenceExact Confidence = "exact"
	// ConfidenceReconciled means sidecar timestamps agreed within tolerance.
	ConfidenceReconciled Confidence = "reconciled"
	// ConfidenceContainer means container metadata supplied the date.
	ConfidenceContainer Confidence = "container"
	// ConfidenceInferred means only the filesystem mtime was available.
	ConfidenceInferred Confidence = "inferred"
)

// Evidence collects every date source known for one file. Absent sources
// stay nil.
type Evidence struct {
	// Filename is the file's base name, scanned for embedded timestamps.
	Filename string
	// SidecarTaken is the sidecar's earliest-claimed capture time.
	SidecarTaken *time.Time
	// SidecarCreated is the sidecar's device-claimed creation time.
	SidecarCreated *time.Time
	// Container is the capture time embedded in the media container.
	Container *time.Time
	// ModTime is the filesystem modification time.
	ModTime *time.Time
}

// Resolution is the outcome of resolving one file's evidence.
type Resolution struct {
	Date time.Time
	// ModifyDate is set only for dual-date results: sidecar timestamps that
	// disagreed beyond tolerance, where the later value is preserved as a
	// secondary modification date.
	ModifyDate *time.Time
	Source     Source
	Confidence Confidence
	// Conflict is true when sidecar timestamps disagreed beyond tolerance
	// and no filename evidence existed to break the tie.
	Conflict bool
	// NeedsReview is true when the date is too weak to organize by
	// silently (filesystem fallback).
	NeedsReview bool
}

// Resolve runs the evidence through the resolver states in order: filename
// pattern, sidecar reconciliation, container fallback, filesystem fallback.
// toleranceMonths is the calendar-month window within which two sidecar
// timestamps count as agreeing.
func Resolve(ev Evidence, toleranceMonths int) (Resolution, error) {
	// Filename evidence is authoritative and skips sidecar parsing entirely.
	if date, ok := FromFilename(ev.Filename); ok {
		return Resolution{Date: date, Source: SourceFilename, Confidence: ConfidenceExact}, nil
	}

	if ev.SidecarTaken != nil || ev.SidecarCreated != nil {
		return resolveSidecar(ev, toleranceMonths), nil
	}

	if ev.Container != nil {
		return Resolution{Date: *ev.Container, Source: SourceContainer, Confidence: ConfidenceContainer}, nil
	}

	if ev.ModTime != nil {
		return Resolution{
			Date:        *ev.ModTime,
			Source:      SourceFilesystem,
			Confidence:  ConfidenceInferred,
			NeedsReview: true,
		}, nil
	}

	return Resolution{}, ErrNoEvidence
}

func resolveSidecar(ev Evidence, toleranceMonths int) Resolution {
	if ev.SidecarTaken == nil {
		return Resolution{Date: *ev.SidecarCreated, Source: SourceSidecar, Confidence: ConfidenceReconciled}
	}
	if ev.SidecarCreated == nil {
		return Resolution{Date: *ev.SidecarTaken, Source: SourceSidecar, Confidence: ConfidenceReconciled}
	}

	taken, created := *ev.SidecarTaken, *ev.SidecarCreated
	if WithinTolerance(taken, created, toleranceMonths) {
		return Resolution{
			Date:       earlierOf(taken, created),
			Source:     SourceSidecar,
			Confidence: ConfidenceReconciled,
		}
	}

	// Dual date: keep both. The earlier value becomes the capture date and
	// the later one is preserved as a modification date. This state is only
	// reachable without filename evidence, so the conflict stands.
	later := laterOf(taken, created)
	return Resolution{
		Date:       earlierOf(taken, created),
		ModifyDate: &later,
		Source:     SourceSidecar,
		Confidence: ConfidenceReconciled,
		Conflict:   true,
	}
}
