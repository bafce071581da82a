package services

import (
	"errors"
	"fmt"
	"strings"

	"shoebox/internal/journal"
)

var (
	// ErrMissingEvidence marks files with no usable capture-date source.
	// These are routed to the review directory, never dated as "today".
	ErrMissingEvidence = errors.New("missing date evidence")
	// ErrDateConflict marks sidecar timestamps that disagree beyond
	// tolerance with no filename tiebreaker.
	ErrDateConflict = errors.New("date conflict")
	// ErrIdentityCollision marks two records sharing an identity key with
	// ambiguous precedence.
	ErrIdentityCollision = errors.New("identity collision")
	// ErrIndexStale marks a query against an index that predates a bulk
	// mutation. Fatal to the requesting operation.
	ErrIndexStale = errors.New("media index stale")
	// ErrExternalTool marks metadata-writer or transcoder failures.
	ErrExternalTool = errors.New("external tool error")
	// ErrValidation marks inputs the engine refuses to act on.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks unusable configuration.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later status classification. The marker should
// be one of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// FailureStatus maps a stage error to the journal status recorded for the
// file after the stage fails. Ambiguity routes to review; everything else
// is a recorded failure.
func FailureStatus(err error) journal.Status {
	switch {
	case errors.Is(err, ErrMissingEvidence),
		errors.Is(err, ErrDateConflict),
		errors.Is(err, ErrIdentityCollision),
		errors.Is(err, ErrValidation):
		return journal.StatusReview
	default:
		return journal.StatusFailed
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "engine failure"
	}
	return strings.Join(parts, ": ")
}
