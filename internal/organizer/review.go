package organizer

import (
	"os"
	"path/filepath"

	"shoebox/internal/fileutil"
	"shoebox/internal/logging"
	"shoebox/internal/services"
)

// moveToReview places a file in the review holding area under its own name,
// suffixing on collision. Review never overwrites and never deletes.
func (o *Organizer) moveToReview(src, reason string) (string, error) {
	reviewDir := o.cfg.Paths.ReviewDir
	if err := os.MkdirAll(reviewDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "organize", "ensure review dir",
			"failed to create review directory", err)
	}

	target, err := fileutil.UniquePath(filepath.Join(reviewDir, filepath.Base(src)))
	if err != nil {
		return "", services.Wrap(nil, "organize", "allocate review name",
			"unable to allocate review filename", err)
	}
	if err := fileutil.MoveFile(src, target); err != nil {
		return "", services.Wrap(nil, "organize", "move to review",
			"failed to move file into review directory", err)
	}

	o.logger.Info("routed to review",
		logging.String(logging.FieldEventType, "review_routed"),
		logging.String("source", src),
		logging.String("target", target),
		logging.String("reason", reason))
	return target, nil
}
