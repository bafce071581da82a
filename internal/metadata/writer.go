package metadata

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"
	"os/exec"
	"strings"
	"time"

	"shoebox/internal/config"
	"shoebox/internal/logging"
	"shoebox/internal/services"
)

const exifDateLayout = "2006:01:02 15:04:05"

// Location is an optional GPS fix.
type Location struct {
	Latitude  float64
	Longitude float64
	Altitude  float64
}

// meaningful filters out the (0,0) null-island fix that export tools emit
// for photos without location data.
func (l Location) meaningful() bool {
	return math.Abs(l.Latitude) > 0.0001 || math.Abs(l.Longitude) > 0.0001
}

// Fields carries the metadata to embed in a file.
type Fields struct {
	// CaptureDate is written to DateTimeOriginal and CreateDate. When zero,
	// file timestamps are restored from the existing DateTimeOriginal instead.
	CaptureDate time.Time
	// ModifyDate, when set, records the later of two conflicting source
	// dates. When nil the capture date is used for all date tags.
	ModifyDate *time.Time
	Artist     string
	Location   *Location
}

// Writer embeds metadata into a media file. Apply returns the path of the
// file afterwards, which may differ when a mislabeled extension had to be
// corrected to complete the write.
type Writer interface {
	Apply(ctx context.Context, path string, fields Fields) (string, error)
}

// Exiftool is the exiftool-backed Writer.
type Exiftool struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewExiftool returns a Writer that shells out to exiftool.
func NewExiftool(cfg *config.Config, logger *slog.Logger) *Exiftool {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Exiftool{cfg: cfg, logger: logging.NewComponentLogger(logger, "metadata")}
}

// Errors that indicate the extension contradicts the file content rather
// than a real write failure.
var formatErrorMarkers = []string{
	"RIFF format error",
	"Error reading RIFF",
	"Not a valid",
}

// Args builds the exiftool argument list for a write, excluding the
// binary name.
func (e *Exiftool) Args(path string, fields Fields) []string {
	args := []string{"-overwrite_original", "-q"}

	if artist := strings.TrimSpace(fields.Artist); artist != "" {
		args = append(args, fmt.Sprintf("-Artist=%s", artist))
	}

	if !fields.CaptureDate.IsZero() {
		capture := fields.CaptureDate.Format(exifDateLayout)
		args = append(args,
			fmt.Sprintf("-DateTimeOriginal=%s", capture),
			fmt.Sprintf("-CreateDate=%s", capture),
		)
		modify := capture
		if fields.ModifyDate != nil {
			modify = fields.ModifyDate.Format(exifDateLayout)
		}
		args = append(args,
			fmt.Sprintf("-ModifyDate=%s", modify),
			fmt.Sprintf("-FileModifyDate=%s", modify),
		)
	} else {
		args = append(args,
			"-FileModifyDate<DateTimeOriginal",
		)
	}

	if loc := fields.Location; loc != nil && loc.meaningful() {
		args = append(args,
			fmt.Sprintf("-GPSLatitude=%v", loc.Latitude),
			fmt.Sprintf("-GPSLongitude=%v", loc.Longitude),
		)
		if loc.Altitude != 0 {
			args = append(args, fmt.Sprintf("-GPSAltitude=%v", loc.Altitude))
		}
	}

	return append(args, path)
}

// Apply writes the fields to the file. A format-mismatch failure triggers
// one extension fix and retry; the returned path reflects any rename.
func (e *Exiftool) Apply(ctx context.Context, path string, fields Fields) (string, error) {
	output, err := e.run(ctx, path, fields)
	if err == nil {
		return path, nil
	}

	if !isFormatError(output) {
		return path, services.Wrap(services.ErrExternalTool, "organize", "write-metadata",
			fmt.Sprintf("exiftool failed for %s: %s", path, strings.TrimSpace(output)), err)
	}

	fixed, renamed, fixErr := FixExtension(path)
	if fixErr != nil || !renamed {
		return path, services.Wrap(services.ErrExternalTool, "organize", "write-metadata",
			fmt.Sprintf("exiftool rejected %s and the extension could not be corrected", path), err)
	}

	e.logger.Info("corrected extension before metadata write",
		logging.String(logging.FieldEventType, "extension_fixed"),
		logging.String("from", path),
		logging.String("to", fixed))

	output, err = e.run(ctx, fixed, fields)
	if err != nil {
		return fixed, services.Wrap(services.ErrExternalTool, "organize", "write-metadata",
			fmt.Sprintf("exiftool failed for %s after extension fix: %s", fixed, strings.TrimSpace(output)), err)
	}
	return fixed, nil
}

func (e *Exiftool) run(ctx context.Context, path string, fields Fields) (string, error) {
	cmd := exec.CommandContext(ctx, e.cfg.ExiftoolBinary(), e.Args(path, fields)...)
	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined
	err := cmd.Run()
	return combined.String(), err
}

func isFormatError(output string) bool {
	for _, marker := range formatErrorMarkers {
		if strings.Contains(output, marker) {
			return true
		}
	}
	return false
}
