package organizer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"shoebox/internal/config"
	"shoebox/internal/datesolver"
	"shoebox/internal/dupes"
	"shoebox/internal/fileutil"
	"shoebox/internal/identity"
	"shoebox/internal/journal"
	"shoebox/internal/logging"
	"shoebox/internal/media/ffprobe"
	"shoebox/internal/mediaindex"
	"shoebox/internal/metadata"
	"shoebox/internal/services"
)

// probeMedia is swappable in tests.
var probeMedia = ffprobe.Inspect

// Organizer imports media files into the archive.
type Organizer struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *journal.Store
	index  *mediaindex.Index
	writer metadata.Writer
	dryRun bool
}

// Summary aggregates the outcomes of one import batch.
type Summary struct {
	BatchID string
	Total   int
	Counts  map[journal.Status]int
}

// New constructs an organizer. The index must cover the archive roots the
// organizer places files into.
func New(cfg *config.Config, store *journal.Store, index *mediaindex.Index, writer metadata.Writer, logger *slog.Logger) *Organizer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Organizer{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "organizer"),
		store:  store,
		index:  index,
		writer: writer,
	}
}

// SetDryRun makes the organizer report every decision without mutating
// anything: no moves, no deletions, no metadata writes, no journal rows.
func (o *Organizer) SetDryRun(enabled bool) {
	o.dryRun = enabled
}

// Run imports every media file under sourceDir.
func (o *Organizer) Run(ctx context.Context, sourceDir string) (*Summary, error) {
	info, err := os.Stat(sourceDir)
	if err != nil || !info.IsDir() {
		return nil, services.Wrap(services.ErrValidation, "organize", "validate source",
			fmt.Sprintf("source directory %s is not accessible", sourceDir), err)
	}

	if err := o.index.Build(ctx); err != nil {
		return nil, services.Wrap(services.ErrIndexStale, "organize", "build index",
			"failed to index the archive", err)
	}

	summary := &Summary{
		BatchID: uuid.NewString(),
		Counts:  make(map[journal.Status]int),
	}
	o.logger.Info("starting import batch",
		logging.String(logging.FieldEventType, "batch_start"),
		logging.String("batch_id", summary.BatchID),
		logging.String("source", sourceDir),
		logging.Bool("dry_run", o.dryRun))

	walkErr := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !mediaindex.IsMedia(path) {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		status, dest, detail := o.processFile(ctx, path)
		summary.Total++
		summary.Counts[status]++

		if o.dryRun {
			return nil
		}
		_, recErr := o.store.Record(ctx, &journal.Item{
			BatchID:    summary.BatchID,
			Operation:  journal.OpOrganize,
			SourcePath: path,
			DestPath:   dest,
			Status:     status,
			Detail:     detail,
		})
		return recErr
	})
	if walkErr != nil {
		return summary, services.Wrap(nil, "organize", "walk source",
			"import batch aborted", walkErr)
	}

	o.logger.Info("import batch finished",
		logging.String(logging.FieldEventType, "batch_done"),
		logging.String("batch_id", summary.BatchID),
		logging.Int("total", summary.Total),
		logging.Int("organized", summary.Counts[journal.StatusOrganized]),
		logging.Int("duplicates", summary.Counts[journal.StatusDuplicate]),
		logging.Int("review", summary.Counts[journal.StatusReview]),
		logging.Int("failed", summary.Counts[journal.StatusFailed]))
	return summary, nil
}

// processFile decides and executes the outcome for a single media file.
func (o *Organizer) processFile(ctx context.Context, path string) (journal.Status, string, string) {
	name := filepath.Base(path)
	id := identity.Normalize(name, o.cfg.Organize.AttributionTokens)

	info, err := os.Stat(path)
	if err != nil {
		return journal.StatusFailed, "", fmt.Sprintf("stat: %v", err)
	}

	evidence, sidecarPath, location, duration := o.gatherEvidence(ctx, path, info.ModTime())

	resolution, err := datesolver.Resolve(evidence, o.cfg.Dedup.SidecarConflictMonths)
	if err != nil {
		return o.routeToReview(path, "no capture date evidence")
	}

	incoming := mediaindex.Record{
		Path:        path,
		Key:         id.Key,
		Attribution: id.Attribution,
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		Duration:    duration,
	}

	if status, dest, detail, handled := o.resolveDuplicate(ctx, incoming); handled {
		if status == journal.StatusDuplicate && dest == "" && !o.dryRun {
			// Unambiguous duplicate: the archive copy wins, the import copy
			// and its sidecar go away.
			if err := os.Remove(path); err != nil {
				return journal.StatusFailed, "", fmt.Sprintf("remove duplicate: %v", err)
			}
			o.removeSidecar(sidecarPath)
		}
		return status, dest, detail
	}

	if resolution.NeedsReview {
		return o.routeToReview(path, fmt.Sprintf("low-confidence capture date (%s)", resolution.Source))
	}

	dest, err := o.place(path, id, resolution.Date)
	if err != nil {
		return journal.StatusFailed, "", err.Error()
	}
	if o.dryRun {
		return journal.StatusOrganized, dest, "dry run"
	}

	fields := metadata.Fields{
		CaptureDate: resolution.Date,
		ModifyDate:  resolution.ModifyDate,
		Artist:      o.attributionFor(id),
		Location:    location,
	}
	finalPath, err := o.writer.Apply(ctx, dest, fields)
	if err != nil {
		// The file is already archived; the stale embedded date is the only
		// loss, so the failure is recorded against the final location.
		return services.FailureStatus(err), finalPath, err.Error()
	}

	o.removeSidecar(sidecarPath)
	incoming.Path = finalPath
	o.index.Add(incoming)

	detail := string(resolution.Confidence)
	if resolution.Conflict {
		detail += ", conflicting sidecar dates"
	}
	return journal.StatusOrganized, finalPath, detail
}

// gatherEvidence assembles the date evidence for a file: its filename, any
// Takeout sidecar, the container creation tag for videos, and the mtime.
// For videos it also returns the probed duration for duplicate comparison.
func (o *Organizer) gatherEvidence(ctx context.Context, path string, modTime time.Time) (datesolver.Evidence, string, *metadata.Location, float64) {
	evidence := datesolver.Evidence{
		Filename: filepath.Base(path),
		ModTime:  &modTime,
	}

	var location *metadata.Location
	sidecarPath, found := findSidecar(path)
	if !found {
		sidecarPath = ""
	} else {
		data, err := parseSidecar(sidecarPath)
		if err != nil {
			o.logger.Warn("unreadable sidecar",
				logging.String("sidecar", sidecarPath),
				logging.Error(err))
		} else {
			evidence.SidecarTaken = data.Taken
			evidence.SidecarCreated = data.Created
			location = data.Location
		}
	}

	var duration float64
	if mediaindex.IsVideo(path) {
		if result, err := probeMedia(ctx, o.cfg.FFprobeBinary(), path); err == nil {
			if created, ok := result.CreationTime(); ok {
				evidence.Container = &created
			}
			duration = result.DurationSeconds()
		}
	}
	return evidence, sidecarPath, location, duration
}

// resolveDuplicate checks the archive index for a copy of the same asset.
// handled is false when the file is new and should be placed normally.
func (o *Organizer) resolveDuplicate(ctx context.Context, incoming mediaindex.Record) (journal.Status, string, string, bool) {
	existing, err := o.index.Lookup(incoming.Key)
	if err != nil {
		return journal.StatusFailed, "", err.Error(), true
	}
	if len(existing) == 0 {
		return "", "", "", false
	}

	opts := dupes.Options{
		SizeTolerance:            o.cfg.Dedup.SizeTolerance,
		DurationToleranceSeconds: o.cfg.Dedup.DurationToleranceSeconds,
	}
	result, err := dupes.Classify(incoming, existing[0], opts)
	if err != nil {
		return journal.StatusFailed, "", err.Error(), true
	}

	o.logger.Info("duplicate classified",
		logging.String(logging.FieldEventType, "duplicate"),
		logging.String("verdict", string(result.Verdict)),
		logging.String("incoming", incoming.Path),
		logging.String("existing", existing[0].Path),
		logging.String("reason", result.Reason))

	switch result.Verdict {
	case dupes.VerdictExact:
		return journal.StatusDuplicate, "", result.Reason, true
	case dupes.VerdictSimilar:
		status, dest, _ := o.routeToReview(incoming.Path, result.Reason)
		return status, dest, result.Reason, true
	default:
		// Significant or bloated: the larger copy is redundant, but it is
		// never deleted outright. The losing copy goes to review.
		if result.Keep.Path != incoming.Path {
			status, dest, detail := o.routeToReview(incoming.Path, result.Reason)
			if status == journal.StatusReview {
				status = journal.StatusDuplicate
			}
			return status, dest, detail, true
		}
		if o.dryRun {
			return journal.StatusDuplicate, "", result.Reason, true
		}
		if _, err := o.moveToReview(existing[0].Path, result.Reason); err != nil {
			return journal.StatusFailed, "", err.Error(), true
		}
		if err := o.index.Rebuild(ctx); err != nil {
			return journal.StatusFailed, "", err.Error(), true
		}
		// The incoming copy replaces the archived one; place it normally.
		return "", "", "", false
	}
}

// place moves a file into the YYYY/MM layout, applying the configured
// attribution suffix and resolving name collisions.
func (o *Organizer) place(path string, id identity.Identity, capture time.Time) (string, error) {
	root := o.cfg.Paths.PhotoDir
	if mediaindex.IsVideo(path) {
		root = o.cfg.Paths.VideoDir
	}
	destDir := filepath.Join(root,
		fmt.Sprintf("%04d", capture.Year()),
		fmt.Sprintf("%02d %s", int(capture.Month()), capture.Month().String()))

	name := filepath.Base(path)
	if suffix := o.cfg.Organize.Attribution; suffix != "" && id.Attribution == "" {
		ext := filepath.Ext(name)
		name = fmt.Sprintf("%s_%s%s", strings.TrimSuffix(name, ext), suffix, ext)
	}

	dest := filepath.Join(destDir, name)
	if o.dryRun {
		return dest, nil
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", services.Wrap(nil, "organize", "create destination",
			fmt.Sprintf("failed to create %s", destDir), err)
	}
	dest, err := fileutil.UniquePath(dest)
	if err != nil {
		return "", services.Wrap(nil, "organize", "allocate destination",
			"unable to allocate destination filename", err)
	}
	if err := fileutil.MoveFile(path, dest); err != nil {
		return "", services.Wrap(nil, "organize", "move file",
			fmt.Sprintf("failed to move %s", path), err)
	}
	return dest, nil
}

func (o *Organizer) routeToReview(path, reason string) (journal.Status, string, string) {
	if o.dryRun {
		return journal.StatusReview, "", reason
	}
	dest, err := o.moveToReview(path, reason)
	if err != nil {
		return journal.StatusFailed, "", err.Error()
	}
	return journal.StatusReview, dest, reason
}

// attributionFor picks the artist to embed: the name already carried by the
// filename wins over the configured default.
func (o *Organizer) attributionFor(id identity.Identity) string {
	if id.Attribution != "" {
		return id.Attribution
	}
	return o.cfg.Organize.Attribution
}

func (o *Organizer) removeSidecar(sidecarPath string) {
	if sidecarPath == "" {
		return
	}
	if err := os.Remove(sidecarPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		o.logger.Warn("failed to remove consumed sidecar",
			logging.String("sidecar", sidecarPath),
			logging.Error(err))
	}
}
