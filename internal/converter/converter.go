package converter

import (
	"context"
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
	"shoebox/internal/encoding"
	"shoebox/internal/fileutil"
	"shoebox/internal/journal"
	"shoebox/internal/ledger"
	"shoebox/internal/logging"
	"shoebox/internal/media/ffprobe"
	"shoebox/internal/mediaindex"
	"shoebox/internal/probecache"
	"shoebox/internal/services"
)

// probeMedia is swappable in tests.
var probeMedia = ffprobe.Inspect

// Converter runs conversion batches over a source tree.
type Converter struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *journal.Store
	index      *mediaindex.Index
	ledger     *ledger.Ledger
	cache      *probecache.Cache
	transcoder encoding.Transcoder
	dryRun     bool
}

// Summary aggregates the outcomes of one conversion batch.
type Summary struct {
	BatchID string
	Total   int
	Counts  map[journal.Status]int
}

// New constructs a converter with its collaborators.
func New(cfg *config.Config, store *journal.Store, index *mediaindex.Index, led *ledger.Ledger, cache *probecache.Cache, transcoder encoding.Transcoder, logger *slog.Logger) *Converter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Converter{
		cfg:        cfg,
		logger:     logging.NewComponentLogger(logger, "converter"),
		store:      store,
		index:      index,
		ledger:     led,
		cache:      cache,
		transcoder: transcoder,
	}
}

// SetDryRun makes the converter report decisions without encoding,
// journaling, or touching the ledger.
func (c *Converter) SetDryRun(enabled bool) {
	c.dryRun = enabled
}

// Run converts every eligible video under sourceDir.
func (c *Converter) Run(ctx context.Context, sourceDir string) (*Summary, error) {
	info, err := os.Stat(sourceDir)
	if err != nil || !info.IsDir() {
		return nil, services.Wrap(services.ErrValidation, "convert", "validate source",
			fmt.Sprintf("source directory %s is not accessible", sourceDir), err)
	}

	if err := c.index.Build(ctx); err != nil {
		return nil, services.Wrap(services.ErrIndexStale, "convert", "build index",
			"failed to index the archive", err)
	}

	summary := &Summary{
		BatchID: uuid.NewString(),
		Counts:  make(map[journal.Status]int),
	}
	c.logger.Info("starting conversion batch",
		logging.String(logging.FieldEventType, "batch_start"),
		logging.String("batch_id", summary.BatchID),
		logging.String("source", sourceDir),
		logging.Bool("dry_run", c.dryRun))

	walkErr := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !mediaindex.IsVideo(path) {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		status, dest, detail := c.processFile(ctx, path)
		summary.Total++
		summary.Counts[status]++

		if c.dryRun {
			return nil
		}
		_, recErr := c.store.Record(ctx, &journal.Item{
			BatchID:    summary.BatchID,
			Operation:  journal.OpConvert,
			SourcePath: path,
			DestPath:   dest,
			Status:     status,
			Detail:     detail,
		})
		return recErr
	})
	if walkErr != nil {
		return summary, services.Wrap(nil, "convert", "walk source",
			"conversion batch aborted", walkErr)
	}

	c.logger.Info("conversion batch finished",
		logging.String(logging.FieldEventType, "batch_done"),
		logging.String("batch_id", summary.BatchID),
		logging.Int("total", summary.Total),
		logging.Int("converted", summary.Counts[journal.StatusConverted]),
		logging.Int("skipped", summary.Counts[journal.StatusSkipped]),
		logging.Int("failed", summary.Counts[journal.StatusFailed]))
	return summary, nil
}

// processFile decides and executes the outcome for a single video.
func (c *Converter) processFile(ctx context.Context, path string) (journal.Status, string, string) {
	info, err := os.Stat(path)
	if err != nil {
		return journal.StatusFailed, "", fmt.Sprintf("stat: %v", err)
	}

	entry, err := c.probe(ctx, path, info)
	if err != nil {
		return services.FailureStatus(err), "", err.Error()
	}

	needs, reason := encoding.NeedsConversion(path, entry.Codec)
	if !needs {
		return journal.StatusSkipped, "", reason
	}

	capture, inferred := c.resolveCapture(path, entry, info.ModTime())

	if c.ledger.Has(capture, info.Size()) {
		hit, _ := c.ledger.Lookup(capture, info.Size())
		return journal.StatusSkipped, hit.OutputPath,
			fmt.Sprintf("already converted as %s", hit.OutputName)
	}
	if dest, ok := c.archivedCopy(capture, info.Size()); ok {
		return journal.StatusSkipped, dest, "matching capture time and size already organized"
	}

	selection := encoding.Select(encoding.Clip{
		Width:     entry.Width,
		Height:    entry.Height,
		BitRate:   entry.BitRate,
		FrameRate: entry.FrameRate,
	}, encoding.SelectorOptions{
		DensityThreshold:    c.cfg.Convert.DensityThreshold,
		ForceHighComplexity: c.cfg.Convert.ForceHighComplexity,
	})
	c.logger.Info("encoder profile selected",
		logging.String(logging.FieldEventType, "profile_selected"),
		logging.String("source", path),
		logging.String("profile", string(selection.Profile)),
		logging.Float64("density", selection.Density),
		logging.String("reason", selection.Reason))

	output, err := c.outputPath(path, capture)
	if err != nil {
		return journal.StatusFailed, "", err.Error()
	}
	if c.dryRun {
		return journal.StatusConverted, output, fmt.Sprintf("dry run, %s", selection.Reason)
	}

	job := encoding.Job{
		Source:       path,
		Output:       output,
		Profile:      selection.Profile,
		CreationTime: &capture,
	}
	if err := c.transcoder.Transcode(ctx, job); err != nil {
		// A partial output must not masquerade as a finished encode.
		os.Remove(output)
		return services.FailureStatus(err), "", err.Error()
	}

	if _, err := c.ledger.Record(capture, info.Size(), path, output); err != nil {
		return journal.StatusFailed, output, err.Error()
	}

	if !c.cfg.Convert.KeepOriginal {
		if err := os.Remove(path); err != nil {
			c.logger.Warn("failed to remove converted original",
				logging.String("source", path),
				logging.Error(err))
		}
	}

	detail := selection.Reason
	if inferred {
		detail += ", capture date inferred from mtime"
	}
	return journal.StatusConverted, output, detail
}

// probe returns the cached probe entry for a file, probing and caching on miss.
func (c *Converter) probe(ctx context.Context, path string, info os.FileInfo) (probecache.Entry, error) {
	if entry, ok := c.cache.Lookup(path, info.Size(), info.ModTime()); ok {
		return entry, nil
	}

	result, err := probeMedia(ctx, c.cfg.FFprobeBinary(), path)
	if err != nil {
		return probecache.Entry{}, services.Wrap(services.ErrExternalTool, "convert", "probe",
			fmt.Sprintf("ffprobe failed for %s", path), err)
	}

	stream, _ := result.VideoStream()
	entry := probecache.Entry{
		Path:      path,
		Duration:  result.DurationSeconds(),
		Codec:     result.VideoCodec(),
		Width:     stream.Width,
		Height:    stream.Height,
		BitRate:   result.BitRate(),
		FrameRate: stream.FrameRate(),
		Size:      info.Size(),
		ModTime:   info.ModTime(),
	}
	if created, ok := result.CreationTime(); ok {
		entry.Capture = &created
	}
	if err := c.cache.Store(entry); err != nil {
		c.logger.Warn("failed to cache probe result",
			logging.String("source", path),
			logging.Error(err))
	}
	return entry, nil
}

// resolveCapture picks the capture date for ledger keying and metadata.
// inferred reports that only the filesystem mtime was available.
func (c *Converter) resolveCapture(path string, entry probecache.Entry, modTime time.Time) (time.Time, bool) {
	evidence := datesolver.Evidence{
		Filename:  filepath.Base(path),
		Container: entry.Capture,
		ModTime:   &modTime,
	}
	resolution, err := datesolver.Resolve(evidence, c.cfg.Dedup.SidecarConflictMonths)
	if err != nil {
		return modTime, true
	}
	return resolution.Date, resolution.NeedsReview
}

// archivedCopy reports whether the archive already holds a file with the
// same embedded capture stamp and byte size.
func (c *Converter) archivedCopy(capture time.Time, size int64) (string, bool) {
	records, err := c.index.LookupStamp(capture)
	if err != nil {
		return "", false
	}
	for _, rec := range records {
		if rec.Size == size {
			return rec.Path, true
		}
	}
	return "", false
}

// outputPath places the encode in the video archive's YYYY/MM layout with
// an .mp4 name, suffixing on collision.
func (c *Converter) outputPath(path string, capture time.Time) (string, error) {
	destDir := filepath.Join(c.cfg.Paths.VideoDir,
		fmt.Sprintf("%04d", capture.Year()),
		fmt.Sprintf("%02d %s", int(capture.Month()), capture.Month().String()))

	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name)) + ".mp4"
	dest := filepath.Join(destDir, name)
	if c.dryRun {
		return dest, nil
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", services.Wrap(nil, "convert", "create destination",
			fmt.Sprintf("failed to create %s", destDir), err)
	}
	dest, err := fileutil.UniquePath(dest)
	if err != nil {
		return "", services.Wrap(nil, "convert", "allocate destination",
			"unable to allocate output filename", err)
	}
	return dest, nil
}
