package encoding

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"time"

	"shoebox/internal/config"
	"shoebox/internal/logging"
	"shoebox/internal/services"
)

const creationTimeLayout = "2006-01-02T15:04:05"

// Job describes one conversion.
type Job struct {
	Source  string
	Output  string
	Profile Profile
	// CreationTime, when set, is embedded in the output container so the
	// capture date survives the conversion.
	CreationTime *time.Time
}

// Transcoder converts a video to archival H.265.
type Transcoder interface {
	Transcode(ctx context.Context, job Job) error
}

// FFmpeg is the ffmpeg-backed Transcoder.
type FFmpeg struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewFFmpeg returns a Transcoder that shells out to ffmpeg.
func NewFFmpeg(cfg *config.Config, logger *slog.Logger) *FFmpeg {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &FFmpeg{cfg: cfg, logger: logging.NewComponentLogger(logger, "transcoder")}
}

// Args builds the ffmpeg argument list for a job, excluding the binary
// name. Exposed for inspection in dry runs.
func (f *FFmpeg) Args(job Job) []string {
	var args []string
	args = append(args, "-i", job.Source)

	switch job.Profile {
	case ProfileHighComplexity:
		args = append(args,
			"-c:v", "libx265",
			"-crf", strconv.Itoa(f.cfg.Convert.CRF),
			"-preset", f.cfg.Convert.Preset,
			"-x265-params", "pools=*:frame-threads=0",
		)
	default:
		args = append(args,
			"-c:v", "hevc_videotoolbox",
			"-q:v", "50",
		)
	}

	// hvc1 tag keeps QuickTime and Safari happy; faststart moves the moov
	// atom to the front for streaming.
	args = append(args,
		"-tag:v", "hvc1",
		"-c:a", "aac",
		"-b:a", f.cfg.Convert.AudioBitrate,
		"-movflags", "+faststart",
	)

	if job.CreationTime != nil {
		args = append(args, "-metadata",
			fmt.Sprintf("creation_time=%s", job.CreationTime.Format(creationTimeLayout)))
	}

	args = append(args, "-n", "-loglevel", "warning", "-stats", job.Output)
	return args
}

// Transcode runs ffmpeg and waits for it to finish.
func (f *FFmpeg) Transcode(ctx context.Context, job Job) error {
	args := f.Args(job)
	f.logger.Info("starting conversion",
		logging.String(logging.FieldEventType, "transcode_start"),
		logging.String("source", job.Source),
		logging.String("profile", string(job.Profile)))

	cmd := exec.CommandContext(ctx, f.cfg.FFmpegBinary(), args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := stderr.String()
		if len(detail) > 512 {
			detail = detail[len(detail)-512:]
		}
		return services.Wrap(services.ErrExternalTool, "convert", "transcode",
			fmt.Sprintf("ffmpeg failed for %s: %s", job.Source, detail), err)
	}

	f.logger.Info("conversion finished",
		logging.String(logging.FieldEventType, "transcode_done"),
		logging.String("output", job.Output))
	return nil
}
