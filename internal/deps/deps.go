// Package deps verifies the external tools shoebox shells out to.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"shoebox/internal/config"
)

// Requirement defines an external binary shoebox relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements returns the external tools the configured workflows need.
// exiftool is required for organizing, ffprobe for date and codec
// inspection, and ffmpeg only for conversion runs.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "exiftool",
			Command:     cfg.ExiftoolBinary(),
			Description: "Writes capture dates and GPS tags during organize",
		},
		{
			Name:        "ffprobe",
			Command:     cfg.FFprobeBinary(),
			Description: "Inspects video codecs, durations, and creation times",
		},
		{
			Name:        "ffmpeg",
			Command:     cfg.FFmpegBinary(),
			Description: "Re-encodes legacy video during convert",
			Optional:    true,
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if resolved, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		} else {
			status.Command = resolved
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
