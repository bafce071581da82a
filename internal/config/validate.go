package config

import (
	"errors"
	"fmt"
)

var validPresets = map[string]struct{}{
	"ultrafast": {},
	"superfast": {},
	"veryfast":  {},
	"faster":    {},
	"fast":      {},
	"medium":    {},
	"slow":      {},
	"slower":    {},
	"veryslow":  {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateConvert(); err != nil {
		return err
	}
	if err := c.validateDedup(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.PhotoDir == c.Paths.VideoDir {
		return errors.New("paths.photo_dir and paths.video_dir must differ")
	}
	for name, dir := range map[string]string{
		"paths.photo_dir": c.Paths.PhotoDir,
		"paths.video_dir": c.Paths.VideoDir,
	} {
		if dir == c.Paths.ReviewDir {
			return fmt.Errorf("%s must not equal paths.review_dir", name)
		}
	}
	return nil
}

func (c *Config) validateConvert() error {
	if c.Convert.CRF < 0 || c.Convert.CRF > 51 {
		return errors.New("convert.crf must be between 0 and 51")
	}
	if _, ok := validPresets[c.Convert.Preset]; !ok {
		return fmt.Errorf("convert.preset %q is not a recognized x265 preset", c.Convert.Preset)
	}
	if c.Convert.DensityThreshold <= 0 || c.Convert.DensityThreshold >= 1 {
		return errors.New("convert.density_threshold must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateDedup() error {
	if c.Dedup.SizeTolerance <= 0 || c.Dedup.SizeTolerance >= 1 {
		return errors.New("dedup.size_tolerance must be between 0 and 1")
	}
	if c.Dedup.DurationToleranceSeconds <= 0 {
		return errors.New("dedup.duration_tolerance_seconds must be positive")
	}
	if c.Dedup.SidecarConflictMonths <= 0 {
		return errors.New("dedup.sidecar_conflict_months must be positive")
	}
	return nil
}
