package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeOrganize()
	c.normalizeConvert()
	c.normalizeDedup()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.PhotoDir) == "" {
		c.Paths.PhotoDir = defaultPhotoDir
	}
	if c.Paths.PhotoDir, err = expandPath(c.Paths.PhotoDir); err != nil {
		return fmt.Errorf("paths.photo_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.VideoDir) == "" {
		c.Paths.VideoDir = defaultVideoDir
	}
	if c.Paths.VideoDir, err = expandPath(c.Paths.VideoDir); err != nil {
		return fmt.Errorf("paths.video_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ReviewDir) == "" {
		c.Paths.ReviewDir = defaultReviewDir
	}
	if c.Paths.ReviewDir, err = expandPath(c.Paths.ReviewDir); err != nil {
		return fmt.Errorf("paths.review_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LedgerPath) == "" {
		c.Paths.LedgerPath = defaultLedgerPath
	}
	if c.Paths.LedgerPath, err = expandPath(c.Paths.LedgerPath); err != nil {
		return fmt.Errorf("paths.ledger_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeOrganize() {
	// The attribution suffix heuristic only recognizes capitalized tokens,
	// so the configured name is canonicalized the same way.
	if attribution := strings.TrimSpace(c.Organize.Attribution); attribution != "" {
		c.Organize.Attribution = cases.Title(language.Und).String(attribution)
	} else {
		c.Organize.Attribution = ""
	}
	if len(c.Organize.AttributionTokens) == 0 {
		return
	}
	tokens := make([]string, 0, len(c.Organize.AttributionTokens))
	seen := make(map[string]struct{}, len(c.Organize.AttributionTokens))
	for _, token := range c.Organize.AttributionTokens {
		normalized := strings.TrimSpace(token)
		if normalized == "" {
			continue
		}
		key := strings.ToLower(normalized)
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		tokens = append(tokens, normalized)
	}
	c.Organize.AttributionTokens = tokens
}

func (c *Config) normalizeConvert() {
	if c.Convert.CRF <= 0 {
		c.Convert.CRF = defaultConvertCRF
	}
	c.Convert.Preset = strings.ToLower(strings.TrimSpace(c.Convert.Preset))
	if c.Convert.Preset == "" {
		c.Convert.Preset = defaultConvertPreset
	}
	c.Convert.AudioBitrate = strings.ToLower(strings.TrimSpace(c.Convert.AudioBitrate))
	if c.Convert.AudioBitrate == "" {
		c.Convert.AudioBitrate = defaultConvertAudioBitrate
	}
	if c.Convert.DensityThreshold <= 0 {
		c.Convert.DensityThreshold = defaultConvertDensityThreshold
	}
}

func (c *Config) normalizeDedup() {
	if c.Dedup.SizeTolerance <= 0 {
		c.Dedup.SizeTolerance = defaultDedupSizeTolerance
	}
	if c.Dedup.DurationToleranceSeconds <= 0 {
		c.Dedup.DurationToleranceSeconds = defaultDedupDurationToleranceSec
	}
	if c.Dedup.SidecarConflictMonths <= 0 {
		c.Dedup.SidecarConflictMonths = defaultSidecarConflictMonths
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
