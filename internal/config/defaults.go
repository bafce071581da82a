package config

const (
	defaultPhotoDir   = "~/media/photos"
	defaultVideoDir   = "~/media/videos"
	defaultReviewDir  = "~/media/review"
	defaultLogDir     = "~/.local/share/shoebox/logs"
	defaultCacheDir   = "~/.cache/shoebox"
	defaultLedgerPath = "~/.local/share/shoebox/conversion_ledger.json"
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"

	defaultConvertCRF              = 26
	defaultConvertPreset           = "slow"
	defaultConvertAudioBitrate     = "192k"
	defaultConvertDensityThreshold = 0.17

	defaultDedupSizeTolerance        = 0.20
	defaultDedupDurationToleranceSec = 1.0
	defaultSidecarConflictMonths     = 3
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			PhotoDir:   defaultPhotoDir,
			VideoDir:   defaultVideoDir,
			ReviewDir:  defaultReviewDir,
			LogDir:     defaultLogDir,
			CacheDir:   defaultCacheDir,
			LedgerPath: defaultLedgerPath,
		},
		Convert: Convert{
			CRF:              defaultConvertCRF,
			Preset:           defaultConvertPreset,
			AudioBitrate:     defaultConvertAudioBitrate,
			DensityThreshold: defaultConvertDensityThreshold,
		},
		Dedup: Dedup{
			SizeTolerance:            defaultDedupSizeTolerance,
			DurationToleranceSeconds: defaultDedupDurationToleranceSec,
			SidecarConflictMonths:    defaultSidecarConflictMonths,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
