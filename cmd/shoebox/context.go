package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"log/slog"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"shoebox/internal/config"
	"shoebox/internal/journal"
	"shoebox/internal/logging"
	"shoebox/internal/mediaindex"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		})
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) openJournal() (*journal.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return journal.Open(cfg)
}

// newArchiveIndex builds an index over the photo and video roots.
func (c *commandContext) newArchiveIndex(logger *slog.Logger) (*mediaindex.Index, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return mediaindex.New(logger, cfg.Organize.AttributionTokens,
		cfg.Paths.PhotoDir, cfg.Paths.VideoDir), nil
}

// acquireArchiveLock serializes mutating runs against the archive. The
// returned release func must be called even on error paths.
func (c *commandContext) acquireArchiveLock() (func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	lock := flock.New(filepath.Join(cfg.Paths.LogDir, "shoebox.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire archive lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another shoebox run holds the archive lock at %s", lock.Path())
	}
	return func() { _ = lock.Unlock() }, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
