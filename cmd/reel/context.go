package main

import (
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"reel/internal/config"
	"reel/internal/deps"
	"reel/internal/fetch"
	"reel/internal/history"
	"reel/internal/logging"
	"reel/internal/ytdlp"
)

// commandContext shares lazily resolved state between commands. Configuration
// and logging are resolved at most once per invocation; directories and the
// history database are only touched by commands that actually use them.
type commandContext struct {
	configFlag  *string
	verboseFlag *bool

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		verboseFlag: verboseFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) verbose() bool {
	return c.verboseFlag != nil && *c.verboseFlag
}

// ensureLogger builds the invocation logger from the resolved config.
// --verbose lowers the level to debug without touching the config itself.
func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logCfg := *cfg
		if c.verbose() {
			logCfg.Logging.Level = "debug"
		}
		c.logger, c.loggerErr = logging.NewFromConfig(&logCfg)
	})
	return c.logger, c.loggerErr
}

// withRunner wires a download runner from the resolved config and hands it to
// fn. The history store, when enabled, is opened for the duration of fn.
func (c *commandContext) withRunner(fn func(*fetch.Runner) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return err
	}

	binary, _, err := deps.ResolveDownloader(cfg.Downloader.Binary, cfg.Downloader.FallbackBinary)
	if err != nil {
		return err
	}
	client, err := ytdlp.New(binary, cfg.Downloader.TimeoutSeconds)
	if err != nil {
		return err
	}

	var store *history.Store
	if cfg.History.Enabled {
		store, err = history.Open(cfg)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	return fn(fetch.NewRunner(cfg, client, store, nil, logger))
}

// withStore opens the history store and hands it to fn.
func (c *commandContext) withStore(fn func(*history.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return errors.New("history is disabled in the configuration")
	}
	store, err := history.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	return cmd.Annotations != nil && cmd.Annotations["skipConfigLoad"] == "true"
}
