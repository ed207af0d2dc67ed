package main

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"transmute/internal/config"
	"transmute/internal/logging"
)

// commandContext lazily loads configuration and builds the logger so
// subcommands share one resolved view of both.
type commandContext struct {
	configPath string
	verbosity  int
	quiet      bool

	once      sync.Once
	cfg       *config.Config
	cfgPath   string
	cfgExists bool
	logger    *slog.Logger
	loadErr   error
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.once.Do(func() {
		cfg, path, exists, err := config.Load(c.configPath)
		if err != nil {
			c.loadErr = fmt.Errorf("load configuration: %w", err)
			return
		}
		c.cfg = cfg
		c.cfgPath = path
		c.cfgExists = exists

		level := cfg.Logging.Level
		if c.verbosity > 0 {
			level = logging.LevelForVerbosity(c.verbosity)
		}
		logger, err := logging.New(logging.Options{
			Level:  level,
			Format: cfg.Logging.Format,
			Writer: os.Stderr,
		})
		if err != nil {
			c.loadErr = err
			return
		}
		c.logger = logger
	})
	return c.cfg, c.loadErr
}

func (c *commandContext) log() *slog.Logger {
	if c.logger == nil {
		return logging.NewNop()
	}
	return c.logger
}
