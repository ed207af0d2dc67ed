package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.normalizeHistory()
	c.normalizeFormats()
	c.normalizeStages()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeHistory() {
	if c.History.Limit <= 0 {
		c.History.Limit = defaultHistoryLimit
	}
}

func (c *Config) normalizeFormats() {
	for i := range c.Formats {
		c.Formats[i].Name = strings.TrimSpace(c.Formats[i].Name)
		for j := range c.Formats[i].Extensions {
			ext := strings.TrimSpace(c.Formats[i].Extensions[j])
			if ext != "" && !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			c.Formats[i].Extensions[j] = ext
		}
	}
}

func (c *Config) normalizeStages() {
	for i := range c.Stages {
		c.Stages[i].Name = strings.TrimSpace(c.Stages[i].Name)
		c.Stages[i].Source = strings.TrimSpace(c.Stages[i].Source)
		c.Stages[i].Target = strings.TrimSpace(c.Stages[i].Target)
		c.Stages[i].Command = strings.TrimSpace(c.Stages[i].Command)
		if c.Stages[i].Priority <= 0 {
			c.Stages[i].Priority = 1
		}
	}
}
