package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable. Stage declarations that
// reference undeclared formats are rejected here so a malformed graph fails
// at load time, never during path resolution.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateFormats(); err != nil {
		return err
	}
	if err := c.validateStages(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateFormats() error {
	if len(c.Formats) == 0 {
		return errors.New("at least one [[format]] must be declared")
	}
	seen := make(map[string]struct{}, len(c.Formats))
	for _, format := range c.Formats {
		if format.Name == "" {
			return errors.New("format.name must be set")
		}
		if _, dup := seen[format.Name]; dup {
			return fmt.Errorf("format %q declared more than once", format.Name)
		}
		seen[format.Name] = struct{}{}
		for _, ext := range format.Extensions {
			if ext == "" || ext == "." {
				return fmt.Errorf("format %q has an empty extension", format.Name)
			}
			if !strings.HasPrefix(ext, ".") {
				return fmt.Errorf("format %q extension %q must start with a dot", format.Name, ext)
			}
		}
	}
	return nil
}

func (c *Config) validateStages() error {
	formats := make(map[string]struct{}, len(c.Formats))
	for _, format := range c.Formats {
		formats[format.Name] = struct{}{}
	}
	seen := make(map[string]struct{}, len(c.Stages))
	for _, st := range c.Stages {
		if st.Name == "" {
			return errors.New("stage.name must be set")
		}
		if _, dup := seen[st.Name]; dup {
			return fmt.Errorf("stage %q declared more than once", st.Name)
		}
		seen[st.Name] = struct{}{}
		if st.Source == "" || st.Target == "" {
			return fmt.Errorf("stage %q must declare source and target formats", st.Name)
		}
		if _, ok := formats[st.Source]; !ok {
			return fmt.Errorf("stage %q references unknown source format %q", st.Name, st.Source)
		}
		if _, ok := formats[st.Target]; !ok {
			return fmt.Errorf("stage %q references unknown target format %q", st.Name, st.Target)
		}
		if st.Command == "" {
			return fmt.Errorf("stage %q must declare a command", st.Name)
		}
	}
	return nil
}
