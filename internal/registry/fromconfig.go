package registry

import (
	"log/slog"

	"transmute/internal/config"
	"transmute/internal/stage"
)

// FromConfig assembles a registry from configuration declarations, binding
// each declared stage to a command-backed converter. The overlay supplies
// per-stage behavior options; the work directory receives scratch files for
// intermediate payloads.
func FromConfig(cfg *config.Config, overlay *config.Overlay, workDir string, logger *slog.Logger) (*Registry, error) {
	formats := make([]Format, 0, len(cfg.Formats))
	for _, format := range cfg.Formats {
		formats = append(formats, Format{Name: format.Name, Extensions: format.Extensions})
	}

	extensions := make(map[string]string, len(cfg.Formats))
	for _, format := range cfg.Formats {
		if len(format.Extensions) > 0 {
			extensions[format.Name] = format.Extensions[0]
		}
	}

	stages := make([]Stage, 0, len(cfg.Stages))
	for _, declared := range cfg.Stages {
		impl := &stage.CommandStage{
			Name:      declared.Name,
			Command:   declared.Command,
			Args:      declared.Args,
			WorkDir:   workDir,
			InputExt:  extensions[declared.Source],
			OutputExt: extensions[declared.Target],
			Options:   overlay.Scope("stages." + declared.Name),
			Logger:    logger,
		}
		stages = append(stages, Stage{
			Name:   declared.Name,
			Source: declared.Source,
			Target: declared.Target,
			Weight: declared.Priority,
			Impl:   impl,
		})
	}

	return New(formats, stages)
}
