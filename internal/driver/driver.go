package driver

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"transmute/internal/config"
	"transmute/internal/logging"
	"transmute/internal/payload"
	"transmute/internal/pipeline"
	"transmute/internal/registry"
	"transmute/internal/services"
)

// Options describes one conversion request. Source and Target are explicit
// format identifiers; when empty they are inferred from InputFile and
// OutputFile extensions. Overrides are dotted-path assignments of the form
// stages.<name>.<option>=<value>, applied in order before path resolution.
type Options struct {
	Config     *config.Config
	Logger     *slog.Logger
	Source     string
	Target     string
	InputFile  string
	OutputFile string
	Overrides  []string
	Stdin      io.Reader
}

// Resolution is a fully resolved conversion: the registry, the ordered stage
// chain, and the initial payload. Nothing has executed yet.
type Resolution struct {
	Registry *registry.Registry
	Path     registry.Path
	Input    *payload.Source

	logger *slog.Logger
}

// Resolve validates the request and computes the conversion chain. All
// resolution-time failures (missing file, unknown extension, no path,
// trivial path) surface here, before any converter runs.
func Resolve(opts Options) (*Resolution, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "", "resolve", "configuration is required", nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	if opts.InputFile != "" {
		if _, err := os.Stat(opts.InputFile); err != nil {
			return nil, &services.NoFileError{Hint: opts.InputFile}
		}
	}

	overlay, err := cfg.StageOverlay()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "", "build overlay", "", err)
	}
	for _, override := range opts.Overrides {
		key, value, ok := strings.Cut(override, "=")
		if !ok {
			return nil, services.Wrap(services.ErrConfiguration, "", "apply override", fmt.Sprintf("%q is not of the form key=value", override), nil)
		}
		if err := overlay.Set(strings.TrimSpace(key), value); err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "", "apply override", "", err)
		}
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "", "prepare directories", "", err)
	}

	reg, err := registry.FromConfig(cfg, overlay, cfg.Paths.WorkDir, logger)
	if err != nil {
		return nil, err
	}

	source := opts.Source
	if source == "" {
		if source, err = reg.ResolveFile(opts.InputFile); err != nil {
			return nil, err
		}
	}
	target := opts.Target
	if target == "" {
		if target, err = reg.ResolveFile(opts.OutputFile); err != nil {
			return nil, err
		}
	}

	path, err := reg.MakePath(source, target)
	if err != nil {
		return nil, err
	}
	if path.Empty() {
		return nil, &services.TrivialPathError{Format: source}
	}

	input, err := initialPayload(opts)
	if err != nil {
		return nil, err
	}

	logger.Debug("conversion resolved",
		logging.String(logging.FieldSource, source),
		logging.String(logging.FieldTarget, target),
		logging.Int("stages", len(path.Stages)),
	)

	return &Resolution{Registry: reg, Path: path, Input: input, logger: logger}, nil
}

func initialPayload(opts Options) (*payload.Source, error) {
	if opts.InputFile != "" {
		return payload.FromFile(opts.InputFile), nil
	}
	if opts.Stdin != nil {
		data, err := io.ReadAll(opts.Stdin)
		if err != nil {
			return nil, services.Wrap(services.ErrExternalTool, "", "read stdin", "", err)
		}
		return payload.FromBytes(data), nil
	}
	return payload.Empty(), nil
}

// ExecOptions controls execution of a resolved conversion.
type ExecOptions struct {
	DryRun   bool
	RunID    string
	Observer pipeline.Observer
	Reporter pipeline.Reporter
}

// Execute drives the resolved chain and returns the final payload. Dry runs
// visit every stage without real work and return a placeholder.
func (r *Resolution) Execute(ctx context.Context, opts ExecOptions) (*payload.Source, error) {
	exec := pipeline.New(pipeline.Options{
		Logger:   r.logger,
		Observer: opts.Observer,
		Reporter: opts.Reporter,
	})
	return exec.Run(ctx, r.Path, r.Input, pipeline.RunOptions{DryRun: opts.DryRun, RunID: opts.RunID})
}

// Deliver disposes of the final payload: raw bytes to the output file when
// one was requested, otherwise decoded as text on the writer.
func Deliver(out *payload.Source, outputFile string, stdout io.Writer) error {
	if outputFile != "" {
		return out.WriteFile(outputFile)
	}
	data, err := out.Bytes()
	if err != nil {
		return err
	}
	text := string(data)
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err = io.WriteString(stdout, text)
	return err
}
