package stage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"transmute/internal/config"
	"transmute/internal/logging"
	"transmute/internal/payload"
	"transmute/internal/services"
)

const defaultTimeoutSeconds = 300

// CommandStage invokes an external converter tool. The declared argument list
// may contain {input} and {output} placeholders; {input} is replaced with the
// materialized input path and {output} with a scratch file in the work
// directory. When no {output} placeholder is present the tool's stdout
// becomes the stage output.
//
// Behavior options read from the overlay under stages.<name>:
//
//	binary          overrides the executable
//	extra_args      appended after the declared arguments
//	timeout_seconds caps the invocation wall time (default 300)
type CommandStage struct {
	Name      string
	Command   string
	Args      []string
	WorkDir   string
	InputExt  string
	OutputExt string
	Options   *config.Scoped
	Logger    *slog.Logger
}

// Transform implements the converter contract by running the configured tool.
func (c *CommandStage) Transform(ctx context.Context, req Request) (Result, error) {
	if req.DryRun {
		return Result{Output: payload.Empty()}, nil
	}
	if req.Input == nil {
		return Result{}, services.Wrap(services.ErrExternalTool, c.Name, "transform", "missing input payload", nil)
	}

	binary := c.Options.String("binary", c.Command)
	timeout := time.Duration(c.Options.Int("timeout_seconds", defaultTimeoutSeconds)) * time.Second
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	inputPath, cleanupInput, err := c.materializeInput(req.Input)
	if err != nil {
		return Result{}, err
	}
	defer cleanupInput()

	wantsOutputFile := hasPlaceholder(c.Args, "{output}")
	outputPath := ""
	if wantsOutputFile {
		outputPath, err = c.scratchPath()
		if err != nil {
			return Result{}, err
		}
	}

	args := substituteArgs(c.Args, inputPath, outputPath)
	args = append(args, c.Options.Strings("extra_args")...)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Converters routinely spawn helpers that inherit our pipes; killing only
	// the direct child would leave Run blocked on them. Signal the whole
	// process group on cancellation and cap the post-kill wait.
	configureProcessGroup(cmd)
	cmd.Cancel = func() error { return terminateProcess(cmd) }
	cmd.WaitDelay = 5 * time.Second

	logger := c.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger.Debug("invoking converter",
		logging.String(logging.FieldStage, c.Name),
		logging.String("binary", binary),
		logging.String("args", strings.Join(args, " ")),
		logging.Bool("last", req.Last),
	)

	runErr := cmd.Run()
	if runErr != nil {
		// A context-triggered kill surfaces as *exec.ExitError too, so the
		// cancellation check must come first or a timeout would be reported
		// as an ordinary converter failure.
		if ctx.Err() != nil {
			detail := fmt.Sprintf("%s canceled", binary)
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				detail = fmt.Sprintf("%s exceeded the %s stage timeout", binary, timeout)
			}
			return Result{}, services.Wrap(services.ErrExternalTool, c.Name, "invoke", detail, ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			code := exitErr.ExitCode()
			if code <= 0 {
				code = 1
			}
			return Result{Stderr: stderr.String(), ExitCode: code}, nil
		}
		return Result{}, services.Wrap(services.ErrExternalTool, c.Name, "invoke", binary, runErr)
	}

	if wantsOutputFile {
		return Result{Output: payload.FromFile(outputPath), Stderr: stderr.String()}, nil
	}
	return Result{Output: payload.FromBytes(stdout.Bytes()), Stderr: stderr.String()}, nil
}

// materializeInput returns a filesystem path for the input payload, writing
// in-memory payloads to a scratch file when the tool needs one.
func (c *CommandStage) materializeInput(input *payload.Source) (string, func(), error) {
	if !hasPlaceholder(c.Args, "{input}") {
		return "", func() {}, nil
	}
	if path, ok := input.Path(); ok {
		return path, func() {}, nil
	}
	data, err := input.Bytes()
	if err != nil {
		return "", nil, services.Wrap(services.ErrExternalTool, c.Name, "materialize input", "", err)
	}
	file, err := os.CreateTemp(c.WorkDir, "transmute-*"+c.InputExt)
	if err != nil {
		return "", nil, services.Wrap(services.ErrExternalTool, c.Name, "materialize input", "create scratch file", err)
	}
	path := file.Name()
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(path)
		return "", nil, services.Wrap(services.ErrExternalTool, c.Name, "materialize input", "write scratch file", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", nil, services.Wrap(services.ErrExternalTool, c.Name, "materialize input", "close scratch file", err)
	}
	return path, func() { os.Remove(path) }, nil
}

func (c *CommandStage) scratchPath() (string, error) {
	file, err := os.CreateTemp(c.WorkDir, "transmute-*"+c.OutputExt)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, c.Name, "prepare output", "create scratch file", err)
	}
	path := file.Name()
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", services.Wrap(services.ErrExternalTool, c.Name, "prepare output", "close scratch file", err)
	}
	return path, nil
}

func hasPlaceholder(args []string, placeholder string) bool {
	for _, arg := range args {
		if strings.Contains(arg, placeholder) {
			return true
		}
	}
	return false
}

func substituteArgs(args []string, inputPath, outputPath string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		arg = strings.ReplaceAll(arg, "{input}", inputPath)
		arg = strings.ReplaceAll(arg, "{output}", outputPath)
		out[i] = arg
	}
	return out
}
