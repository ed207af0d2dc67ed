package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUsage         = errors.New("usage error")
	ErrConfiguration = errors.New("configuration error")
	ErrExternalTool  = errors.New("external tool error")
	ErrNotFound      = errors.New("not found")
)

// NoFileError reports that a filename was required but absent, either because
// no input file was supplied or because a format had to be inferred from a
// filename that was never given.
type NoFileError struct {
	Hint string
}

func (e *NoFileError) Error() string {
	if strings.TrimSpace(e.Hint) == "" {
		return "no file provided and no format specified"
	}
	return fmt.Sprintf("no file provided: %s", e.Hint)
}

func (e *NoFileError) Is(target error) bool { return target == ErrUsage }

// UnknownExtensionError reports a filename whose suffix matches no registered
// format.
type UnknownExtensionError struct {
	Filename string
}

func (e *UnknownExtensionError) Error() string {
	return fmt.Sprintf("unknown file extension: %q matches no registered format", e.Filename)
}

func (e *UnknownExtensionError) Is(target error) bool { return target == ErrUsage }

// NoPathFoundError reports that the conversion graph has no route between the
// two endpoint formats.
type NoPathFoundError struct {
	Source string
	Target string
}

func (e *NoPathFoundError) Error() string {
	return fmt.Sprintf("no conversion path from %q to %q", e.Source, e.Target)
}

func (e *NoPathFoundError) Is(target error) bool { return target == ErrUsage }

// TrivialPathError reports a resolved path of zero stages. Source and target
// are the same format, so there is nothing to execute.
type TrivialPathError struct {
	Format string
}

func (e *TrivialPathError) Error() string {
	return fmt.Sprintf("trivial path: source and target are both %q, nothing to do", e.Format)
}

func (e *TrivialPathError) Is(target error) bool { return target == ErrUsage }

// StageFailureError carries the exit code and diagnostic text of the first
// converter that failed. The process exits with the same code.
type StageFailureError struct {
	Stage  string
	Code   int
	Stderr string
}

func (e *StageFailureError) Error() string {
	return fmt.Sprintf("stage %s failed with exit code %d", e.Stage, e.Code)
}

func (e *StageFailureError) Is(target error) bool { return target == ErrExternalTool }

// ExitCode reports the process exit status for this failure. A converter that
// failed without a meaningful code maps to 1.
func (e *StageFailureError) ExitCode() int {
	if e.Code == 0 {
		return 1
	}
	return e.Code
}

// ExitCoder is implemented by errors that dictate the process exit status.
type ExitCoder interface {
	ExitCode() int
}

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
