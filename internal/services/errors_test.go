package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"transmute/internal/services"
)

func TestResolutionErrorsClassifyAsUsage(t *testing.T) {
	cases := []error{
		&services.NoFileError{},
		&services.UnknownExtensionError{Filename: "design.xyz"},
		&services.NoPathFoundError{Source: "dot", Target: "pdf"},
		&services.TrivialPathError{Format: "svg"},
	}
	for _, err := range cases {
		if !errors.Is(err, services.ErrUsage) {
			t.Fatalf("expected %T to classify as usage error", err)
		}
	}
}

func TestStageFailureExitCode(t *testing.T) {
	err := &services.StageFailureError{Stage: "dot-to-svg", Code: 3, Stderr: "syntax error"}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatal("expected stage failure to classify as external tool error")
	}
	var coder services.ExitCoder
	if !errors.As(err, &coder) {
		t.Fatal("expected stage failure to implement ExitCoder")
	}
	if coder.ExitCode() != 3 {
		t.Fatalf("exit code: got %d want 3", coder.ExitCode())
	}

	zero := &services.StageFailureError{Stage: "dot-to-svg"}
	if zero.ExitCode() != 1 {
		t.Fatalf("zero code should map to 1, got %d", zero.ExitCode())
	}
}

func TestWrapPreservesMarkerAndCause(t *testing.T) {
	cause := errors.New("boom")
	err := services.Wrap(services.ErrConfiguration, "dot-to-svg", "load options", "bad timeout", cause)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatal("expected configuration marker")
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause")
	}
	want := fmt.Sprintf("%s: dot-to-svg: load options: bad timeout: boom", services.ErrConfiguration)
	if err.Error() != want {
		t.Fatalf("message: got %q want %q", err.Error(), want)
	}
}

func TestNoPathFoundNamesBothEndpoints(t *testing.T) {
	err := &services.NoPathFoundError{Source: "markdown", Target: "png"}
	msg := err.Error()
	for _, part := range []string{"markdown", "png"} {
		if !strings.Contains(msg, part) {
			t.Fatalf("error %q should mention %q", msg, part)
		}
	}
}
