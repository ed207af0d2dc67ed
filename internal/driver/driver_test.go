package driver_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"transmute/internal/config"
	"transmute/internal/driver"
	"transmute/internal/payload"
	"transmute/internal/services"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("tests shell out to sh")
	}
	return &config.Config{
		Paths: config.Paths{
			WorkDir:  t.TempDir(),
			StateDir: t.TempDir(),
		},
		Formats: []config.Format{
			{Name: "text", Extensions: []string{".txt"}},
			{Name: "upper", Extensions: []string{".up"}},
		},
		Stages: []config.Stage{
			{
				Name:    "upcase",
				Source:  "text",
				Target:  "upper",
				Command: "sh",
				Args:    []string{"-c", "tr a-z A-Z < {input} > {output}"},
			},
			{
				Name:    "downcase",
				Source:  "upper",
				Target:  "text",
				Command: "sh",
				Args:    []string{"-c", "tr A-Z a-z < {input} > {output}"},
			},
		},
	}
}

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

func TestResolveAndExecute(t *testing.T) {
	cfg := testConfig(t)
	input := writeInput(t, "word.txt", "hello")

	res, err := driver.Resolve(driver.Options{Config: cfg, InputFile: input, Target: "upper"})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(res.Path.Stages) != 1 || res.Path.Stages[0].Name != "upcase" {
		t.Fatalf("unexpected path: %+v", res.Path)
	}

	out, err := res.Execute(context.Background(), driver.ExecOptions{})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	data, err := out.Bytes()
	if err != nil {
		t.Fatalf("final payload: %v", err)
	}
	if string(data) != "HELLO" {
		t.Fatalf("output: got %q want %q", data, "HELLO")
	}
}

func TestRoundTripIsBitIdentical(t *testing.T) {
	cfg := testConfig(t)
	original := "the quick brown fox\n"
	input := writeInput(t, "word.txt", original)

	forward, err := driver.Resolve(driver.Options{Config: cfg, InputFile: input, Target: "upper"})
	if err != nil {
		t.Fatalf("forward Resolve: %v", err)
	}
	intermediate, err := forward.Execute(context.Background(), driver.ExecOptions{})
	if err != nil {
		t.Fatalf("forward Execute: %v", err)
	}
	upperPath := filepath.Join(t.TempDir(), "word.up")
	if err := driver.Deliver(intermediate, upperPath, nil); err != nil {
		t.Fatalf("deliver intermediate: %v", err)
	}

	back, err := driver.Resolve(driver.Options{Config: cfg, InputFile: upperPath, Target: "text"})
	if err != nil {
		t.Fatalf("reverse Resolve: %v", err)
	}
	final, err := back.Execute(context.Background(), driver.ExecOptions{})
	if err != nil {
		t.Fatalf("reverse Execute: %v", err)
	}
	data, err := final.Bytes()
	if err != nil {
		t.Fatalf("final payload: %v", err)
	}
	if string(data) != original {
		t.Fatalf("round trip: got %q want %q", data, original)
	}
}

func TestResolveFailsForMissingInputFile(t *testing.T) {
	cfg := testConfig(t)
	_, err := driver.Resolve(driver.Options{
		Config:    cfg,
		InputFile: filepath.Join(t.TempDir(), "absent.txt"),
		Target:    "upper",
	})
	var noFile *services.NoFileError
	if !errors.As(err, &noFile) {
		t.Fatalf("expected NoFileError, got %v", err)
	}
}

func TestResolveFailsForUnknownExtension(t *testing.T) {
	cfg := testConfig(t)
	input := writeInput(t, "word.xyz", "hello")
	_, err := driver.Resolve(driver.Options{Config: cfg, InputFile: input, Target: "upper"})
	var unknown *services.UnknownExtensionError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownExtensionError, got %v", err)
	}
}

func TestResolveInfersTargetFromOutputFilename(t *testing.T) {
	cfg := testConfig(t)
	input := writeInput(t, "word.txt", "hello")
	res, err := driver.Resolve(driver.Options{
		Config:     cfg,
		InputFile:  input,
		OutputFile: filepath.Join(t.TempDir(), "word.up"),
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if res.Path.Target != "upper" {
		t.Fatalf("inferred target: got %q", res.Path.Target)
	}
}

func TestResolveRejectsTrivialPath(t *testing.T) {
	cfg := testConfig(t)
	input := writeInput(t, "word.txt", "hello")
	_, err := driver.Resolve(driver.Options{Config: cfg, InputFile: input, Target: "text"})
	var trivial *services.TrivialPathError
	if !errors.As(err, &trivial) {
		t.Fatalf("expected TrivialPathError, got %v", err)
	}
	if trivial.Format != "text" {
		t.Fatalf("trivial format: got %q", trivial.Format)
	}
}

func TestResolveReportsNoPath(t *testing.T) {
	cfg := testConfig(t)
	cfg.Formats = append(cfg.Formats, config.Format{Name: "island", Extensions: []string{".isl"}})
	input := writeInput(t, "word.txt", "hello")
	_, err := driver.Resolve(driver.Options{Config: cfg, InputFile: input, Target: "island"})
	var notFound *services.NoPathFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NoPathFoundError, got %v", err)
	}
	if notFound.Source != "text" || notFound.Target != "island" {
		t.Fatalf("endpoints: %+v", notFound)
	}
}

func TestOverrideSwitchesBinary(t *testing.T) {
	cfg := testConfig(t)
	cfg.Stages[0].Command = "transmute-no-such-tool"
	input := writeInput(t, "word.txt", "hello")

	res, err := driver.Resolve(driver.Options{
		Config:    cfg,
		InputFile: input,
		Target:    "upper",
		Overrides: []string{"stages.upcase.binary=sh"},
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	out, err := res.Execute(context.Background(), driver.ExecOptions{})
	if err != nil {
		t.Fatalf("Execute with override returned error: %v", err)
	}
	data, _ := out.Bytes()
	if string(data) != "HELLO" {
		t.Fatalf("output: got %q", data)
	}
}

func TestMalformedOverrideRejected(t *testing.T) {
	cfg := testConfig(t)
	input := writeInput(t, "word.txt", "hello")
	_, err := driver.Resolve(driver.Options{
		Config:    cfg,
		InputFile: input,
		Target:    "upper",
		Overrides: []string{"stages.upcase.binary"},
	})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestDryRunProducesNoArtifacts(t *testing.T) {
	cfg := testConfig(t)
	marker := filepath.Join(t.TempDir(), "marker")
	cfg.Stages[0].Args = []string{"-c", "touch " + marker + "; tr a-z A-Z < {input} > {output}"}
	input := writeInput(t, "word.txt", "hello")

	res, err := driver.Resolve(driver.Options{Config: cfg, InputFile: input, Target: "upper"})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if _, err := res.Execute(context.Background(), driver.ExecOptions{DryRun: true}); err != nil {
		t.Fatalf("dry Execute returned error: %v", err)
	}
	if _, err := os.Stat(marker); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("dry run touched the filesystem: stat err=%v", err)
	}
}

func TestDeliverToWriterAppendsNewline(t *testing.T) {
	cfg := testConfig(t)
	input := writeInput(t, "word.txt", "hello")
	res, err := driver.Resolve(driver.Options{Config: cfg, InputFile: input, Target: "upper"})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	out, err := res.Execute(context.Background(), driver.ExecOptions{})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	var buf bytes.Buffer
	if err := driver.Deliver(out, "", &buf); err != nil {
		t.Fatalf("Deliver returned error: %v", err)
	}
	if buf.String() != "HELLO\n" {
		t.Fatalf("stdout delivery: got %q", buf.String())
	}
}

func TestDeliverToFileWritesRawBytes(t *testing.T) {
	cfg := testConfig(t)
	input := writeInput(t, "word.txt", "hello")
	res, err := driver.Resolve(driver.Options{Config: cfg, InputFile: input, Target: "upper"})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	out, err := res.Execute(context.Background(), driver.ExecOptions{})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	dest := filepath.Join(t.TempDir(), "word.up")
	if err := driver.Deliver(out, dest, nil); err != nil {
		t.Fatalf("Deliver returned error: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read delivered file: %v", err)
	}
	if string(data) != "HELLO" {
		t.Fatalf("delivered bytes: got %q", data)
	}
}

func TestDeliverPreservesTrailingNewlines(t *testing.T) {
	var buf bytes.Buffer
	if err := driver.Deliver(payload.FromBytes([]byte("a\n\n")), "", &buf); err != nil {
		t.Fatalf("Deliver returned error: %v", err)
	}
	if buf.String() != "a\n\n" {
		t.Fatalf("stdout delivery: got %q want %q", buf.String(), "a\n\n")
	}
}
