package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"transmute/internal/logging"
	"transmute/internal/payload"
	"transmute/internal/registry"
	"transmute/internal/services"
	"transmute/internal/stage"
)

// Options controls executor construction.
type Options struct {
	Logger   *slog.Logger
	Observer Observer
	Reporter Reporter
}

// RunOptions controls a single pipeline run.
type RunOptions struct {
	RunID  string
	DryRun bool
}

// Executor drives a resolved path: each stage receives the payload produced
// by the previous one, strictly in order, one at a time. The first stage
// that fails aborts the run; downstream stages never see a payload.
type Executor struct {
	logger   *slog.Logger
	observer Observer
	reporter Reporter
}

// New constructs an executor.
func New(opts Options) *Executor {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Executor{logger: logger, observer: opts.Observer, reporter: opts.Reporter}
}

// Run executes the path with the given initial payload and returns the final
// stage's output. An empty path is rejected as a trivial path rather than
// silently succeeding. In dry-run mode every stage is still visited in order
// so the chain can be reported, but converters are instructed to skip real
// work and the returned payload is a placeholder.
func (e *Executor) Run(ctx context.Context, path registry.Path, input *payload.Source, opts RunOptions) (*payload.Source, error) {
	if path.Empty() {
		return nil, &services.TrivialPathError{Format: path.Source}
	}

	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	ctx = services.WithRunID(ctx, runID)

	e.notifyRunStarted(ctx, RunInfo{
		ID:         runID,
		Source:     path.Source,
		Target:     path.Target,
		StageCount: len(path.Stages),
		DryRun:     opts.DryRun,
	})

	start := time.Now()
	current := input
	for i, st := range path.Stages {
		record, err := e.runStage(ctx, path, i, st, current, opts)
		if err != nil {
			e.notifyStage(ctx, runID, record)
			e.notifyRunFinished(ctx, runID, err, time.Since(start))
			return nil, err
		}
		e.notifyStage(ctx, runID, record)
		current = record.output
	}

	e.notifyRunFinished(ctx, runID, nil, time.Since(start))
	return current, nil
}

func (e *Executor) runStage(ctx context.Context, path registry.Path, index int, st registry.Stage, input *payload.Source, opts RunOptions) (StageRecord, error) {
	stageCtx := services.WithStage(ctx, st.Name)
	logger := logging.WithContext(stageCtx, e.logger)

	if e.reporter != nil {
		e.reporter.StageStarted(index, len(path.Stages), st)
	}
	logger.Info("stage started",
		logging.String(logging.FieldSource, st.Source),
		logging.String(logging.FieldTarget, st.Target),
		logging.Bool("dry_run", opts.DryRun),
	)

	start := time.Now()
	result, err := st.Impl.Transform(stageCtx, stage.Request{
		Input:  input,
		DryRun: opts.DryRun,
		Last:   index == len(path.Stages)-1,
	})
	duration := time.Since(start)

	record := StageRecord{
		Index:    index,
		Name:     st.Name,
		Source:   st.Source,
		Target:   st.Target,
		ExitCode: result.ExitCode,
		Stderr:   result.Stderr,
		Duration: duration,
		Status:   StatusSucceeded,
		output:   result.Output,
	}

	if err != nil {
		record.Status = StatusFailed
		if e.reporter != nil {
			e.reporter.StageFinished(index, len(path.Stages), st, err)
		}
		logger.Error("stage invocation failed", logging.Error(err), logging.Duration("duration", duration))
		return record, err
	}

	if result.ExitCode != 0 {
		failure := &services.StageFailureError{Stage: st.Name, Code: result.ExitCode, Stderr: result.Stderr}
		record.Status = StatusFailed
		if e.reporter != nil {
			e.reporter.StageFinished(index, len(path.Stages), st, failure)
		}
		logger.Error("stage failed",
			logging.Int("exit_code", result.ExitCode),
			logging.Duration("duration", duration),
		)
		return record, failure
	}

	if e.reporter != nil {
		e.reporter.StageFinished(index, len(path.Stages), st, nil)
	}
	logger.Info("stage completed", logging.Duration("duration", duration))
	return record, nil
}

func (e *Executor) notifyRunStarted(ctx context.Context, info RunInfo) {
	if e.observer == nil {
		return
	}
	if err := e.observer.RunStarted(ctx, info); err != nil {
		e.logger.Warn("run observer rejected start", logging.Error(err))
	}
}

func (e *Executor) notifyStage(ctx context.Context, runID string, record StageRecord) {
	if e.observer == nil {
		return
	}
	if err := e.observer.StageCompleted(ctx, runID, record); err != nil {
		e.logger.Warn("run observer rejected stage record", logging.Error(err))
	}
}

func (e *Executor) notifyRunFinished(ctx context.Context, runID string, runErr error, duration time.Duration) {
	if e.observer == nil {
		return
	}
	if err := e.observer.RunFinished(ctx, runID, runErr, duration); err != nil {
		e.logger.Warn("run observer rejected finish", logging.Error(err))
	}
}
