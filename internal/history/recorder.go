package history

import (
	"context"
	"errors"
	"time"

	"transmute/internal/pipeline"
	"transmute/internal/services"
)

// Recorder adapts the store to the pipeline observer contract so every real
// run lands in the ledger. Dry runs are never recorded; the driver simply
// does not attach a recorder to them.
type Recorder struct {
	store *Store
}

// NewRecorder wraps a store.
func NewRecorder(store *Store) *Recorder {
	return &Recorder{store: store}
}

func (r *Recorder) RunStarted(ctx context.Context, info pipeline.RunInfo) error {
	return r.store.InsertRun(ctx, Run{
		ID:         info.ID,
		Source:     info.Source,
		Target:     info.Target,
		StageCount: info.StageCount,
	})
}

func (r *Recorder) StageCompleted(ctx context.Context, runID string, record pipeline.StageRecord) error {
	return r.store.InsertStage(ctx, runID, StageEntry{
		Index:    record.Index,
		Name:     record.Name,
		Source:   record.Source,
		Target:   record.Target,
		Status:   record.Status,
		ExitCode: record.ExitCode,
		Stderr:   record.Stderr,
		Duration: record.Duration,
	})
}

func (r *Recorder) RunFinished(ctx context.Context, runID string, runErr error, duration time.Duration) error {
	status := StatusSucceeded
	exitCode := 0
	message := ""
	if runErr != nil {
		status = StatusFailed
		message = runErr.Error()
		exitCode = 1
		var coder services.ExitCoder
		if errors.As(runErr, &coder) {
			exitCode = coder.ExitCode()
		}
	}
	return r.store.FinishRun(ctx, runID, status, exitCode, message, duration)
}
