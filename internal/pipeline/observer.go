package pipeline

import (
	"context"
	"time"

	"transmute/internal/payload"
	"transmute/internal/registry"
)

// Stage terminal statuses recorded by observers.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// RunInfo describes a pipeline run at the moment it starts.
type RunInfo struct {
	ID         string
	Source     string
	Target     string
	StageCount int
	DryRun     bool
}

// StageRecord is the outcome of one stage invocation, delivered to observers
// after the stage finishes.
type StageRecord struct {
	Index    int
	Name     string
	Source   string
	Target   string
	ExitCode int
	Stderr   string
	Duration time.Duration
	Status   string

	output *payload.Source
}

// Observer receives run lifecycle notifications, typically to persist a run
// ledger. Observer failures are logged and never abort the conversion.
type Observer interface {
	RunStarted(ctx context.Context, info RunInfo) error
	StageCompleted(ctx context.Context, runID string, record StageRecord) error
	RunFinished(ctx context.Context, runID string, runErr error, duration time.Duration) error
}

// Reporter receives per-stage progress callbacks for interactive display.
type Reporter interface {
	StageStarted(index, total int, st registry.Stage)
	StageFinished(index, total int, st registry.Stage, err error)
}
