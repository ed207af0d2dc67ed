package history

import "time"

// Run terminal and in-flight statuses.
const (
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Run is one recorded pipeline execution.
type Run struct {
	ID           string
	Source       string
	Target       string
	StageCount   int
	Status       string
	ExitCode     int
	ErrorMessage string
	CreatedAt    time.Time
	Duration     time.Duration
}

// StageEntry is one recorded stage invocation within a run.
type StageEntry struct {
	Index    int
	Name     string
	Source   string
	Target   string
	Status   string
	ExitCode int
	Stderr   string
	Duration time.Duration
}
