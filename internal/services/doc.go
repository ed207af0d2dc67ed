// Package services defines the shared error taxonomy and context annotations
// used across the resolver and executor. Resolution-time failures (missing
// file, unknown extension, no path, trivial path) are usage errors detected
// before any converter runs; StageFailureError is the single execution-time
// failure and carries the converter's exit code through to the process exit
// status.
package services
