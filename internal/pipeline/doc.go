// Package pipeline executes a resolved conversion path. Execution is a
// linear state machine: each stage runs to completion before the next one
// starts, the payload produced by a stage becomes the input of its
// successor, and the first failure aborts the remaining chain while
// preserving the failing converter's exit code and diagnostics.
package pipeline
