package stage

import (
	"context"

	"transmute/internal/payload"
)

// Request carries everything a converter needs for one invocation. Input is
// the payload produced by the previous stage (or the caller's original
// input). Last signals that this stage produces the pipeline's final
// artifact; converters may alter cleanup or formatting behavior accordingly.
type Request struct {
	Input  *payload.Source
	DryRun bool
	Last   bool
}

// Result is the outcome of one converter invocation. A nonzero ExitCode
// signals converter failure; Stderr is diagnostic text surfaced to the user
// verbatim. Output is only meaningful when ExitCode is zero.
type Result struct {
	Output   *payload.Source
	Stderr   string
	ExitCode int
}

// Transformer is the contract every registered converter implements. A dry
// run must perform no externally visible side effects and may return a
// placeholder payload. An error return means the converter could not be
// invoked at all, as opposed to running and failing.
type Transformer interface {
	Transform(ctx context.Context, req Request) (Result, error)
}

// TransformerFunc adapts a function to the Transformer interface.
type TransformerFunc func(ctx context.Context, req Request) (Result, error)

func (f TransformerFunc) Transform(ctx context.Context, req Request) (Result, error) {
	return f(ctx, req)
}
