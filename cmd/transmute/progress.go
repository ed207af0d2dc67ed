package main

import (
	"fmt"
	"io"

	"transmute/internal/pipeline"
	"transmute/internal/registry"
)

var _ pipeline.Reporter = (*progressReporter)(nil)

// progressReporter prints one line per stage on the error stream. It stays
// silent when the stream is not a terminal or --quiet was given, so piped
// output never mixes with progress text.
type progressReporter struct {
	w       io.Writer
	enabled bool
}

func newProgressReporter(w io.Writer, enabled bool) *progressReporter {
	return &progressReporter{w: w, enabled: enabled}
}

func (p *progressReporter) StageStarted(index, total int, st registry.Stage) {
	if !p.enabled {
		return
	}
	fmt.Fprintf(p.w, "[%d/%d] %s (%s -> %s) ... ", index+1, total, st.Name, st.Source, st.Target)
}

func (p *progressReporter) StageFinished(index, total int, st registry.Stage, err error) {
	if !p.enabled {
		return
	}
	if err != nil {
		fmt.Fprintln(p.w, "failed")
		return
	}
	fmt.Fprintln(p.w, "done")
}
