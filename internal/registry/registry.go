package registry

import (
	"fmt"

	"transmute/internal/services"
	"transmute/internal/stage"
)

// Format is a graph node: a named data representation with the filename
// extensions that identify it.
type Format struct {
	Name       string
	Extensions []string
}

// Stage is a directed edge: a converter bound to exactly one source format
// and one target format. Weight is the edge cost used by path selection
// (declared priority, minimum 1). Stages are immutable once registered.
type Stage struct {
	Name   string
	Source string
	Target string
	Weight int
	Impl   stage.Transformer
}

// Registry owns the full node and edge sets and the derived adjacency
// structure. Construction validates every edge endpoint against the declared
// formats; a dangling edge is a configuration error surfaced here, never at
// path-resolution time. Registration order of both formats and stages is
// preserved because extension lookup and tie-breaking depend on it.
type Registry struct {
	formats   []Format
	stages    []Stage
	byName    map[string]int
	adjacency map[string][]int
}

// New builds a registry from ordered format and stage declarations.
func New(formats []Format, stages []Stage) (*Registry, error) {
	r := &Registry{
		formats:   make([]Format, 0, len(formats)),
		stages:    make([]Stage, 0, len(stages)),
		byName:    make(map[string]int, len(formats)),
		adjacency: make(map[string][]int, len(formats)),
	}

	for _, format := range formats {
		if format.Name == "" {
			return nil, services.Wrap(services.ErrConfiguration, "", "register format", "empty format name", nil)
		}
		if _, dup := r.byName[format.Name]; dup {
			return nil, services.Wrap(services.ErrConfiguration, "", "register format", fmt.Sprintf("format %q declared more than once", format.Name), nil)
		}
		r.byName[format.Name] = len(r.formats)
		r.formats = append(r.formats, format)
	}

	seen := make(map[string]struct{}, len(stages))
	for _, st := range stages {
		if st.Name == "" {
			return nil, services.Wrap(services.ErrConfiguration, "", "register stage", "empty stage name", nil)
		}
		if _, dup := seen[st.Name]; dup {
			return nil, services.Wrap(services.ErrConfiguration, st.Name, "register stage", "declared more than once", nil)
		}
		seen[st.Name] = struct{}{}
		if _, ok := r.byName[st.Source]; !ok {
			return nil, services.Wrap(services.ErrConfiguration, st.Name, "register stage", fmt.Sprintf("unknown source format %q", st.Source), nil)
		}
		if _, ok := r.byName[st.Target]; !ok {
			return nil, services.Wrap(services.ErrConfiguration, st.Name, "register stage", fmt.Sprintf("unknown target format %q", st.Target), nil)
		}
		if st.Weight <= 0 {
			st.Weight = 1
		}
		index := len(r.stages)
		r.stages = append(r.stages, st)
		r.adjacency[st.Source] = append(r.adjacency[st.Source], index)
	}

	return r, nil
}

// Formats returns the registered formats in declaration order.
func (r *Registry) Formats() []Format {
	out := make([]Format, len(r.formats))
	copy(out, r.formats)
	return out
}

// Stages returns the registered stages in declaration order.
func (r *Registry) Stages() []Stage {
	out := make([]Stage, len(r.stages))
	copy(out, r.stages)
	return out
}

// HasFormat reports whether a format identifier is registered.
func (r *Registry) HasFormat(name string) bool {
	_, ok := r.byName[name]
	return ok
}
