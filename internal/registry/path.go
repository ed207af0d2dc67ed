package registry

import (
	"transmute/internal/services"
)

// Path is an ordered chain of stages connecting a source format to a target
// format. A path with zero stages is structurally valid (source equals
// target) but callers must treat it as a trivial path error since there is
// nothing to execute.
type Path struct {
	Source string
	Target string
	Stages []Stage
}

// Empty reports whether the path contains no stages.
func (p Path) Empty() bool { return len(p.Stages) == 0 }

type route struct {
	weight  int
	edges   []int
	reached bool
}

// MakePath computes the minimum-weight chain of stages from source to
// target. Ties between equal-weight paths are broken deterministically in
// favor of the path whose stages were registered earliest, by lexicographic
// comparison of registration indices. The computation never mutates the
// registry; repeated calls with the same inputs return the identical path.
func (r *Registry) MakePath(source, target string) (Path, error) {
	if !r.HasFormat(source) || !r.HasFormat(target) {
		return Path{}, &services.NoPathFoundError{Source: source, Target: target}
	}
	if source == target {
		return Path{Source: source, Target: target}, nil
	}

	best := make(map[string]route, len(r.formats))
	best[source] = route{reached: true}

	// Relax each format's outgoing edges until no route improves. Edge
	// weights are at least 1, so the (weight, registration order) ordering is
	// well founded and the loop terminates.
	for changed := true; changed; {
		changed = false
		for _, format := range r.formats {
			from, ok := best[format.Name]
			if !ok || !from.reached {
				continue
			}
			for _, index := range r.adjacency[format.Name] {
				st := r.stages[index]
				candidate := route{
					weight:  from.weight + st.Weight,
					edges:   appendEdge(from.edges, index),
					reached: true,
				}
				current, seen := best[st.Target]
				if !seen || betterRoute(candidate, current) {
					best[st.Target] = candidate
					changed = true
				}
			}
		}
	}

	final, ok := best[target]
	if !ok || !final.reached {
		return Path{}, &services.NoPathFoundError{Source: source, Target: target}
	}

	stages := make([]Stage, len(final.edges))
	for i, index := range final.edges {
		stages[i] = r.stages[index]
	}
	return Path{Source: source, Target: target, Stages: stages}, nil
}

func appendEdge(edges []int, index int) []int {
	out := make([]int, len(edges)+1)
	copy(out, edges)
	out[len(edges)] = index
	return out
}

func betterRoute(candidate, current route) bool {
	if !current.reached {
		return true
	}
	if candidate.weight != current.weight {
		return candidate.weight < current.weight
	}
	return lexLess(candidate.edges, current.edges)
}

// lexLess compares registration-index sequences lexicographically. Equal
// weights with positive edge costs imply equal-cost alternatives, so the
// earlier-registered sequence wins.
func lexLess(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
