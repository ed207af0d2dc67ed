package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Overlay is a hierarchical key-value store addressed by dotted paths
// (stages.<name>.<option>). Stages read it for behavior tuning; it never
// alters the conversion graph itself. Overrides are applied once, before
// path resolution begins, and the overlay is treated as read-only afterwards.
type Overlay struct {
	root map[string]any
}

// NewOverlay returns an empty overlay.
func NewOverlay() *Overlay {
	return &Overlay{root: make(map[string]any)}
}

// StageOverlay builds an overlay seeded from every stage's options table,
// keyed as stages.<name>.<option>.
func (c *Config) StageOverlay() (*Overlay, error) {
	overlay := NewOverlay()
	for _, st := range c.Stages {
		for key, value := range st.Options {
			if err := overlay.Set("stages."+st.Name+"."+key, value); err != nil {
				return nil, err
			}
		}
	}
	return overlay, nil
}

// Set stores a value under a dotted path, creating intermediate mapping
// levels as needed. Sibling keys at every level are preserved. Setting below
// an existing non-mapping value is a configuration error.
func (o *Overlay) Set(path string, value any) error {
	keys, err := splitPath(path)
	if err != nil {
		return err
	}
	node := o.root
	for i, key := range keys[:len(keys)-1] {
		child, ok := node[key]
		if !ok {
			next := make(map[string]any)
			node[key] = next
			node = next
			continue
		}
		next, ok := child.(map[string]any)
		if !ok {
			return fmt.Errorf("config override %q: %q is not a table", path, strings.Join(keys[:i+1], "."))
		}
		node = next
	}
	node[keys[len(keys)-1]] = value
	return nil
}

// Get returns the value stored under a dotted path.
func (o *Overlay) Get(path string) (any, bool) {
	keys, err := splitPath(path)
	if err != nil {
		return nil, false
	}
	node := o.root
	for _, key := range keys[:len(keys)-1] {
		child, ok := node[key].(map[string]any)
		if !ok {
			return nil, false
		}
		node = child
	}
	value, ok := node[keys[len(keys)-1]]
	return value, ok
}

// Scope returns a view of the overlay rooted at the given dotted prefix.
func (o *Overlay) Scope(prefix string) *Scoped {
	return &Scoped{overlay: o, prefix: prefix}
}

// Scoped is a read-only view of an overlay subtree, used by stages to look
// up their own options without knowing their position in the tree.
type Scoped struct {
	overlay *Overlay
	prefix  string
}

// Lookup returns the raw value for a key within the scope.
func (s *Scoped) Lookup(key string) (any, bool) {
	if s == nil || s.overlay == nil {
		return nil, false
	}
	return s.overlay.Get(s.prefix + "." + key)
}

// String returns the option as a string, or fallback when unset.
func (s *Scoped) String(key, fallback string) string {
	value, ok := s.Lookup(key)
	if !ok {
		return fallback
	}
	switch v := value.(type) {
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Int returns the option as an int, or fallback when unset or unparseable.
func (s *Scoped) Int(key string, fallback int) int {
	value, ok := s.Lookup(key)
	if !ok {
		return fallback
	}
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return parsed
		}
	}
	return fallback
}

// Bool returns the option as a bool, or fallback when unset or unparseable.
func (s *Scoped) Bool(key string, fallback bool) bool {
	value, ok := s.Lookup(key)
	if !ok {
		return fallback
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return parsed
		}
	}
	return fallback
}

// Strings returns the option as a string slice. Scalar values are wrapped in
// a single-element slice.
func (s *Scoped) Strings(key string) []string {
	value, ok := s.Lookup(key)
	if !ok {
		return nil
	}
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprintf("%v", item))
		}
		return out
	case string:
		return []string{v}
	default:
		return []string{fmt.Sprintf("%v", v)}
	}
}

func splitPath(path string) ([]string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("config override: empty path")
	}
	keys := strings.Split(trimmed, ".")
	for _, key := range keys {
		if key == "" {
			return nil, fmt.Errorf("config override %q: empty path segment", path)
		}
	}
	return keys, nil
}
