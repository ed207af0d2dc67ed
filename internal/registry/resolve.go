package registry

import (
	"path/filepath"

	"transmute/internal/services"
)

// ResolveFile maps a filename's extension to a registered format identifier.
// Lookup walks formats in registration order and each format's extension
// list in declaration order; the first match wins. When two formats register
// the same extension the earlier registrant is chosen, deliberately and
// deterministically. An empty filename yields NoFileError because no format
// can be inferred.
func (r *Registry) ResolveFile(filename string) (string, error) {
	if filename == "" {
		return "", &services.NoFileError{}
	}
	suffix := filepath.Ext(filename)
	for _, format := range r.formats {
		for _, ext := range format.Extensions {
			if suffix == ext {
				return format.Name, nil
			}
		}
	}
	return "", &services.UnknownExtensionError{Filename: filename}
}

// ExtensionFor returns the first declared extension for a format, used to
// name scratch files so downstream tools can sniff the type. Formats without
// extensions yield an empty string.
func (r *Registry) ExtensionFor(name string) string {
	index, ok := r.byName[name]
	if !ok {
		return ""
	}
	if exts := r.formats[index].Extensions; len(exts) > 0 {
		return exts[0]
	}
	return ""
}
