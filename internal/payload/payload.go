package payload

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Kind discriminates the two payload variants.
type Kind int

const (
	// KindFile is a payload backed by a filesystem location.
	KindFile Kind = iota
	// KindBytes is a payload held in memory.
	KindBytes
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindBytes:
		return "bytes"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Source is the data object threaded between pipeline stages. It is either a
// reference to a file on disk or an in-memory byte buffer. Ownership is
// single-holder: once a stage hands its output downstream, the superseded
// payload must not be read again.
type Source struct {
	kind Kind
	path string
	data []byte
}

// FromFile wraps an existing filesystem location.
func FromFile(path string) *Source {
	return &Source{kind: KindFile, path: filepath.Clean(path)}
}

// FromBytes wraps an in-memory buffer.
func FromBytes(data []byte) *Source {
	return &Source{kind: KindBytes, data: data}
}

// Empty returns a placeholder payload used by dry runs. It materializes to
// zero bytes.
func Empty() *Source {
	return &Source{kind: KindBytes}
}

// Kind reports which variant this payload is.
func (s *Source) Kind() Kind {
	if s == nil {
		return KindBytes
	}
	return s.kind
}

// Path returns the filesystem location for file-backed payloads.
func (s *Source) Path() (string, bool) {
	if s == nil || s.kind != KindFile {
		return "", false
	}
	return s.path, true
}

// Bytes materializes the payload as a byte slice. File-backed payloads are
// read from disk on every call; consumers are expected to read a payload at
// most once in its final form.
func (s *Source) Bytes() ([]byte, error) {
	if s == nil {
		return nil, errors.New("payload: nil source")
	}
	switch s.kind {
	case KindFile:
		data, err := os.ReadFile(s.path)
		if err != nil {
			return nil, fmt.Errorf("payload: read %s: %w", s.path, err)
		}
		return data, nil
	case KindBytes:
		return s.data, nil
	default:
		return nil, fmt.Errorf("payload: unsupported kind %s", s.kind)
	}
}

// WriteFile writes the materialized payload to the given location. File-backed
// payloads that already live at the destination are left untouched.
func (s *Source) WriteFile(path string) error {
	if s == nil {
		return errors.New("payload: nil source")
	}
	if existing, ok := s.Path(); ok {
		abs, err := filepath.Abs(existing)
		if err == nil {
			if dest, destErr := filepath.Abs(path); destErr == nil && dest == abs {
				return nil
			}
		}
	}
	data, err := s.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("payload: write %s: %w", path, err)
	}
	return nil
}

// String describes the payload for logging and dry-run output.
func (s *Source) String() string {
	if s == nil {
		return "<nil>"
	}
	switch s.kind {
	case KindFile:
		return fmt.Sprintf("file(%s)", s.path)
	case KindBytes:
		return fmt.Sprintf("bytes(%d)", len(s.data))
	default:
		return s.kind.String()
	}
}
