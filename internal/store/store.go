// Package store persists exported artifacts.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrIOUnavailable marks failures to read or write the file system.
var ErrIOUnavailable = errors.New("i/o unavailable")

// Writer persists content at a path relative to its root.
type Writer interface {
	Write(path, content string) error
}

// FS writes files below Root, creating intermediate directories.
type FS struct {
	Root string
}

// NewFS returns a writer rooted at dir, made absolute when possible.
func NewFS(dir string) *FS {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return &FS{Root: dir}
}

// Path resolves rel against the writer root.
func (s *FS) Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(s.Root, rel)
}

func (s *FS) Write(rel, content string) error {
	path := s.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrIOUnavailable, filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrIOUnavailable, path, err)
	}
	return nil
}

// Remove deletes rel if it exists.
func (s *FS) Remove(rel string) error {
	err := os.Remove(s.Path(rel))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: removing %s: %v", ErrIOUnavailable, rel, err)
	}
	return nil
}

// ReadFile reads a source file, tagging failures as ErrIOUnavailable.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrIOUnavailable, err)
	}
	return string(data), nil
}
