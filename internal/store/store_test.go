package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSWrite_CreatesIntermediateDirs(t *testing.T) {
	root := t.TempDir()
	s := NewFS(filepath.Join(root, "umlbot"))

	require.NoError(t, s.Write(filepath.Join("com", "acme", "Foo.txt"), "public\nFoo\n"))

	data, err := os.ReadFile(filepath.Join(root, "umlbot", "com", "acme", "Foo.txt"))
	require.NoError(t, err)
	assert.Equal(t, "public\nFoo\n", string(data))
}

func TestFSWrite_Overwrites(t *testing.T) {
	s := NewFS(t.TempDir())
	require.NoError(t, s.Write("a.txt", "one"))
	require.NoError(t, s.Write("a.txt", "two"))

	data, err := os.ReadFile(s.Path("a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestFSWrite_Unwritable(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	// A regular file where a directory is needed.
	s := NewFS(blocker)
	err := s.Write("sub/a.txt", "content")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIOUnavailable))
}

func TestFSRemove_Missing(t *testing.T) {
	s := NewFS(t.TempDir())
	assert.NoError(t, s.Remove("nope.txt"))
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "Missing.java"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIOUnavailable))
}
