package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olehluchkiv/umlbot/internal/diagram"
	"github.com/olehluchkiv/umlbot/internal/export"
)

type memStore struct {
	mu    sync.Mutex
	files map[string]string
}

func newMemStore() *memStore {
	return &memStore{files: make(map[string]string)}
}

func (m *memStore) Write(path, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = content
	return nil
}

func (m *memStore) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
	return nil
}

type recorder struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recorder) Emit(_, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, message)
}

func newSession(t *testing.T, root string) (*Session, *memStore, *recorder) {
	t.Helper()
	st := newMemStore()
	rec := &recorder{}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	s := NewSession(root, export.Options{Format: diagram.PlantUML}, export.Deps{Sink: rec, Logger: logger}, st)
	return s, st, rec
}

func writeFile(t *testing.T, root, rel, body string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestSession_ApplyReexportsChangedFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Shape.java", "public class Shape {\n    private int sides;\n}\n")
	s, st, _ := newSession(t, root)

	_, err := s.Export(context.Background(), []string{"Shape.java"})
	require.NoError(t, err)
	assert.Equal(t, "public\nShape\n- sides: int\n", st.files["Shape.txt"])

	writeFile(t, root, "Shape.java", "public class Shape {\n    private int sides;\n    protected String name;\n}\n")
	report, err := s.Apply(context.Background(), []string{"Shape.java"})
	require.NoError(t, err)
	require.Len(t, report.Units, 1)
	assert.Equal(t, "public\nShape\n- sides: int\n# name: String\n", st.files["Shape.txt"])
}

func TestSession_ApplyRemovesDeletedFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "shapes/Circle.java", "public class Circle {\n}\n")
	s, st, rec := newSession(t, root)

	_, err := s.Export(context.Background(), []string{filepath.Join("shapes", "Circle.java")})
	require.NoError(t, err)
	require.Contains(t, st.files, filepath.Join("shapes", "Circle.puml"))

	require.NoError(t, os.Remove(filepath.Join(root, "shapes", "Circle.java")))
	report, err := s.Apply(context.Background(), []string{filepath.Join("shapes", "Circle.java")})
	require.NoError(t, err)

	assert.Empty(t, report.Units)
	assert.Empty(t, st.files)
	assert.Empty(t, s.Units())
	assert.Contains(t, rec.msgs, "Removed Circle")
}

func TestSession_RenamedClassDropsOldMarkup(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Thing.java", "public class Old {\n}\n")
	s, st, _ := newSession(t, root)

	_, err := s.Export(context.Background(), []string{"Thing.java"})
	require.NoError(t, err)
	require.Contains(t, st.files, "Old.puml")

	writeFile(t, root, "Thing.java", "public class New {\n}\n")
	_, err = s.Apply(context.Background(), []string{"Thing.java"})
	require.NoError(t, err)

	assert.NotContains(t, st.files, "Old.puml")
	assert.Contains(t, st.files, "New.puml")
	assert.Contains(t, st.files, "Thing.txt")
}

func TestSession_BrokenFileClearsArtifacts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Box.java", "class Box {\n}\n")
	s, st, _ := newSession(t, root)

	_, err := s.Export(context.Background(), []string{"Box.java"})
	require.NoError(t, err)

	writeFile(t, root, "Box.java", "// being edited\n")
	report, err := s.Apply(context.Background(), []string{"Box.java"})
	require.NoError(t, err)
	require.Len(t, report.Failures, 1)
	assert.Empty(t, st.files)
}

func TestSession_DuplicateClassKeepsFirstMarkup(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "One.java", "public class Same {\n    private int a;\n}\n")
	s, st, _ := newSession(t, root)

	_, err := s.Export(context.Background(), []string{"One.java"})
	require.NoError(t, err)
	first := st.files["Same.puml"]
	require.NotEmpty(t, first)

	writeFile(t, root, "Two.java", "public class Same {\n    private String b;\n}\n")
	report, err := s.Apply(context.Background(), []string{"Two.java"})
	require.NoError(t, err)
	require.Len(t, report.Failures, 1)
	assert.ErrorIs(t, report.Failures[0].Err, export.ErrDuplicateClass)
	assert.Equal(t, first, st.files["Same.puml"])
	assert.NotContains(t, st.files, "Two.txt")

	require.NoError(t, os.Remove(filepath.Join(root, "Two.java")))
	_, err = s.Apply(context.Background(), []string{"Two.java"})
	require.NoError(t, err)
	assert.Equal(t, first, st.files["Same.puml"])
	assert.Contains(t, st.files, "One.txt")
	assert.Empty(t, s.Failures())
}

func TestSession_ReportKeepsFailuresUntilFixed(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Box.java", "class Box {\n}\n")
	writeFile(t, root, "Bad.java", "// nothing here\n")
	s, _, _ := newSession(t, root)

	report, err := s.Export(context.Background(), []string{"Bad.java", "Box.java"})
	require.NoError(t, err)
	require.Len(t, report.Failures, 1)

	writeFile(t, root, "Box.java", "class Box {\n    private int w;\n}\n")
	batch, err := s.Apply(context.Background(), []string{"Box.java"})
	require.NoError(t, err)
	assert.Empty(t, batch.Failures)

	state := s.Report()
	assert.Equal(t, root, state.Root)
	require.Len(t, state.Units, 1)
	require.Len(t, state.Failures, 1)
	assert.Equal(t, "Bad.java", state.Failures[0].Path)

	writeFile(t, root, "Bad.java", "class Bad {\n}\n")
	_, err = s.Apply(context.Background(), []string{"Bad.java"})
	require.NoError(t, err)
	state = s.Report()
	assert.Empty(t, state.Failures)
	assert.Len(t, state.Units, 2)
}

func TestSession_DeletedBrokenFileClearsFailure(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Bad.java", "// nothing here\n")
	s, _, _ := newSession(t, root)

	_, err := s.Export(context.Background(), []string{"Bad.java"})
	require.NoError(t, err)
	require.Len(t, s.Failures(), 1)

	require.NoError(t, os.Remove(filepath.Join(root, "Bad.java")))
	_, err = s.Apply(context.Background(), []string{"Bad.java"})
	require.NoError(t, err)
	assert.Empty(t, s.Failures())
}

func TestWatcher_RelSource(t *testing.T) {
	root := t.TempDir()
	w := &watcher{root: root}

	rel, ok := w.relSource(filepath.Join(root, "pkg", "Point.java"))
	assert.True(t, ok)
	assert.Equal(t, filepath.Join("pkg", "Point.java"), rel)

	for _, name := range []string{".Point.java.swp", "Point.java~", "README.md", ".#Point.java"} {
		_, ok := w.relSource(filepath.Join(root, name))
		assert.False(t, ok, name)
	}

	_, ok = w.relSource(filepath.Join(filepath.Dir(root), "Outside.java"))
	assert.False(t, ok)
}

func TestWatcher_SkipDir(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "umlbot")
	w := &watcher{root: root, ignoreDirs: map[string]bool{out: true}}

	assert.False(t, w.skipDir(root))
	assert.True(t, w.skipDir(out))
	assert.True(t, w.skipDir(filepath.Join(out, "nested")))
	assert.True(t, w.skipDir(filepath.Join(root, ".git")))
	assert.False(t, w.skipDir(filepath.Join(root, "src")))
	assert.False(t, w.skipDir(filepath.Join(root, "umlbot2")))
}

func TestWatch_ReportsChangedSources(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "umlbot"), 0o755))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	batches := make(chan []string, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, root, Options{Debounce: 50 * time.Millisecond, Ignore: []string{filepath.Join(root, "umlbot")}},
			func(changed []string) { batches <- changed })
	}()

	// Give the watcher time to register the root.
	time.Sleep(200 * time.Millisecond)
	writeFile(t, root, "umlbot/Ignored.java", "class Ignored {}")
	writeFile(t, root, "notes.txt", "hello")
	writeFile(t, root, "Point.java", "public class Point {}")

	select {
	case changed := <-batches:
		assert.Equal(t, []string{"Point.java"}, changed)
	case <-time.After(5 * time.Second):
		t.Fatal("no change batch received")
	}

	cancel()
	require.NoError(t, <-done)
}

func TestWatcher_TopLevel(t *testing.T) {
	root := t.TempDir()
	w := &watcher{root: root, topLevel: true}

	assert.True(t, w.skipDir(filepath.Join(root, "src")))
	_, ok := w.relSource(filepath.Join(root, "src", "Point.java"))
	assert.False(t, ok)
	rel, ok := w.relSource(filepath.Join(root, "Point.java"))
	assert.True(t, ok)
	assert.Equal(t, "Point.java", rel)
}

func TestWatcher_SkipDirMatchesDiscovery(t *testing.T) {
	root := t.TempDir()
	w := &watcher{root: root}

	assert.True(t, w.skipDir(filepath.Join(root, "build")))
	assert.False(t, w.skipDir(filepath.Join(root, "com", "acme", "out")))
}
