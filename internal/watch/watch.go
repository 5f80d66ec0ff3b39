// Package watch re-exports source files as they change on disk.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/olehluchkiv/umlbot/internal/discover"
	"github.com/olehluchkiv/umlbot/internal/export"
	"github.com/olehluchkiv/umlbot/internal/progress"
	"github.com/olehluchkiv/umlbot/internal/store"
)

// DefaultDebounce is the quiet period collected into one batch of changes.
const DefaultDebounce = 250 * time.Millisecond

// Store writes and removes exported artifacts.
type Store interface {
	store.Writer
	Remove(path string) error
}

// Session keeps the last outcome of every file: its export, so deletions
// can clean up artifacts named after the class rather than the file, or its
// failure, until the file is fixed or removed.
type Session struct {
	Root    string
	Options export.Options
	Deps    export.Deps
	Store   Store

	units    map[string]export.Unit
	failures map[string]export.UnitError
}

// NewSession returns a session exporting root through st.
func NewSession(root string, opts export.Options, deps export.Deps, st Store) *Session {
	deps.Store = st
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Sink == nil {
		deps.Sink = progress.Discard
	}
	return &Session{
		Root:    root,
		Options: opts,
		Deps:    deps,
		Store:   st,
		units:    make(map[string]export.Unit),
		failures: make(map[string]export.UnitError),
	}
}

// Export runs an export of files and remembers the results. Markup files
// held by sources outside the batch cannot be taken over.
func (s *Session) Export(ctx context.Context, files []string) (*export.Report, error) {
	inBatch := make(map[string]bool, len(files))
	for _, f := range files {
		inBatch[f] = true
	}
	opts := s.Options
	opts.Owners = make(map[string]string, len(s.units))
	for path, u := range s.units {
		if !inBatch[path] {
			opts.Owners[u.MarkupFile] = path
		}
	}

	report, err := export.Run(ctx, s.Root, files, opts, s.Deps)
	if report != nil {
		s.record(files, report)
	}
	return report, err
}

// Apply handles a batch of changed paths relative to Root. Files that still
// exist are re-exported; files that are gone have their artifacts removed.
func (s *Session) Apply(ctx context.Context, changed []string) (*export.Report, error) {
	var present []string
	for _, rel := range changed {
		if _, err := os.Stat(filepath.Join(s.Root, rel)); err == nil {
			present = append(present, rel)
			continue
		}
		s.forget(rel)
	}
	if len(present) == 0 {
		return &export.Report{Root: s.Root}, nil
	}
	return s.Export(ctx, present)
}

func (s *Session) record(files []string, report *export.Report) {
	for _, f := range report.Failures {
		s.forget(f.Path)
		s.failures[f.Path] = f
	}
	var stale []string
	for _, u := range report.Units {
		if prev, ok := s.units[u.Path]; ok && prev.MarkupFile != u.MarkupFile {
			// Class renamed inside the same file.
			stale = append(stale, prev.MarkupFile)
		}
		s.units[u.Path] = u
		delete(s.failures, u.Path)
	}
	for _, file := range stale {
		if !s.owned(file) {
			s.remove(file)
		}
	}
}

func (s *Session) forget(rel string) {
	delete(s.failures, rel)
	prev, ok := s.units[rel]
	if !ok {
		return
	}
	delete(s.units, rel)
	s.remove(prev.SummaryFile)
	if !s.owned(prev.MarkupFile) {
		s.remove(prev.MarkupFile)
	}
	s.Deps.Sink.Emit(progress.Topic, "Removed "+prev.Class.Name())
}

// owned reports whether a current unit writes markup file.
func (s *Session) owned(file string) bool {
	for _, u := range s.units {
		if u.MarkupFile == file {
			return true
		}
	}
	return false
}

func (s *Session) remove(rel string) {
	if err := s.Store.Remove(rel); err != nil {
		s.Deps.Logger.Warn("removing artifact failed", "path", rel, "error", err)
	}
}

// Units returns the currently exported units ordered by path.
func (s *Session) Units() []export.Unit {
	out := make([]export.Unit, 0, len(s.units))
	for _, u := range s.units {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Failures returns the files whose latest export failed, ordered by path.
func (s *Session) Failures() []export.UnitError {
	out := make([]export.UnitError, 0, len(s.failures))
	for _, f := range s.failures {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Report is the accumulated state of every file seen so far.
func (s *Session) Report() *export.Report {
	return &export.Report{Root: s.Root, Units: s.Units(), Failures: s.Failures()}
}

// Options controls the watcher.
type Options struct {
	Debounce  time.Duration
	Gitignore bool
	TopLevel  bool     // only files directly in the root
	Ignore    []string // absolute directories never watched, e.g. the output dir
}

// Watch blocks until ctx is done, calling onChange with the sorted source
// paths (relative to root) touched during each debounce window.
func Watch(ctx context.Context, root string, opts Options, onChange func(changed []string)) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	absRoot = filepath.Clean(absRoot)

	w := &watcher{root: absRoot, topLevel: opts.TopLevel, ignoreDirs: make(map[string]bool)}
	for _, dir := range opts.Ignore {
		if abs, err := filepath.Abs(dir); err == nil {
			w.ignoreDirs[filepath.Clean(abs)] = true
		}
	}
	if opts.Gitignore {
		if gi, err := ignore.CompileIgnoreFile(filepath.Join(absRoot, ".gitignore")); err == nil {
			w.gitignore = gi
		}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := w.addRecursive(fw, absRoot); err != nil {
		return err
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	pending := map[string]bool{}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			path := filepath.Clean(event.Name)
			if w.ignoredDir(path) {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(path); err == nil && info.IsDir() {
					_ = w.addRecursive(fw, path)
					continue
				}
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			rel, ok := w.relSource(path)
			if !ok {
				continue
			}
			pending[rel] = true
			timer.Reset(debounce)
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for rel := range pending {
				changed = append(changed, rel)
			}
			sort.Strings(changed)
			pending = map[string]bool{}
			onChange(changed)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

type watcher struct {
	root       string
	topLevel   bool
	ignoreDirs map[string]bool
	gitignore  *ignore.GitIgnore
}

func (w *watcher) addRecursive(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if w.skipDir(path) {
			return filepath.SkipDir
		}
		return fw.Add(path)
	})
}

func (w *watcher) skipDir(path string) bool {
	if path == w.root {
		return false
	}
	if w.topLevel || w.ignoredDir(path) || discover.SkipDir(w.root, path) {
		return true
	}
	if w.gitignore != nil {
		if rel, err := filepath.Rel(w.root, path); err == nil && w.gitignore.MatchesPath(rel+"/") {
			return true
		}
	}
	return false
}

// ignoredDir reports whether path is, or lies below, an ignored directory.
func (w *watcher) ignoredDir(path string) bool {
	for dir := range w.ignoreDirs {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// relSource maps an event path to a source path relative to the root,
// dropping editor temp files, hidden files and non-source files.
func (w *watcher) relSource(path string) (string, bool) {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") || !discover.IsSource(base) {
		return "", false
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	if w.topLevel && strings.ContainsRune(rel, filepath.Separator) {
		return "", false
	}
	if w.gitignore != nil && w.gitignore.MatchesPath(rel) {
		return "", false
	}
	return rel, true
}
