// Package discover finds source files to analyse.
package discover

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// Extension is the suffix of files the scanner understands.
const Extension = ".java"

// skipDirs are build and dependency directories, recognised only directly
// under the scan root so that packages named e.g. "out" are still scanned.
var skipDirs = map[string]struct{}{
	"node_modules": {},
	"build":        {},
	"target":       {},
	"out":          {},
	"bin":          {},
	"dist":         {},
}

// Options controls the walk.
type Options struct {
	Recursive bool
	Gitignore bool     // honour <root>/.gitignore
	Exclude   []string // absolute directories never entered, e.g. the output dir
}

// Files returns the paths of source files under root, relative to root and
// sorted. Hidden files and directories are skipped.
func Files(root string, opts Options) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	var gi *ignore.GitIgnore
	if opts.Gitignore {
		gi = loadGitignore(root)
	}
	exclude := make(map[string]struct{}, len(opts.Exclude))
	for _, e := range opts.Exclude {
		if abs, err := filepath.Abs(e); err == nil {
			exclude[filepath.Clean(abs)] = struct{}{}
		}
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", root, err)
	}

	var results []string
	err = filepath.WalkDir(absRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		name := d.Name()

		if d.IsDir() {
			if path == absRoot {
				return nil
			}
			if !opts.Recursive {
				return filepath.SkipDir
			}
			if SkipDir(absRoot, path) {
				return filepath.SkipDir
			}
			if _, skip := exclude[path]; skip {
				return filepath.SkipDir
			}
			if gi != nil {
				if rel, err := filepath.Rel(absRoot, path); err == nil && gi.MatchesPath(rel+"/") {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if strings.HasPrefix(name, ".") || !IsSource(name) {
			return nil
		}
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return nil
		}
		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}
		results = append(results, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(results)
	return results, nil
}

// SkipDir reports whether the directory at path is never scanned: hidden
// directories at any depth, build directories directly under root.
func SkipDir(root, path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return true
	}
	if filepath.Dir(path) != filepath.Clean(root) {
		return false
	}
	_, skip := skipDirs[name]
	return skip
}

// IsSource reports whether name looks like a scannable source file.
func IsSource(name string) bool {
	return strings.HasSuffix(name, Extension)
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}
