// Package export runs the scan → model → render pipeline over a batch of
// source files. Every file is processed independently; a failing file is
// recorded in the report and never stops the others.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/olehluchkiv/umlbot/internal/diagram"
	"github.com/olehluchkiv/umlbot/internal/model"
	"github.com/olehluchkiv/umlbot/internal/parser"
	"github.com/olehluchkiv/umlbot/internal/progress"
	"github.com/olehluchkiv/umlbot/internal/render"
	"github.com/olehluchkiv/umlbot/internal/store"
)

// ErrDuplicateClass means another source in the same directory already
// exports a class of the same name.
var ErrDuplicateClass = errors.New("duplicate class")

// Stage names the pipeline step a unit failed in.
type Stage string

const (
	StageRead   Stage = "read"
	StageParse  Stage = "parse"
	StageWrite  Stage = "write"
	StageRender Stage = "render"
)

// UnitError is a failure of one source file.
type UnitError struct {
	Path  string
	Stage Stage
	Err   error
}

func (e *UnitError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Stage, e.Err)
}

func (e *UnitError) Unwrap() error {
	return e.Err
}

// Unit is the exported result of one source file.
type Unit struct {
	Path        string // source path relative to the scanned root
	Class       *model.Class
	Summary     string
	Markup      string
	SummaryFile string // relative to the output dir
	MarkupFile  string
	Artifact    string // rendered image, empty when rendering is off
}

// Report lists every exported unit and every failure, both in input order.
type Report struct {
	Root     string
	Units    []Unit
	Failures []UnitError
}

// Failed reports whether any unit failed.
func (r *Report) Failed() bool {
	return len(r.Failures) > 0
}

// Options controls markup and parallelism.
type Options struct {
	Format       diagram.Format
	Diagram      diagram.Options
	RenderFormat string // svg, png, pdf
	Jobs         int    // parse workers; 0 selects GOMAXPROCS
	RenderJobs   int    // concurrent renderer invocations; 0 selects 1

	// Owners maps markup files already exported by sources outside the
	// batch to those sources.
	Owners map[string]string
}

// Deps are the collaborators the pipeline writes to.
type Deps struct {
	Store    store.Writer
	Renderer render.Renderer // nil disables rendering
	Sink     progress.Sink
	Logger   *slog.Logger
}

// ExportSource runs the pure per-file pipeline: strip comments, build the
// model, render summary and markup.
func ExportSource(path, raw string, opts Options) (*Unit, error) {
	class, err := parser.ParseSource(raw)
	if err != nil {
		return nil, err
	}
	base := strings.TrimSuffix(path, filepath.Ext(path))
	dir := filepath.Dir(path)
	return &Unit{
		Path:        path,
		Class:       class,
		Summary:     diagram.Summary(class),
		Markup:      diagram.Markup(class, opts.Format, opts.Diagram),
		SummaryFile: base + ".txt",
		MarkupFile:  filepath.Join(dir, class.Name()+opts.Format.Extension()),
	}, nil
}

// Run exports files (relative to root). The returned error is non-nil only
// when ctx was cancelled; per-file failures are in the report.
func Run(ctx context.Context, root string, files []string, opts Options, deps Deps) (*Report, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "export")
	sink := deps.Sink
	if sink == nil {
		sink = progress.Discard
	}

	sink.Emit(progress.Topic, "Analysing "+root)
	logger.Info("export started", "root", root, "files", len(files))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	limit := max(1, min(jobs, len(files)))

	// Indexes are unique per goroutine, so the slices need no lock.
	units := make([]*Unit, len(files))
	failures := make([]*UnitError, len(files))

	g := new(errgroup.Group)
	g.SetLimit(limit)
	for i, path := range files {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			unit, uerr := parseFile(root, path, opts)
			if uerr != nil {
				failures[i] = uerr
				logger.Warn("unit failed", "path", path, "stage", uerr.Stage, "error", uerr.Err)
				return nil
			}
			units[i] = unit
			return nil
		})
	}
	_ = g.Wait()

	claimMarkup(units, failures, opts.Owners, logger)

	w := new(errgroup.Group)
	w.SetLimit(limit)
	for i, unit := range units {
		if unit == nil {
			continue
		}
		if ctx.Err() != nil {
			units[i] = nil
			continue
		}
		w.Go(func() error {
			if uerr := writeUnit(unit, deps.Store, deps.Renderer == nil); uerr != nil {
				failures[i] = uerr
				units[i] = nil
				logger.Warn("unit failed", "path", unit.Path, "stage", uerr.Stage, "error", uerr.Err)
				return nil
			}
			sink.Emit(progress.Topic, "Exporting "+unit.Class.Name())
			logger.Debug("unit exported", "path", unit.Path, "class", unit.Class.Name(),
				"members", len(unit.Class.Members), "methods", len(unit.Class.Methods))
			return nil
		})
	}
	_ = w.Wait()

	if deps.Renderer != nil {
		renderUnits(ctx, units, failures, opts, deps.Renderer, logger)
	}

	report := &Report{Root: root}
	for i := range files {
		switch {
		case failures[i] != nil:
			report.Failures = append(report.Failures, *failures[i])
		case units[i] != nil:
			report.Units = append(report.Units, *units[i])
		}
	}

	sink.Emit(progress.Topic, fmt.Sprintf("Finished: %d exported, %d failed", len(report.Units), len(report.Failures)))
	logger.Info("export complete", "exported", len(report.Units), "failed", len(report.Failures))

	return report, ctx.Err()
}

func parseFile(root, path string, opts Options) (*Unit, *UnitError) {
	raw, err := store.ReadFile(filepath.Join(root, path))
	if err != nil {
		return nil, &UnitError{Path: path, Stage: StageRead, Err: err}
	}
	unit, err := ExportSource(path, raw, opts)
	if err != nil {
		return nil, &UnitError{Path: path, Stage: StageParse, Err: err}
	}
	return unit, nil
}

// claimMarkup gives each markup file to the first unit naming it, in input
// order. Later units declaring the same class in the same directory fail.
// owners lists markup files already held by sources outside this batch.
func claimMarkup(units []*Unit, failures []*UnitError, owners map[string]string, logger *slog.Logger) {
	claimed := make(map[string]string, len(units)+len(owners))
	for file, path := range owners {
		claimed[file] = path
	}
	for i, u := range units {
		if u == nil {
			continue
		}
		if prev, ok := claimed[u.MarkupFile]; ok && prev != u.Path {
			failures[i] = &UnitError{
				Path:  u.Path,
				Stage: StageWrite,
				Err:   fmt.Errorf("%w: %s is also declared in %s", ErrDuplicateClass, u.Class.Name(), prev),
			}
			units[i] = nil
			logger.Warn("unit failed", "path", u.Path, "stage", StageWrite, "error", failures[i].Err)
			continue
		}
		claimed[u.MarkupFile] = u.Path
	}
}

func writeUnit(unit *Unit, w store.Writer, writeMarkup bool) *UnitError {
	if err := w.Write(unit.SummaryFile, unit.Summary); err != nil {
		return &UnitError{Path: unit.Path, Stage: StageWrite, Err: err}
	}
	if writeMarkup {
		if err := w.Write(unit.MarkupFile, unit.Markup); err != nil {
			return &UnitError{Path: unit.Path, Stage: StageWrite, Err: err}
		}
	}
	return nil
}

// renderUnits queues one renderer invocation per exported unit. The renderer
// writes the markup file itself.
func renderUnits(ctx context.Context, units []*Unit, failures []*UnitError, opts Options, r render.Renderer, logger *slog.Logger) {
	limit := opts.RenderJobs
	if limit <= 0 {
		limit = 1
	}
	format := opts.RenderFormat
	if format == "" {
		format = "svg"
	}

	g := new(errgroup.Group)
	g.SetLimit(limit)
	for i, unit := range units {
		if unit == nil || ctx.Err() != nil {
			continue
		}
		g.Go(func() error {
			name := strings.TrimSuffix(unit.MarkupFile, filepath.Ext(unit.MarkupFile))
			artifact, err := r.Render(ctx, name, unit.Markup, format)
			if err != nil {
				failures[i] = &UnitError{Path: unit.Path, Stage: StageRender, Err: err}
				units[i] = nil
				logger.Warn("render failed", "path", unit.Path, "error", err)
				return nil
			}
			unit.Artifact = artifact
			return nil
		})
	}
	_ = g.Wait()
}
