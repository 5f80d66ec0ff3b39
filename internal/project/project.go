// Package project wires input resolution, configuration, discovery and the
// export pipeline into the steps shared by every command.
package project

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/olehluchkiv/umlbot/internal/config"
	"github.com/olehluchkiv/umlbot/internal/diagram"
	"github.com/olehluchkiv/umlbot/internal/discover"
	"github.com/olehluchkiv/umlbot/internal/export"
	"github.com/olehluchkiv/umlbot/internal/progress"
	"github.com/olehluchkiv/umlbot/internal/render"
	"github.com/olehluchkiv/umlbot/internal/resolver"
	"github.com/olehluchkiv/umlbot/internal/store"
)

// Project is a resolved source directory together with its settings.
type Project struct {
	Input      string
	Root       string
	Config     config.Config
	ConfigPath string // empty when the defaults are in use

	cleanup func()
}

// Open resolves input to a local directory and loads its configuration.
// configFile overrides the umlbot.toml lookup when set.
func Open(ctx context.Context, input, configFile string, logger *slog.Logger) (*Project, error) {
	logger = logger.With("component", "project")

	logger.Info("resolving input", "input", input)
	root, cleanup, err := resolver.Resolve(ctx, input, logger)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}

	cfg, path, err := config.Find(root, configFile)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("config: %w", err)
	}
	if path != "" {
		logger.Info("loaded config", "path", path)
	}

	return &Project{Input: input, Root: root, Config: cfg, ConfigPath: path, cleanup: cleanup}, nil
}

// Close releases resources held by the resolver.
func (p *Project) Close() {
	if p.cleanup != nil {
		p.cleanup()
	}
}

// OutDir is the absolute directory artifacts are written to.
func (p *Project) OutDir() string {
	return p.Config.OutputDir(p.Root)
}

// Store returns the artifact writer rooted at OutDir.
func (p *Project) Store() *store.FS {
	return store.NewFS(p.OutDir())
}

// Files lists the source files to export, never descending into OutDir.
func (p *Project) Files() ([]string, error) {
	return discover.Files(p.Root, discover.Options{
		Recursive: p.Config.Scan.Recursive,
		Gitignore: p.Config.Scan.Gitignore,
		Exclude:   []string{p.OutDir()},
	})
}

// ExportOptions translates the configuration into pipeline options.
func (p *Project) ExportOptions() export.Options {
	return export.Options{
		Format:       p.Config.MarkupFormat(),
		Diagram:      p.Config.DiagramOptions(),
		RenderFormat: p.Config.Render.Format,
		Jobs:         p.Config.Scan.Jobs,
		RenderJobs:   p.Config.Render.Jobs,
	}
}

// Renderer returns the external renderer matching the markup format, or nil
// when rendering is disabled.
func (p *Project) Renderer(logger *slog.Logger) render.Renderer {
	if !p.Config.Render.Enabled {
		return nil
	}
	if p.Config.MarkupFormat() == diagram.Mermaid {
		return render.NewMermaid(p.Config.Render.Mmdc, p.OutDir(), logger)
	}
	return render.NewPlantUML(p.Config.Render.Java, p.Config.Render.Jar, p.OutDir(), logger)
}

// Deps assembles the pipeline collaborators.
func (p *Project) Deps(sink progress.Sink, logger *slog.Logger) export.Deps {
	return export.Deps{
		Store:    p.Store(),
		Renderer: p.Renderer(logger),
		Sink:     sink,
		Logger:   logger,
	}
}

// Export discovers and exports every source file.
func (p *Project) Export(ctx context.Context, sink progress.Sink, logger *slog.Logger) (*export.Report, error) {
	if err := p.Config.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	files, err := p.Files()
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}
	logger.Info("discovered sources", "root", p.Root, "files", len(files))
	return export.Run(ctx, p.Root, files, p.ExportOptions(), p.Deps(sink, logger))
}
