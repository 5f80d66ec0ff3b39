// Package render hands diagram markup to an external rendering program.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/olehluchkiv/umlbot/internal/store"
)

var (
	// ErrRendererNotFound means the rendering executable could not be started.
	ErrRendererNotFound = errors.New("renderer not found")

	// ErrRendererFailed means the renderer ran but did not produce an artifact.
	ErrRendererFailed = errors.New("renderer failed")
)

// Renderer turns markup into an image artifact and returns its path.
// Implementations make a single attempt; retries belong to a wrapper.
type Renderer interface {
	Render(ctx context.Context, name, markup, format string) (string, error)
}

// invocation is one external command run against a markup file.
type invocation struct {
	store    *store.FS
	logger   *slog.Logger
	markup   string // markup file, relative to the store root
	artifact string // expected output, relative to the store root
}

func (inv invocation) run(ctx context.Context, content string, command string, args ...string) (string, error) {
	if err := inv.store.Write(inv.markup, content); err != nil {
		return "", err
	}
	artifact := inv.store.Path(inv.artifact)
	_ = os.Remove(artifact)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = inv.store.Root
	cmd.Stderr = &stderr

	inv.logger.Debug("invoking renderer", "command", command, "args", args)
	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s: %v", ErrRendererNotFound, command, err)
		}
		return "", fmt.Errorf("%w: %s: %v: %s", ErrRendererFailed, command, err, strings.TrimSpace(stderr.String()))
	}
	if _, err := os.Stat(artifact); err != nil {
		return "", fmt.Errorf("%w: %s produced no %s", ErrRendererFailed, command, filepath.Base(artifact))
	}
	return artifact, nil
}

// PlantUML renders through `java -jar plantuml.jar`.
type PlantUML struct {
	Java   string // invocation path of the JVM; empty selects "java"
	Jar    string // path to plantuml.jar; empty selects "plantuml.jar"
	Store  *store.FS
	Logger *slog.Logger
}

// NewPlantUML returns a PlantUML renderer writing below outDir.
func NewPlantUML(java, jar, outDir string, logger *slog.Logger) *PlantUML {
	return &PlantUML{
		Java:   java,
		Jar:    jar,
		Store:  store.NewFS(outDir),
		Logger: logger.With("component", "plantuml"),
	}
}

func (p *PlantUML) Render(ctx context.Context, name, markup, format string) (string, error) {
	java := p.Java
	if java == "" {
		java = "java"
	}
	jar := p.Jar
	if jar == "" {
		jar = "plantuml.jar"
	}
	if abs, err := filepath.Abs(jar); err == nil {
		jar = abs
	}

	inv := invocation{
		store:    p.Store,
		logger:   p.Logger,
		markup:   name + ".puml",
		artifact: name + "." + format,
	}
	return inv.run(ctx, markup, java, "-jar", jar, "-t"+format, p.Store.Path(inv.markup))
}

// Mermaid renders through the mermaid-cli `mmdc` executable.
type Mermaid struct {
	Command string // empty selects "mmdc"
	Store   *store.FS
	Logger  *slog.Logger
}

// NewMermaid returns a Mermaid renderer writing below outDir.
func NewMermaid(command, outDir string, logger *slog.Logger) *Mermaid {
	return &Mermaid{
		Command: command,
		Store:   store.NewFS(outDir),
		Logger:  logger.With("component", "mmdc"),
	}
}

func (m *Mermaid) Render(ctx context.Context, name, markup, format string) (string, error) {
	command := m.Command
	if command == "" {
		command = "mmdc"
	}
	inv := invocation{
		store:    m.Store,
		logger:   m.Logger,
		markup:   name + ".mmd",
		artifact: name + "." + format,
	}
	return inv.run(ctx, markup, command, "-i", m.Store.Path(inv.markup), "-o", m.Store.Path(inv.artifact))
}
