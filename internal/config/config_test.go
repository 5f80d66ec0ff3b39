package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/olehluchkiv/umlbot/internal/diagram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, diagram.PlantUML, cfg.MarkupFormat())
	assert.Equal(t, diagram.Options{}, cfg.DiagramOptions())
	assert.Empty(t, cfg.Render.Java)
}

func TestFind_NoFileUsesDefaults(t *testing.T) {
	cfg, path, err := Find(t.TempDir(), "")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, Default(), cfg)
}

func TestFind_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	want := writeConfig(t, dir, `
[output]
markup = "mermaid"
include_relations = true

[render]
enabled = true
java = "/opt/jdk/bin/java"
`)

	cfg, path, err := Find(dir, "")
	require.NoError(t, err)
	assert.Equal(t, want, path)
	assert.Equal(t, diagram.Mermaid, cfg.MarkupFormat())
	assert.True(t, cfg.Output.IncludeRelations)
	assert.True(t, cfg.Render.Enabled)
	assert.Equal(t, "/opt/jdk/bin/java", cfg.Render.Java)
	assert.Equal(t, "umlbot", cfg.Output.Dir)
	assert.Equal(t, "svg", cfg.Render.Format)
	assert.Equal(t, "plantuml.jar", cfg.Render.Jar)
	assert.True(t, cfg.Scan.Gitignore)
}

func TestFind_Explicit(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[scan]\nrecursive = false\njobs = 4\n")
	cfg, got, err := Find(t.TempDir(), path)
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.False(t, cfg.Scan.Recursive)
	assert.Equal(t, 4, cfg.Scan.Jobs)
}

func TestLoad_InvalidValues(t *testing.T) {
	for name, body := range map[string]string{
		"markup":  "[output]\nmarkup = \"graphviz\"\n",
		"format":  "[render]\nformat = \"bmp\"\n",
		"jobs":    "[scan]\njobs = -1\n",
		"unknown": "[output]\ncolour = \"red\"\n",
		"syntax":  "[output\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, t.TempDir(), body))
			assert.Error(t, err)
		})
	}
}

func TestOutputDir(t *testing.T) {
	cfg := Default()
	assert.Equal(t, filepath.Join("/src", "umlbot"), cfg.OutputDir("/src"))

	cfg.Output.Dir = filepath.Join(t.TempDir(), "abs")
	assert.Equal(t, cfg.Output.Dir, cfg.OutputDir("/src"))
}

func TestWrite_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	cfg := Default()
	cfg.Output.Markup = "mermaid"
	cfg.Render.Enabled = true

	require.NoError(t, Write(path, cfg))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)

	err = Write(path, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
