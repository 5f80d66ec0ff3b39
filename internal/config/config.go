// Package config loads umlbot settings from an optional umlbot.toml file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/olehluchkiv/umlbot/internal/diagram"
)

// FileName is the config file looked up in the scanned directory.
const FileName = "umlbot.toml"

// Config is the complete set of export settings. It is passed explicitly
// through the call chain.
type Config struct {
	Output Output `toml:"output"`
	Render Render `toml:"render"`
	Scan   Scan   `toml:"scan"`
}

// Output controls where and how artifacts are written.
type Output struct {
	Dir                 string `toml:"dir"`    // relative to the scanned directory unless absolute
	Markup              string `toml:"markup"` // plantuml or mermaid
	IncludeConstructors bool   `toml:"include_constructors"`
	IncludeRelations    bool   `toml:"include_relations"`
}

// Render controls the external diagram renderer.
type Render struct {
	Enabled bool   `toml:"enabled"`
	Format  string `toml:"format"` // svg, png or pdf
	Java    string `toml:"java"`   // empty selects the platform "java"
	Jar     string `toml:"jar"`
	Mmdc    string `toml:"mmdc"` // empty selects "mmdc"
	Jobs    int    `toml:"jobs"`
}

// Scan controls source discovery and parsing.
type Scan struct {
	Recursive bool `toml:"recursive"`
	Gitignore bool `toml:"gitignore"`
	Jobs      int  `toml:"jobs"` // 0 selects GOMAXPROCS
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		Output: Output{Dir: "umlbot", Markup: string(diagram.PlantUML)},
		Render: Render{Format: "svg", Jar: "plantuml.jar", Jobs: 1},
		Scan:   Scan{Recursive: true, Gitignore: true},
	}
}

var renderFormats = map[string]bool{"svg": true, "png": true, "pdf": true}

// Validate checks enumerated values and bounds.
func (c Config) Validate() error {
	if _, err := diagram.ParseFormat(c.Output.Markup); err != nil {
		return err
	}
	if strings.TrimSpace(c.Output.Dir) == "" {
		return errors.New("output dir must not be empty")
	}
	if !renderFormats[c.Render.Format] {
		return fmt.Errorf("unknown render format %q (valid: svg, png, pdf)", c.Render.Format)
	}
	if c.Render.Jobs < 0 || c.Scan.Jobs < 0 {
		return errors.New("jobs must not be negative")
	}
	return nil
}

// MarkupFormat returns the validated markup dialect.
func (c Config) MarkupFormat() diagram.Format {
	f, err := diagram.ParseFormat(c.Output.Markup)
	if err != nil {
		return diagram.PlantUML
	}
	return f
}

// DiagramOptions returns the markup options.
func (c Config) DiagramOptions() diagram.Options {
	return diagram.Options{
		IncludeConstructors: c.Output.IncludeConstructors,
		IncludeRelations:    c.Output.IncludeRelations,
	}
}

// OutputDir resolves the output directory against the scanned directory.
func (c Config) OutputDir(root string) string {
	if filepath.IsAbs(c.Output.Dir) {
		return c.Output.Dir
	}
	return filepath.Join(root, c.Output.Dir)
}

// Load reads path over the defaults. Keys absent from the file keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Find loads explicit if set, otherwise umlbot.toml in dir when present,
// otherwise the defaults. The returned path is empty when no file was read.
func Find(dir, explicit string) (Config, string, error) {
	if explicit != "" {
		cfg, err := Load(explicit)
		return cfg, explicit, err
	}
	candidate := filepath.Join(dir, FileName)
	if _, err := os.Stat(candidate); err == nil {
		cfg, err := Load(candidate)
		return cfg, candidate, err
	} else if !errors.Is(err, os.ErrNotExist) {
		return Config{}, "", fmt.Errorf("failed to stat %q: %w", candidate, err)
	}
	return Default(), "", nil
}

// Write encodes cfg as TOML to path. An existing file is never overwritten.
func Write(path string, cfg Config) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s already exists", path)
		}
		return err
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		_ = f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
