package main

import (
	"github.com/spf13/cobra"

	"github.com/olehluchkiv/umlbot/internal/config"
)

// exportFlags mirror the config file keys. Only flags set on the command line
// override the file.
type exportFlags struct {
	out          string
	markup       string
	constructors bool
	relations    bool
	render       bool
	renderFormat string
	java         string
	jar          string
	mmdc         string
	jobs         int
	renderJobs   int
	topLevel     bool
	noGitignore  bool
}

func (f *exportFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.out, "out", "o", "", "output directory, relative to the scanned dir (config: output.dir)")
	fs.StringVar(&f.markup, "markup", "", "markup format: plantuml or mermaid (config: output.markup)")
	fs.BoolVar(&f.constructors, "constructors", false, "include constructors in markup")
	fs.BoolVar(&f.relations, "relations", false, "include extends/implements edges in markup")
	fs.BoolVar(&f.render, "render", false, "render markup with plantuml.jar or mmdc")
	fs.StringVar(&f.renderFormat, "format", "", "rendered image format: svg, png or pdf")
	fs.StringVar(&f.java, "java", "", "java executable used for plantuml.jar")
	fs.StringVar(&f.jar, "jar", "", "path to plantuml.jar")
	fs.StringVar(&f.mmdc, "mmdc", "", "mermaid-cli executable")
	fs.IntVarP(&f.jobs, "jobs", "j", 0, "parallel parse workers (0 = number of CPUs)")
	fs.IntVar(&f.renderJobs, "render-jobs", 0, "concurrent renderer invocations")
	fs.BoolVar(&f.topLevel, "top-level", false, "scan only the top-level directory")
	fs.BoolVar(&f.noGitignore, "no-gitignore", false, "do not honour .gitignore")
}

// apply copies every explicitly set flag over cfg.
func (f *exportFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("out") {
		cfg.Output.Dir = f.out
	}
	if changed("markup") {
		cfg.Output.Markup = f.markup
	}
	if changed("constructors") {
		cfg.Output.IncludeConstructors = f.constructors
	}
	if changed("relations") {
		cfg.Output.IncludeRelations = f.relations
	}
	if changed("render") {
		cfg.Render.Enabled = f.render
	}
	if changed("format") {
		cfg.Render.Format = f.renderFormat
	}
	if changed("java") {
		cfg.Render.Java = f.java
	}
	if changed("jar") {
		cfg.Render.Jar = f.jar
	}
	if changed("mmdc") {
		cfg.Render.Mmdc = f.mmdc
	}
	if changed("jobs") {
		cfg.Scan.Jobs = f.jobs
	}
	if changed("render-jobs") {
		cfg.Render.Jobs = f.renderJobs
	}
	if changed("top-level") {
		cfg.Scan.Recursive = !f.topLevel
	}
	if changed("no-gitignore") {
		cfg.Scan.Gitignore = !f.noGitignore
	}
}
