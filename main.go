package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/olehluchkiv/umlbot/internal/export"
	"github.com/olehluchkiv/umlbot/internal/logging"
	"github.com/olehluchkiv/umlbot/internal/progress"
)

// errUnitsFailed is returned by commands whose batch had failing files. The
// failures have already been printed.
var errUnitsFailed = errors.New("some files failed to export")

// app carries the state shared by every subcommand.
type app struct {
	configFile string
	logFile    string
	logLevel   string
	colorFlag  string

	logger  *slog.Logger
	cleanup func()
	color   progress.ColorMode
	stdout  io.Writer
	stderr  io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{stdout: os.Stdout, stderr: os.Stderr}
	err := a.execute(ctx, os.Args[1:])
	if err != nil {
		if !errors.Is(err, errUnitsFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

// execute runs the command line and releases the log file on every path,
// including failed batches.
func (a *app) execute(ctx context.Context, args []string) error {
	defer a.close()
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	stdout, stderr := a.stdout, a.stderr

	root := &cobra.Command{
		Use:   "umlbot",
		Short: "Export class summaries and UML diagrams from Java sources",
		Long: `umlbot scans Java source files, builds one class model per file and writes
a text summary plus PlantUML or Mermaid markup for each. Markup can be handed
to plantuml.jar or mmdc for rendering.`,
		Version:       version(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default: <dir>/umlbot.toml when present)")
	root.PersistentFlags().StringVar(&a.logFile, "log-file", "", "also append JSON logs to this file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.colorFlag, "color", "auto", "colorize output (auto|on|off)")

	root.AddCommand(
		newExportCmd(a),
		newWatchCmd(a),
		newServeCmd(a),
		newInitCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup() error {
	level, err := logging.ParseLevel(a.logLevel)
	if err != nil {
		return err
	}
	mode, err := progress.ParseColorMode(a.colorFlag)
	if err != nil {
		return err
	}
	logger, cleanup, err := logging.Setup(a.logFile, level)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	a.logger, a.cleanup, a.color = logger, cleanup, mode
	return nil
}

func (a *app) close() {
	if a.cleanup != nil {
		a.cleanup()
		a.cleanup = nil
	}
}

// sink reports progress on stdout and as info-level log entries.
func (a *app) sink() progress.Sink {
	return progress.Multi{
		progress.NewConsoleSink(a.stdout, a.color),
		progress.LogSink{Logger: a.logger.With("component", "progress")},
	}
}

// printFailures lists every failed file on stderr and returns errUnitsFailed
// when there was at least one.
func (a *app) printFailures(report *export.Report) error {
	if report == nil || !report.Failed() {
		return nil
	}
	red := color.New(color.FgRed, color.Bold)
	if progress.UseColor(a.stderr, a.color) {
		red.EnableColor()
	} else {
		red.DisableColor()
	}
	for _, f := range report.Failures {
		fmt.Fprintf(a.stderr, "%s %s (%s): %v\n", red.Sprint("FAIL"), f.Path, f.Stage, f.Err)
	}
	return errUnitsFailed
}
