package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/olehluchkiv/umlbot/internal/export"
	"github.com/olehluchkiv/umlbot/internal/project"
	"github.com/olehluchkiv/umlbot/internal/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		flags    exportFlags
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Export once, then re-export files as they change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := project.Open(ctx, args[0], a.configFile, a.logger)
			if err != nil {
				return err
			}
			defer p.Close()
			flags.apply(cmd, &p.Config)

			sess, _, err := startSession(ctx, a, p)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Watching %s (Ctrl+C to stop)\n", p.Root)
			return watchProject(ctx, a, p, sess, debounce, nil)
		},
	}
	flags.register(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before re-exporting")
	return cmd
}

// startSession validates the configuration and runs the initial export.
func startSession(ctx context.Context, a *app, p *project.Project) (*watch.Session, *export.Report, error) {
	if err := p.Config.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	files, err := p.Files()
	if err != nil {
		return nil, nil, fmt.Errorf("discover: %w", err)
	}
	st := p.Store()
	sess := watch.NewSession(p.Root, p.ExportOptions(), p.Deps(a.sink(), a.logger), st)
	report, err := sess.Export(ctx, files)
	if err != nil {
		return nil, nil, err
	}
	_ = a.printFailures(report)
	return sess, report, nil
}

// watchProject blocks until ctx is done. onReport, when set, receives the
// state after every batch of changes.
func watchProject(ctx context.Context, a *app, p *project.Project, sess *watch.Session, debounce time.Duration, onReport func(*export.Report)) error {
	opts := watch.Options{
		Debounce:  debounce,
		Gitignore: p.Config.Scan.Gitignore,
		TopLevel:  !p.Config.Scan.Recursive,
		Ignore:    []string{p.OutDir()},
	}
	return watch.Watch(ctx, p.Root, opts, func(changed []string) {
		a.logger.Info("sources changed", "files", changed)
		report, err := sess.Apply(ctx, changed)
		if err != nil {
			a.logger.Warn("re-export interrupted", "error", err)
			return
		}
		_ = a.printFailures(report)
		if onReport != nil {
			onReport(sess.Report())
		}
	})
}
