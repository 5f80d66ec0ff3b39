package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olehluchkiv/umlbot/internal/project"
	"github.com/olehluchkiv/umlbot/internal/server"
	"github.com/olehluchkiv/umlbot/internal/watch"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		flags     exportFlags
		port      int
		noBrowser bool
		live      bool
	)
	cmd := &cobra.Command{
		Use:   "serve <dir|github-url>",
		Short: "Export, then preview summaries and diagrams in the browser",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := project.Open(ctx, args[0], a.configFile, a.logger)
			if err != nil {
				return err
			}
			defer p.Close()
			flags.apply(cmd, &p.Config)

			sess, report, err := startSession(ctx, a, p)
			if err != nil {
				return err
			}

			snap := &server.Snapshot{}
			snap.Set(report)

			handler, err := server.NewHandler(snap, p.Config.DiagramOptions(), a.logger.With("component", "server"))
			if err != nil {
				return err
			}

			if live {
				go func() {
					if err := watchProject(ctx, a, p, sess, watch.DefaultDebounce, snap.Set); err != nil {
						a.logger.Error("watcher stopped", "error", err)
					}
				}()
			}

			fmt.Fprintf(a.stdout, "Starting server on http://localhost:%d\n", port)
			return server.Serve(ctx, handler, port, !noBrowser, a.logger)
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&port, "port", 8080, "HTTP server port")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "skip auto-opening browser")
	cmd.Flags().BoolVar(&live, "watch", false, "re-export and refresh the preview as files change")
	return cmd
}
