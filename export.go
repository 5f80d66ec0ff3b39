package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olehluchkiv/umlbot/internal/project"
)

func newExportCmd(a *app) *cobra.Command {
	var flags exportFlags
	cmd := &cobra.Command{
		Use:   "export <dir|github-url>",
		Short: "Write a summary and diagram markup for every source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := project.Open(ctx, args[0], a.configFile, a.logger)
			if err != nil {
				return err
			}
			defer p.Close()
			flags.apply(cmd, &p.Config)

			report, err := p.Export(ctx, a.sink(), a.logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Wrote %d classes to %s\n", len(report.Units), p.OutDir())
			return a.printFailures(report)
		},
	}
	flags.register(cmd)
	return cmd
}
