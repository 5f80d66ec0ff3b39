package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/olehluchkiv/umlbot/internal/config"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Write an umlbot.toml with the default settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			path := filepath.Join(dir, config.FileName)
			if err := config.Write(path, config.Default()); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Created %s\n", path)
			return nil
		},
	}
}
