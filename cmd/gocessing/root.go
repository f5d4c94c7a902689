package main

import (
	"image/color"

	"github.com/spf13/cobra"

	"github.com/gocessing/gocessing"
)

// newRootCommand constructs the root cobra.Command with subcommands.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gocessing",
		Short:         "gocessing demos: immediate-mode drawing on a retained-mode engine",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		newDemoCommand(),
		newSnapshotCommand(),
	)
	return cmd
}

func initEngine(cmd *cobra.Command) error {
	cfg := gocessing.DefaultConfig()
	if lvl, err := cmd.Flags().GetString("log-level"); err == nil {
		cfg.LogLevel = lvl
	}
	return gocessing.Init(cfg)
}

func rgba(c color.RGBA) gocessing.Color {
	return gocessing.Color{
		R: float32(c.R) / 255,
		G: float32(c.G) / 255,
		B: float32(c.B) / 255,
		A: float32(c.A) / 255,
	}
}
