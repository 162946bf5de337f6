package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/wallseed/wallseed/pkg/watch"
)

func newWatchCmd(g *globalFlags) *cobra.Command {
	var (
		dir      string
		patterns []string
		debounce time.Duration
		mode     string
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Apply wallpapers as they are created or changed in a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := parseModeFlag(mode)
			if err != nil {
				return err
			}
			e, err := g.env(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("pattern") {
				patterns = e.cfg.Watch.Patterns
			}
			if !cmd.Flags().Changed("debounce") {
				debounce = e.cfg.Watch.Debounce()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			svc, cleanup, err := e.newService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			w, err := watch.New(dir, patterns, debounce, func(ctx context.Context, path string) error {
				_, err := svc.Apply(ctx, path, m, force)
				return err
			}, e.log)
			if err != nil {
				return err
			}
			defer func() { _ = w.Close() }()

			return w.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "directory to watch")
	cmd.Flags().StringSliceVar(&patterns, "pattern", nil, "comma-separated file name globs (default from config)")
	cmd.Flags().DurationVar(&debounce, "debounce", 0, "delay before handling each event (default from config)")
	cmd.Flags().StringVar(&mode, "mode", "", "auto, dark or light (default from config)")
	cmd.Flags().BoolVar(&force, "force", false, "ignore cached palettes")
	_ = cmd.MarkFlagRequired("dir")
	return cmd
}
