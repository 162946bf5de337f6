package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/wallseed/wallseed/pkg/cache"
	"github.com/wallseed/wallseed/pkg/config"
	"github.com/wallseed/wallseed/pkg/history"
	"github.com/wallseed/wallseed/pkg/logger"
	"github.com/wallseed/wallseed/pkg/models"
	"github.com/wallseed/wallseed/pkg/pipeline"
	"github.com/wallseed/wallseed/pkg/reload"
	"github.com/wallseed/wallseed/pkg/render"
	"github.com/wallseed/wallseed/pkg/vision"
)

// env is the configuration and logger a command runs with.
type env struct {
	cfg    *config.Config
	log    *logger.Logger
	dryRun bool
	out    io.Writer
}

func (g *globalFlags) env(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}

	level := cfg.Behavior.LogLevel
	if g.verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Options{
		Level:         level,
		HumanReadable: true,
		Writer:        cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}

	return &env{cfg: cfg, log: log, dryRun: g.dryRun, out: cmd.OutOrStdout()}, nil
}

func (e *env) cacheDir() string {
	return config.ExpandUser(e.cfg.Behavior.CacheDir)
}

func (e *env) openCache() (*cache.Cache, error) {
	return cache.Open(e.cacheDir())
}

func (e *env) openHistory() (*history.SQLiteStore, error) {
	if err := os.MkdirAll(e.cacheDir(), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return history.Open(e.cacheDir())
}

// newService wires the apply pipeline. The returned func releases the
// history database.
func (e *env) newService(ctx context.Context) (*pipeline.Service, func(), error) {
	c, err := e.openCache()
	if err != nil {
		return nil, nil, err
	}

	q, err := vision.New(ctx, e.cfg.Model, e.log)
	if err != nil {
		return nil, nil, err
	}

	var recorder pipeline.Recorder
	cleanup := func() {}
	if e.cfg.Behavior.History && !e.dryRun {
		store, err := history.Open(e.cacheDir())
		if err != nil {
			e.log.Warn(err, "apply history unavailable")
		} else {
			recorder = store
			cleanup = func() { _ = store.Close() }
		}
	}

	svc := pipeline.New(pipeline.Options{
		DefaultMode: models.Mode(e.cfg.Behavior.ModeDefault),
		DryRun:      e.dryRun,
		Cache:       c,
		Querier:     q,
		Renderer:    render.New(e.cfg.Renderer, render.Options{DryRun: e.dryRun, Out: e.out, Log: e.log}),
		Reloader:    reload.New(e.cfg.Reload, reload.Options{DryRun: e.dryRun, Out: e.out, Log: e.log}),
		Recorder:    recorder,
		Log:         e.log,
	})
	return svc, cleanup, nil
}

// parseModeFlag accepts an empty value as "use the configured default".
func parseModeFlag(s string) (models.Mode, error) {
	if s == "" {
		return "", nil
	}
	return models.ParseMode(s)
}
