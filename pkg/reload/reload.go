// Package reload nudges running desktop applications to pick up a new theme.
package reload

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/wallseed/wallseed/pkg/config"
	"github.com/wallseed/wallseed/pkg/logger"
	"golang.org/x/sys/unix"
)

// CommandRunner runs an external command and returns its standard output.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run implements CommandRunner.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// KillFunc delivers a signal to a process.
type KillFunc func(pid int, sig unix.Signal) error

// Options configures a Reloader.
type Options struct {
	DryRun bool
	Out    io.Writer
	Log    *logger.Logger
	// Runner defaults to ExecRunner.
	Runner CommandRunner
	// Kill defaults to unix.Kill.
	Kill KillFunc
}

// Hook is one named reload action.
type Hook struct {
	Name    string
	Enabled bool
	// Describe renders the action for dry-run output.
	Describe string
	Run      func(ctx context.Context) error
}

// Reloader runs the configured reload hooks.
type Reloader struct {
	cfg    config.ReloadConfig
	dryRun bool
	out    io.Writer
	log    *logger.Logger
	runner CommandRunner
	kill   KillFunc
}

// New creates a Reloader.
func New(cfg config.ReloadConfig, opts Options) *Reloader {
	r := &Reloader{
		cfg:    cfg,
		dryRun: opts.DryRun,
		out:    opts.Out,
		log:    opts.Log,
		runner: opts.Runner,
		kill:   opts.Kill,
	}
	if r.out == nil {
		r.out = os.Stdout
	}
	if r.runner == nil {
		r.runner = ExecRunner{}
	}
	if r.kill == nil {
		r.kill = unix.Kill
	}
	return r
}

// Hooks returns every known hook in execution order, enabled or not.
func (r *Reloader) Hooks() []Hook {
	kittyTheme := config.ExpandUser(r.cfg.KittyTheme)
	fishVars := config.ExpandUser(r.cfg.FishVars)

	return []Hook{
		{
			Name:     "hyprland",
			Enabled:  r.cfg.EnableHyprland,
			Describe: "hyprctl reload",
			Run:      r.command("hyprctl", "reload"),
		},
		{
			Name:     "waybar",
			Enabled:  r.cfg.EnableWaybar,
			Describe: "kill -USR2 $(pidof waybar)",
			Run:      r.signalWaybar,
		},
		{
			Name:     "mako",
			Enabled:  r.cfg.EnableMako,
			Describe: "makoctl reload",
			Run:      r.command("makoctl", "reload"),
		},
		{
			Name:     "kitty",
			Enabled:  r.cfg.EnableKitty,
			Describe: "kitty @ set-colors -a " + kittyTheme,
			Run:      r.command("kitty", "@", "set-colors", "-a", kittyTheme),
		},
		{
			Name:     "fish",
			Enabled:  r.cfg.EnableFish,
			Describe: fmt.Sprintf("fish -c %q", "source "+fishVars),
			Run:      r.sourceFish(fishVars),
		},
	}
}

// Reload runs every enabled hook. Failures are logged and never returned.
func (r *Reloader) Reload(ctx context.Context) {
	for _, h := range r.Hooks() {
		if !h.Enabled {
			continue
		}
		if r.dryRun {
			fmt.Fprintf(r.out, "[dry-run] reload %s: %s\n", h.Name, h.Describe)
			continue
		}
		if err := h.Run(ctx); err != nil {
			r.log.WithField("hook", h.Name).Warn(err, "reload hook failed")
			continue
		}
		r.log.WithField("hook", h.Name).Debug("reload hook ran")
	}
}

func (r *Reloader) command(name string, args ...string) func(context.Context) error {
	return func(ctx context.Context) error {
		if _, err := r.runner.Run(ctx, name, args...); err != nil {
			return fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
		}
		return nil
	}
}

// signalWaybar sends SIGUSR2 to every running waybar. No running instance is not an error.
func (r *Reloader) signalWaybar(ctx context.Context) error {
	out, err := r.runner.Run(ctx, "pidof", "waybar")
	if err != nil && len(out) == 0 {
		r.log.Debug("waybar is not running")
		return nil
	}

	var firstErr error
	for _, field := range strings.Fields(string(out)) {
		pid, convErr := strconv.Atoi(field)
		if convErr != nil {
			continue
		}
		if killErr := r.kill(pid, unix.SIGUSR2); killErr != nil && firstErr == nil {
			firstErr = fmt.Errorf("signal waybar %d: %w", pid, killErr)
		}
	}
	return firstErr
}

func (r *Reloader) sourceFish(path string) func(context.Context) error {
	return func(ctx context.Context) error {
		if _, err := os.Stat(path); err != nil {
			r.log.WithField("path", path).Debug("fish vars file missing, skipping")
			return nil
		}
		return r.command("fish", "-c", "source "+path)(ctx)
	}
}
