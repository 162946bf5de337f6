// Package render invokes the external theme generator.
package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/wallseed/wallseed/pkg/config"
	seederrors "github.com/wallseed/wallseed/pkg/errors"
	"github.com/wallseed/wallseed/pkg/logger"
	"github.com/wallseed/wallseed/pkg/models"
)

// ModeEnv is the environment variable carrying the resolved mode.
const ModeEnv = "MATUGEN_MODE"

// Options configures a Runner beyond the renderer settings.
type Options struct {
	// DryRun prints invocations to Out instead of running them.
	DryRun bool
	Out    io.Writer
	Log    *logger.Logger
}

// Runner runs the renderer binary with color or image arguments.
type Runner struct {
	cfg    config.RendererConfig
	dryRun bool
	out    io.Writer
	log    *logger.Logger
}

// New creates a Runner.
func New(cfg config.RendererConfig, opts Options) *Runner {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	return &Runner{cfg: cfg, dryRun: opts.DryRun, out: out, log: opts.Log}
}

// ColorArgs returns the argument list for rendering from a seed color.
func (r *Runner) ColorArgs(seed string) []string {
	return buildArgs(r.cfg.ArgsColor, seed, r.cfg.ExtraArgs)
}

// ImageArgs returns the argument list for rendering from an image file.
func (r *Runner) ImageArgs(path string) []string {
	return buildArgs(r.cfg.ArgsImage, path, r.cfg.ExtraArgs)
}

func buildArgs(base []string, subject string, extra []string) []string {
	args := make([]string, 0, len(base)+1+len(extra))
	args = append(args, base...)
	args = append(args, subject)
	return append(args, extra...)
}

// RenderColor renders a theme from one seed color.
func (r *Runner) RenderColor(ctx context.Context, seed string, mode models.Mode) error {
	return r.run(ctx, r.ColorArgs(seed), mode)
}

// RenderImage renders a theme directly from an image file.
func (r *Runner) RenderImage(ctx context.Context, path string, mode models.Mode) error {
	return r.run(ctx, r.ImageArgs(path), mode)
}

func (r *Runner) run(ctx context.Context, args []string, mode models.Mode) error {
	env := ModeEnv + "=" + mode.String()
	if r.dryRun {
		fmt.Fprintf(r.out, "[dry-run] %s %s %s\n", env, r.cfg.Binary, strings.Join(args, " "))
		return nil
	}

	r.log.WithFields(map[string]any{"binary": r.cfg.Binary, "args": args, "mode": mode.String()}).Debug("running renderer")

	cmd := exec.CommandContext(ctx, r.cfg.Binary, args...)
	cmd.Env = append(os.Environ(), env)
	output, err := cmd.CombinedOutput()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return seederrors.NewRenderError(r.cfg.Binary, args, exitErr.ExitCode(), strings.TrimSpace(string(output)), err)
	}
	return seederrors.NewRenderError(r.cfg.Binary, args, -1, "", err)
}
