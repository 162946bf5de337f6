package reload

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wallseed/wallseed/pkg/config"
	"github.com/wallseed/wallseed/pkg/logger"
	"golang.org/x/sys/unix"
)

type fakeRunner struct {
	calls  []string
	output map[string][]byte
	fail   map[string]error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	line := strings.TrimSpace(name + " " + strings.Join(args, " "))
	f.calls = append(f.calls, line)
	return f.output[name], f.fail[name]
}

type killCall struct {
	pid int
	sig unix.Signal
}

func newTestReloader(t *testing.T, cfg config.ReloadConfig, dryRun bool) (*Reloader, *fakeRunner, *[]killCall, *bytes.Buffer) {
	t.Helper()
	runner := &fakeRunner{output: map[string][]byte{}, fail: map[string]error{}}
	var kills []killCall
	var out bytes.Buffer
	r := New(cfg, Options{
		DryRun: dryRun,
		Out:    &out,
		Log:    logger.Nop(),
		Runner: runner,
		Kill: func(pid int, sig unix.Signal) error {
			kills = append(kills, killCall{pid: pid, sig: sig})
			return nil
		},
	})
	return r, runner, &kills, &out
}

func TestReloadRunsEnabledHooksInOrder(t *testing.T) {
	dir := t.TempDir()
	fishVars := filepath.Join(dir, "vars.fish")
	require.NoError(t, os.WriteFile(fishVars, []byte("set -g x 1\n"), 0o644))

	cfg := config.Default().Reload
	cfg.KittyTheme = filepath.Join(dir, "theme.conf")
	cfg.FishVars = fishVars

	r, runner, kills, _ := newTestReloader(t, cfg, false)
	runner.output["pidof"] = []byte("101 202\n")

	r.Reload(context.Background())

	assert.Equal(t, []string{
		"hyprctl reload",
		"pidof waybar",
		"makoctl reload",
		"kitty @ set-colors -a " + cfg.KittyTheme,
		"fish -c source " + fishVars,
	}, runner.calls)
	assert.Equal(t, []killCall{{101, unix.SIGUSR2}, {202, unix.SIGUSR2}}, *kills)
}

func TestReloadSkipsDisabledHooks(t *testing.T) {
	cfg := config.ReloadConfig{EnableMako: true}
	r, runner, kills, _ := newTestReloader(t, cfg, false)

	r.Reload(context.Background())

	assert.Equal(t, []string{"makoctl reload"}, runner.calls)
	assert.Empty(t, *kills)
}

func TestReloadSwallowsFailures(t *testing.T) {
	cfg := config.ReloadConfig{EnableHyprland: true, EnableMako: true}
	r, runner, _, _ := newTestReloader(t, cfg, false)
	runner.fail["hyprctl"] = errors.New("not running")

	r.Reload(context.Background())

	assert.Equal(t, []string{"hyprctl reload", "makoctl reload"}, runner.calls)
}

func TestWaybarNotRunning(t *testing.T) {
	cfg := config.ReloadConfig{EnableWaybar: true}
	r, runner, kills, _ := newTestReloader(t, cfg, false)
	runner.fail["pidof"] = errors.New("exit status 1")

	require.NoError(t, r.signalWaybar(context.Background()))
	assert.Empty(t, *kills)
}

func TestFishSkippedWhenFileMissing(t *testing.T) {
	cfg := config.ReloadConfig{EnableFish: true, FishVars: filepath.Join(t.TempDir(), "missing.fish")}
	r, runner, _, _ := newTestReloader(t, cfg, false)

	r.Reload(context.Background())
	assert.Empty(t, runner.calls)
}

func TestReloadDryRun(t *testing.T) {
	cfg := config.Default().Reload
	cfg.EnableFish = false
	r, runner, kills, out := newTestReloader(t, cfg, true)

	r.Reload(context.Background())

	assert.Empty(t, runner.calls)
	assert.Empty(t, *kills)
	assert.Contains(t, out.String(), "[dry-run] reload hyprland: hyprctl reload")
	assert.Contains(t, out.String(), "[dry-run] reload waybar:")
	assert.NotContains(t, out.String(), "reload fish")
}

func TestHooksExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	r := New(config.Default().Reload, Options{})

	for _, h := range r.Hooks() {
		if h.Name == "kitty" {
			assert.Equal(t, "kitty @ set-colors -a /home/tester/.config/kitty/theme.conf", h.Describe)
			return
		}
	}
	t.Fatal("kitty hook not found")
}
