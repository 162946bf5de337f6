package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	dir      string
	cacheDir string
	image    string
	config   string
	calls    atomic.Int32
}

// newTestEnv writes a wallpaper, a config pointing at a fake model server and
// the given renderer binary, and returns their locations.
func newTestEnv(t *testing.T, renderer string) *testEnv {
	t.Helper()
	te := &testEnv{dir: t.TempDir()}
	te.cacheDir = filepath.Join(te.dir, "cache")

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		te.calls.Add(1)
		_, _ = w.Write([]byte(`{"response":"{\"primary_hex\":\"#112233\",\"accent1_hex\":\"#445566\"}"}`))
	}))
	t.Cleanup(upstream.Close)

	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.Black)
		}
	}
	te.image = filepath.Join(te.dir, "wall.png")
	f, err := os.Create(te.image)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	cfg := `model:
  endpoint: "` + upstream.URL + `"
renderer:
  binary: "` + renderer + `"
behavior:
  mode_default: auto
  cache_dir: "` + te.cacheDir + `"
reload:
  enable_hyprland: false
  enable_waybar: false
  enable_mako: false
  enable_kitty: false
  enable_fish: false
`
	te.config = filepath.Join(te.dir, "config.yaml")
	require.NoError(t, os.WriteFile(te.config, []byte(cfg), 0o644))
	return te
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestApplyDryRun(t *testing.T) {
	te := newTestEnv(t, "matugen")

	out, err := execute(t, "-c", te.config, "--dry-run", "apply", "--image", te.image)
	require.NoError(t, err)

	assert.Contains(t, out, "[dry-run] MATUGEN_MODE=dark matugen color hex #112233")
	assert.Contains(t, out, "[dry-run] MATUGEN_MODE=dark matugen color hex #445566")
	assert.Contains(t, out, "mode=dark source=model render=color colors=#112233 #445566")
	assert.Equal(t, int32(1), te.calls.Load())

	_, statErr := os.Stat(filepath.Join(te.cacheDir, "cache.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestApplyThenHistory(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "fake-matugen")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\nexit 0\n"), 0o755))
	te := newTestEnv(t, bin)

	out, err := execute(t, "-c", te.config, "apply", "--image", te.image)
	require.NoError(t, err)
	assert.Contains(t, out, "source=model")

	out, err = execute(t, "-c", te.config, "apply", "--image", te.image)
	require.NoError(t, err)
	assert.Contains(t, out, "source=cache")
	assert.Equal(t, int32(1), te.calls.Load())

	out, err = execute(t, "-c", te.config, "history")
	require.NoError(t, err)
	assert.Contains(t, out, te.image)
	assert.Equal(t, 3, strings.Count(out, "\n"))

	out, err = execute(t, "-c", te.config, "history", "--summary")
	require.NoError(t, err)
	assert.Contains(t, out, "cache")
	assert.Contains(t, out, "model")

	out, err = execute(t, "-c", te.config, "cache", "show", "--image", te.image)
	require.NoError(t, err)
	assert.Contains(t, out, `"primary_hex": "#112233"`)

	out, err = execute(t, "-c", te.config, "cache", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Entries: 1")

	_, err = execute(t, "-c", te.config, "cache", "clear")
	require.NoError(t, err)
	out, err = execute(t, "-c", te.config, "cache", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Entries: 0")
}

func TestApplyRendererFailure(t *testing.T) {
	te := newTestEnv(t, filepath.Join(t.TempDir(), "missing-matugen"))

	_, err := execute(t, "-c", te.config, "apply", "--image", te.image)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing-matugen")
}

func TestApplyRejectsBadMode(t *testing.T) {
	te := newTestEnv(t, "matugen")

	_, err := execute(t, "-c", te.config, "apply", "--image", te.image, "--mode", "dim")
	require.Error(t, err)
}

func TestAnalyzePrintsPalette(t *testing.T) {
	te := newTestEnv(t, "matugen")

	out, err := execute(t, "-c", te.config, "analyze", "--image", te.image, "--swatch")
	require.NoError(t, err)
	assert.Contains(t, out, `"accent1_hex": "#445566"`)
	assert.Contains(t, out, "primary")
}

func TestValidate(t *testing.T) {
	te := newTestEnv(t, "matugen")
	orig := lookPath
	t.Cleanup(func() { lookPath = orig })

	lookPath = func(name string) (string, error) {
		if name == "fish" {
			return "", errors.New("not found")
		}
		return "/usr/bin/" + name, nil
	}
	out, err := execute(t, "-c", te.config, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "/usr/bin/matugen")
	assert.Regexp(t, `fish\s+missing`, out)

	lookPath = func(name string) (string, error) {
		if name == "matugen" {
			return "", errors.New("not found")
		}
		return "/usr/bin/" + name, nil
	}
	_, err = execute(t, "-c", te.config, "validate")
	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "wallseed dev\n", out)
}

func TestContrastText(t *testing.T) {
	assert.Equal(t, "#000000", contrastText("#FFFFFF"))
	assert.Equal(t, "#FFFFFF", contrastText("#101010"))
	assert.Equal(t, "#FFFFFF", contrastText("bogus"))
}
