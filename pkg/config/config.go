package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/wallseed/wallseed/pkg/models"
	"gopkg.in/yaml.v3"
)

// AppName names the config and cache directories.
const AppName = "wallseed"

// Config holds all wallseed configuration.
type Config struct {
	Model    ModelConfig    `yaml:"model" toml:"model"`
	Renderer RendererConfig `yaml:"renderer" toml:"renderer"`
	Behavior BehaviorConfig `yaml:"behavior" toml:"behavior"`
	Reload   ReloadConfig   `yaml:"reload" toml:"reload"`
	Watch    WatchConfig    `yaml:"watch" toml:"watch"`
}

// ModelConfig describes the vision model endpoint.
// Provider is "ollama" (default) or "gemini".
type ModelConfig struct {
	Provider    string  `yaml:"provider" toml:"provider" validate:"oneof=ollama gemini"`
	Endpoint    string  `yaml:"endpoint" toml:"endpoint" validate:"omitempty,url"`
	Model       string  `yaml:"model" toml:"model" validate:"required"`
	Temperature float64 `yaml:"temperature" toml:"temperature" validate:"gte=0,lte=2"`
	TimeoutMS   int     `yaml:"timeout_ms" toml:"timeout_ms" validate:"gt=0"`
	APIKey      string  `yaml:"api_key" toml:"api_key"`
}

// Timeout returns the per-request model timeout.
func (m ModelConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutMS) * time.Millisecond
}

// RendererConfig holds the matugen argument templates.
type RendererConfig struct {
	Binary    string   `yaml:"binary" toml:"binary" validate:"required"`
	ArgsColor []string `yaml:"args_color" toml:"args_color"`
	ArgsImage []string `yaml:"args_image" toml:"args_image"`
	ExtraArgs []string `yaml:"extra_args" toml:"extra_args"`
}

// BehaviorConfig controls defaults shared by every command.
type BehaviorConfig struct {
	ModeDefault string `yaml:"mode_default" toml:"mode_default" validate:"mode"`
	CacheDir    string `yaml:"cache_dir" toml:"cache_dir" validate:"required"`
	LogLevel    string `yaml:"log_level" toml:"log_level" validate:"oneof=trace debug info warn error"`
	History     bool   `yaml:"history" toml:"history"`
}

// ReloadConfig toggles each reload hook.
type ReloadConfig struct {
	EnableHyprland bool   `yaml:"enable_hyprland" toml:"enable_hyprland"`
	EnableWaybar   bool   `yaml:"enable_waybar" toml:"enable_waybar"`
	EnableMako     bool   `yaml:"enable_mako" toml:"enable_mako"`
	EnableKitty    bool   `yaml:"enable_kitty" toml:"enable_kitty"`
	EnableFish     bool   `yaml:"enable_fish" toml:"enable_fish"`
	KittyTheme     string `yaml:"kitty_theme" toml:"kitty_theme"`
	FishVars       string `yaml:"fish_vars" toml:"fish_vars"`
}

// WatchConfig holds defaults for the watch command.
type WatchConfig struct {
	Patterns   []string `yaml:"patterns" toml:"patterns" validate:"dive,required"`
	DebounceMS int      `yaml:"debounce_ms" toml:"debounce_ms" validate:"gte=0"`
}

// Debounce returns the delay applied before handling each watch event.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Model: ModelConfig{
			Provider:    "ollama",
			Endpoint:    "http://127.0.0.1:11434",
			Model:       "llava:latest",
			Temperature: 0.1,
			TimeoutMS:   3500,
		},
		Renderer: RendererConfig{
			Binary:    "matugen",
			ArgsColor: []string{"color", "hex"},
			ArgsImage: []string{"image"},
			ExtraArgs: []string{},
		},
		Behavior: BehaviorConfig{
			ModeDefault: string(models.ModeAuto),
			CacheDir:    "~/.cache/" + AppName,
			LogLevel:    "info",
			History:     true,
		},
		Reload: ReloadConfig{
			EnableHyprland: true,
			EnableWaybar:   true,
			EnableMako:     true,
			EnableKitty:    true,
			EnableFish:     true,
			KittyTheme:     "~/.config/kitty/theme.conf",
			FishVars:       "~/.config/fish/conf.d/00-theme-vars.fish",
		},
		Watch: WatchConfig{
			Patterns:   []string{"*.jpg", "*.png"},
			DebounceMS: 400,
		},
	}
}

// Load reads a YAML or TOML config file, expands environment variables and
// validates the result. An empty path searches the default locations and
// falls back to Default when no file exists there.
func Load(path string) (*Config, error) {
	if path == "" {
		found, err := defaultPath()
		if err != nil {
			return nil, err
		}
		if found == "" {
			cfg := Default()
			return cfg, Validate(cfg)
		}
		path = found
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := []byte(os.ExpandEnv(string(data)))

	cfg := Default()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = decodeTOML(expanded, cfg)
	} else {
		err = yaml.Unmarshal(expanded, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// legacyTables are the section names used by matugen-llava-seed config.toml
// files. They decode onto the same fields as [model] and [renderer].
type legacyTables struct {
	Llava   *ModelConfig    `toml:"llava"`
	Matugen *RendererConfig `toml:"matugen"`
}

// decodeTOML fills cfg from data. [llava] and [matugen] tables are applied
// after [model] and [renderer], so they win when both are present.
func decodeTOML(data []byte, cfg *Config) error {
	if err := toml.Unmarshal(data, cfg); err != nil {
		return err
	}
	legacy := legacyTables{Llava: &cfg.Model, Matugen: &cfg.Renderer}
	return toml.Unmarshal(data, &legacy)
}

// Dir returns the wallseed config directory under XDG_CONFIG_HOME.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, AppName), nil
}

// defaultPath returns the first existing default config file, or "".
func defaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	for _, name := range []string{"config.yaml", "config.yml", "config.toml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}
	return "", nil
}

// ExpandUser expands a path starting with ~ to the user's home.
func ExpandUser(p string) string {
	if p == "" || p[0] != '~' {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	if p[1] != '/' {
		return p
	}
	return filepath.Join(home, p[2:])
}
