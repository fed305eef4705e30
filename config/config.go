// Package config locates and loads galley's configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pelletier/go-toml/v2"
)

// Config is the schema of config.toml.
type Config struct {
	// Placeholder replaces unprintable characters in the text display.
	Placeholder string `toml:"placeholder"`
	// ControlPictures shows control characters as U+2400 glyphs.
	ControlPictures bool `toml:"control_pictures"`
	// DebounceMS is how long a bake runs before the loading indicator shows.
	DebounceMS int `toml:"debounce_ms"`
	// DefaultFilename is offered by the first download.
	DefaultFilename string `toml:"default_filename"`
	// DownloadDir receives downloads.
	DownloadDir string `toml:"download_dir"`
	// ScriptTimeoutMS bounds each markup script fragment.
	ScriptTimeoutMS int `toml:"script_timeout_ms"`
	// ScriptCacheSize is the number of compiled fragments kept.
	ScriptCacheSize int    `toml:"script_cache_size"`
	LogLevel        string `toml:"log_level"`
	LogFile         string `toml:"log_file"`
	// HighlightStyle names a chroma style.
	HighlightStyle string `toml:"highlight_style"`

	Source string `toml:"-"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Placeholder:     ".",
		DebounceMS:      200,
		DefaultFilename: "download.dat",
		DownloadDir:     ".",
		ScriptTimeoutMS: 2000,
		ScriptCacheSize: 64,
		LogLevel:        "info",
		LogFile:         filepath.Join(Dir(), "galley.log"),
		HighlightStyle:  "monokai",
	}
}

// Dir returns the galley configuration directory.
// Respects XDG_CONFIG_HOME on Unix, APPDATA on Windows.
func Dir() string {
	var base string

	if runtime.GOOS == "windows" {
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	} else {
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, _ := os.UserHomeDir()
			base = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(base, "galley")
}

// File returns the path to config.toml.
func File() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config at path (File() when empty). A missing file is not
// an error. Environment overrides are applied last.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = File()
	}
	cfg.Source = path

	content, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := toml.Unmarshal(content, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if env := strings.TrimSpace(os.Getenv("GALLEY_LOG_LEVEL")); env != "" {
		cfg.LogLevel = env
	}
	if env := strings.TrimSpace(os.Getenv("GALLEY_DOWNLOAD_DIR")); env != "" {
		cfg.DownloadDir = env
	}
}

// Validate rejects values the components cannot use.
func (c Config) Validate() error {
	if utf8.RuneCountInString(c.Placeholder) != 1 {
		return fmt.Errorf("placeholder must be a single character, got %q", c.Placeholder)
	}
	if c.DebounceMS < 0 {
		return fmt.Errorf("debounce_ms must not be negative")
	}
	if c.ScriptTimeoutMS < 0 {
		return fmt.Errorf("script_timeout_ms must not be negative")
	}
	return nil
}

// PlaceholderRune returns the placeholder as a rune.
func (c Config) PlaceholderRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Placeholder)
	return r
}

// Debounce returns the bake indicator delay.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// ScriptTimeout returns the per-fragment deadline.
func (c Config) ScriptTimeout() time.Duration {
	return time.Duration(c.ScriptTimeoutMS) * time.Millisecond
}
