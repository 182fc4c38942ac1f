package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the settings palette reads from its config file.
type Config struct {
	APIURL          string
	RequestTimeout  time.Duration
	RefreshInterval time.Duration
	CopyFeedback    time.Duration
	StrictCodes     bool
	LogDir          string
	LogLevel        string
	Tracing         bool
}

const (
	defaultConfigPath      = "~/.config/palette/config.toml"
	defaultLogDir          = "~/.local/share/palette"
	defaultAPIURL          = "http://127.0.0.1:7000"
	defaultRequestTimeout  = 5 * time.Second
	defaultRefreshInterval = 30 * time.Second
	defaultCopyFeedback    = 500 * time.Millisecond
	defaultLogLevel        = "info"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:          defaultAPIURL,
		RequestTimeout:  defaultRequestTimeout,
		RefreshInterval: defaultRefreshInterval,
		CopyFeedback:    defaultCopyFeedback,
		LogDir:          mustExpand(defaultLogDir),
		LogLevel:        defaultLogLevel,
	}
}

// Load locates and parses the palette config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL          string `toml:"api_url"`
		RequestTimeout  string `toml:"request_timeout"`
		RefreshInterval string `toml:"refresh_interval"`
		CopyFeedback    string `toml:"copy_feedback"`
		StrictCodes     bool   `toml:"strict_codes"`
		LogDir          string `toml:"log_dir"`
		LogLevel        string `toml:"log_level"`
		Tracing         bool   `toml:"tracing"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if cfg.RequestTimeout, err = parseDuration("request_timeout", raw.RequestTimeout, defaultRequestTimeout); err != nil {
		return Config{}, err
	}
	if cfg.RefreshInterval, err = parseDuration("refresh_interval", raw.RefreshInterval, defaultRefreshInterval); err != nil {
		return Config{}, err
	}
	if cfg.CopyFeedback, err = parseDuration("copy_feedback", raw.CopyFeedback, defaultCopyFeedback); err != nil {
		return Config{}, err
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.CopyFeedback <= 0 {
		cfg.CopyFeedback = defaultCopyFeedback
	}

	cfg.StrictCodes = raw.StrictCodes
	cfg.Tracing = raw.Tracing

	if v := strings.ToLower(strings.TrimSpace(raw.LogLevel)); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		cfg.LogDir = mustExpand(v)
	}

	return cfg, nil
}

// LogPath returns the path of the palette log file.
func (c Config) LogPath() string {
	return filepath.Join(c.logDir(), "palette.log")
}

// TracePath returns the path the stdout trace exporter writes to.
func (c Config) TracePath() string {
	return filepath.Join(c.logDir(), "traces.jsonl")
}

func (c Config) logDir() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir)
	}
	return c.LogDir
}

// parseDuration accepts Go duration strings; a bare "0" disables the setting.
func parseDuration(key, value string, fallback time.Duration) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	if trimmed == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, fmt.Errorf("parse config: %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("parse config: %s must not be negative", key)
	}
	return d, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
