package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Source kinds.
const (
	SourceHTTP    = "http"
	SourceSQLite  = "sqlite"
	SourceCapture = "capture"
)

// Config holds all aw-digest configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Summary SummaryConfig `toml:"summary"`
	Source  SourceConfig  `toml:"source"`
	Capture CaptureConfig `toml:"capture"`
	Metrics MetricsConfig `toml:"metrics"`
	Log     LogConfig     `toml:"log"`
}

type ServerConfig struct {
	URL            string `toml:"url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type SummaryConfig struct {
	BucketMinutes   int     `toml:"bucket_minutes"`
	CoveragePercent float64 `toml:"coverage_percent"`
	MinEntries      int     `toml:"min_entries"`
	GraceMinutes    float64 `toml:"grace_minutes"`
}

type SourceConfig struct {
	Kind         string `toml:"kind"`
	DatabasePath string `toml:"database_path"`
	CapturePath  string `toml:"capture_path"`
	Lookback     int    `toml:"lookback"`
	Concurrency  int    `toml:"concurrency"`
}

type CaptureConfig struct {
	Dir string `toml:"dir"`
}

type MetricsConfig struct {
	Textfile string `toml:"textfile"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			URL:            "http://localhost:5600",
			TimeoutSeconds: 0,
		},
		Summary: SummaryConfig{
			BucketMinutes:   15,
			CoveragePercent: 70,
			MinEntries:      0,
			GraceMinutes:    0,
		},
		Source: SourceConfig{
			Kind:         SourceHTTP,
			DatabasePath: "~/.local/share/activitywatch/aw-server-rust/sqlite.db",
			Lookback:     5,
			Concurrency:  1,
		},
		Capture: CaptureConfig{
			Dir: "~/.local/share/aw-digest/captures",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Load reads config from the standard path, falling back to defaults.
func Load() (Config, error) {
	if p, ok := Locate(); ok {
		return LoadFile(p)
	}
	cfg := DefaultConfig()
	cfg.expand()
	return cfg, nil
}

// Locate returns the config file Load would read. When none exists it
// returns ConfigPath() and false.
func Locate() (string, bool) {
	for _, p := range configPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return ConfigPath(), false
}

// LoadFile reads config from path on top of the defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.expand()
	return cfg, nil
}

// Validate reports the first setting that cannot drive a run.
func (c Config) Validate() error {
	switch {
	case c.Summary.BucketMinutes <= 0:
		return fmt.Errorf("summary.bucket_minutes must be positive, got %d", c.Summary.BucketMinutes)
	case c.Summary.CoveragePercent < 0 || c.Summary.CoveragePercent > 100:
		return fmt.Errorf("summary.coverage_percent must be within 0-100, got %g", c.Summary.CoveragePercent)
	case c.Summary.MinEntries < 0:
		return fmt.Errorf("summary.min_entries must not be negative, got %d", c.Summary.MinEntries)
	case c.Summary.GraceMinutes < 0:
		return fmt.Errorf("summary.grace_minutes must not be negative, got %g", c.Summary.GraceMinutes)
	case c.Source.Lookback < 0:
		return fmt.Errorf("source.lookback must not be negative, got %d", c.Source.Lookback)
	case c.Source.Concurrency < 1:
		return fmt.Errorf("source.concurrency must be at least 1, got %d", c.Source.Concurrency)
	}

	switch c.Source.Kind {
	case SourceHTTP, SourceSQLite, SourceCapture:
		return nil
	default:
		return fmt.Errorf("source.kind %q is not one of http, sqlite, capture", c.Source.Kind)
	}
}

// BucketLength returns the summary bucket length.
func (c Config) BucketLength() time.Duration {
	return time.Duration(c.Summary.BucketMinutes) * time.Minute
}

// Grace returns the active interval merge tolerance.
func (c Config) Grace() time.Duration {
	return time.Duration(c.Summary.GraceMinutes * float64(time.Minute))
}

// Timeout returns the HTTP client timeout; zero means none.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}

// CapturePath returns where the capture for day (YYYY-MM-DD) lives.
func (c Config) CapturePath(day string) string {
	return filepath.Join(c.Capture.Dir, day+".jsonl.zst")
}

func (c *Config) expand() {
	c.Source.DatabasePath = expandHome(c.Source.DatabasePath)
	c.Source.CapturePath = expandHome(c.Source.CapturePath)
	c.Capture.Dir = expandHome(c.Capture.Dir)
	c.Metrics.Textfile = expandHome(c.Metrics.Textfile)
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "aw-digest", "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", "aw-digest", "config.toml"))
	}

	return paths
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
