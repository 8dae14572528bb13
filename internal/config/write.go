package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigDir returns the aw-digest config directory path.
// Uses $XDG_CONFIG_HOME/aw-digest if set, otherwise ~/.config/aw-digest.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "aw-digest")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "aw-digest")
}

// ConfigPath returns the config.toml path inside ConfigDir.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// WriteDefault writes a default config.toml pointing at serverURL.
// Returns the config file path and whether it was created. Skips if
// config.toml already exists.
func WriteDefault(serverURL string) (string, bool, error) {
	path := ConfigPath()

	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", false, fmt.Errorf("create config dir: %w", err)
	}

	if serverURL == "" {
		serverURL = DefaultConfig().Server.URL
	}

	content := fmt.Sprintf(`[server]
url = %q
timeout_seconds = 0

[summary]
bucket_minutes = 15
coverage_percent = 70
min_entries = 0
grace_minutes = 0

[source]
kind = "http"
database_path = "~/.local/share/activitywatch/aw-server-rust/sqlite.db"
capture_path = ""
lookback = 5
concurrency = 1

[capture]
dir = "~/.local/share/aw-digest/captures"

[metrics]
textfile = ""

[log]
level = "warn"
`, serverURL)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", false, fmt.Errorf("write config: %w", err)
	}

	return path, true, nil
}

// CompressHome replaces $HOME prefix with ~/ for display.
func CompressHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if strings.HasPrefix(path, home+"/") {
		return "~/" + path[len(home)+1:]
	}
	if path == home {
		return "~"
	}
	return path
}
