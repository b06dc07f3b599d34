// Package config handles loading and saving cpulse configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/cpulse/config.yaml
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// BackendConfig points cpulse at the analytics backend.
type BackendConfig struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token,omitempty"`
}

// FilterConfig holds defaults for the analysis filter form.
type FilterConfig struct {
	ProjectKey   string `yaml:"project_key,omitempty"`
	RepoName     string `yaml:"repo_name,omitempty"`
	BranchName   string `yaml:"branch_name,omitempty"`
	AuthorEmail  string `yaml:"author_email,omitempty"`
	LookbackDays int    `yaml:"lookback_days,omitempty"` // Default since = today - lookback
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	PollIntervalSeconds int  `yaml:"poll_interval_seconds,omitempty"` // Status poll cadence (default 5)
	Headless            bool `yaml:"headless,omitempty"`              // Compact header mode
}

// ExportConfig controls where report snapshots land.
type ExportConfig struct {
	Dir string `yaml:"dir,omitempty"` // Default: current directory
}

// Config is the top-level configuration for cpulse.
type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Filter  FilterConfig  `yaml:"filter,omitempty"`
	UI      UIConfig      `yaml:"ui,omitempty"`
	Export  ExportConfig  `yaml:"export,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Backend: BackendConfig{URL: "http://localhost:5000"},
		Filter:  FilterConfig{LookbackDays: 7},
		UI:      UIConfig{PollIntervalSeconds: 5},
	}
}

// PollInterval returns the configured poll cadence, defaulting to 5 s.
// Values below one second are treated as unset rather than honored; the
// backend is not built for sub-second polling.
func (c Config) PollInterval() time.Duration {
	if c.UI.PollIntervalSeconds < 1 {
		return 5 * time.Second
	}
	return time.Duration(c.UI.PollIntervalSeconds) * time.Second
}

// Validate checks the parts of the config cpulse cannot run without.
func (c Config) Validate() error {
	if c.Backend.URL == "" {
		return fmt.Errorf("backend.url is required")
	}
	u, err := url.Parse(c.Backend.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend.url %q is not a valid http(s) URL", c.Backend.URL)
	}
	return nil
}

// ConfigDir returns the XDG config directory for cpulse.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "cpulse")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "cpulse")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Backend.URL = strings.TrimRight(cfg.Backend.URL, "/")
	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path. The file is created with
// 0600 because it may carry the backend token.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
