// Package config handles persistent user configuration for eessi-monitor.
//
// Configuration is stored as TOML at ~/.config/eessi-monitor/config.toml
// (or the platform-equivalent path returned by os.UserConfigDir). Values
// here are defaults; command-line flags always win.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	appDir   = "eessi-monitor"
	fileName = "config.toml"
)

// pathOverride, when non-empty, replaces the default config file path.
// Intended for testing. Use SetPath / ResetPath to manage.
var pathOverride string

// SetPath overrides the config file path. Intended for testing.
func SetPath(p string) { pathOverride = p }

// ResetPath clears the path override, reverting to the default. Intended for testing.
func ResetPath() { pathOverride = "" }

// Config holds monitoring defaults that persist across invocations.
type Config struct {
	// Repository is the CVMFS repository to monitor, e.g. "software.eessi.io".
	Repository string `toml:"repository,omitempty"`

	// RepositoryPath overrides the local replica path. When empty the
	// conventional /srv/cvmfs/<repository> is used.
	RepositoryPath string `toml:"repository_path,omitempty"`

	// DataDir is the root of the time-series store.
	DataDir string `toml:"data_dir,omitempty"`

	// ReportPath is where the HTML report is written.
	ReportPath string `toml:"report_path,omitempty"`

	// Email receives the rendered report when set together with ReportPath.
	Email string `toml:"email,omitempty"`

	// ServersFile lists upstream servers, one hostname per line.
	ServersFile string `toml:"servers_file,omitempty"`

	// Servers are explicit upstream hostnames, used before any discovery.
	Servers []string `toml:"servers,omitempty"`

	// LogFile duplicates warnings and errors to a persistent log.
	LogFile string `toml:"log_file,omitempty"`

	// WebLog is the Apache access log scanned for traffic stats.
	WebLog string `toml:"web_log,omitempty"`

	// ProxyLog is the Squid access log scanned for cache stats.
	ProxyLog string `toml:"proxy_log,omitempty"`
}

// Path returns the absolute path to the config file.
// If SetPath has been called, that value is returned instead.
func Path() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: unable to determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, fileName), nil
}

// Load reads the config file from disk and returns the parsed Config.
// If the file does not exist, a zero-value Config is returned (not an error).
func Load() (*Config, error) {
	return loadFrom("")
}

func loadFrom(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return nil, err
		}
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes the config to disk, creating the parent directory if needed.
func (c *Config) Save() error {
	return c.saveTo("")
}

func (c *Config) saveTo(path string) error {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: failed to create directory %s: %w", dir, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("config: failed to encode config: %w", err)
	}
	return nil
}

// LoadFrom reads the config from the given path. Intended for testing.
func LoadFrom(path string) (*Config, error) {
	return loadFrom(path)
}

// SaveTo writes the config to the given path. Intended for testing.
func (c *Config) SaveTo(path string) error {
	return c.saveTo(path)
}
