package config

import (
	"fmt"
	"strings"
)

// KeySpec describes a single configuration key.
type KeySpec struct {
	// Name is the CLI-facing key name (e.g. "repository").
	Name string

	// Description is a short human-readable explanation shown in help text.
	Description string

	// Get returns the current value for this key from a loaded Config.
	Get func(cfg *Config) string

	// Set applies a value for this key to the given Config (in memory only;
	// the caller is responsible for calling Save).
	Set func(cfg *Config, value string)
}

// Keys is the authoritative list of all supported configuration keys.
// To add a new option: add a field to Config and append a KeySpec here.
var Keys = []KeySpec{
	{
		Name:        "repository",
		Description: "CVMFS repository monitored when --repo is not specified",
		Get:         func(cfg *Config) string { return cfg.Repository },
		Set:         func(cfg *Config, v string) { cfg.Repository = v },
	},
	{
		Name:        "repository-path",
		Description: "Local replica path (default /srv/cvmfs/<repository>)",
		Get:         func(cfg *Config) string { return cfg.RepositoryPath },
		Set:         func(cfg *Config, v string) { cfg.RepositoryPath = v },
	},
	{
		Name:        "data-dir",
		Description: "Root directory of the time-series store",
		Get:         func(cfg *Config) string { return cfg.DataDir },
		Set:         func(cfg *Config, v string) { cfg.DataDir = v },
	},
	{
		Name:        "report-path",
		Description: "Destination for the rendered HTML report",
		Get:         func(cfg *Config) string { return cfg.ReportPath },
		Set:         func(cfg *Config, v string) { cfg.ReportPath = v },
	},
	{
		Name:        "email",
		Description: "Recipient of the emailed report (requires report-path)",
		Get:         func(cfg *Config) string { return cfg.Email },
		Set:         func(cfg *Config, v string) { cfg.Email = v },
	},
	{
		Name:        "servers-file",
		Description: "File listing upstream servers, one hostname per line",
		Get:         func(cfg *Config) string { return cfg.ServersFile },
		Set:         func(cfg *Config, v string) { cfg.ServersFile = v },
	},
	{
		Name:        "log-file",
		Description: "Persistent log receiving warnings and errors",
		Get:         func(cfg *Config) string { return cfg.LogFile },
		Set:         func(cfg *Config, v string) { cfg.LogFile = v },
	},
	{
		Name:        "web-log",
		Description: "Apache access log scanned for traffic statistics",
		Get:         func(cfg *Config) string { return cfg.WebLog },
		Set:         func(cfg *Config, v string) { cfg.WebLog = v },
	},
	{
		Name:        "proxy-log",
		Description: "Squid access log scanned for cache statistics",
		Get:         func(cfg *Config) string { return cfg.ProxyLog },
		Set:         func(cfg *Config, v string) { cfg.ProxyLog = v },
	},
}

// Lookup returns the KeySpec for the given name, or nil if not found.
// The name is matched case-insensitively after trimming whitespace.
func Lookup(name string) *KeySpec {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i := range Keys {
		if Keys[i].Name == normalized {
			return &Keys[i]
		}
	}
	return nil
}

// KeyNames returns the names of all registered keys.
func KeyNames() []string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return names
}

// KeysHelp builds a formatted block listing all available keys and their
// descriptions, suitable for inclusion in Cobra Long help text.
func KeysHelp() string {
	if len(Keys) == 0 {
		return ""
	}

	// Find the longest key name for alignment.
	maxLen := 0
	for _, k := range Keys {
		if len(k.Name) > maxLen {
			maxLen = len(k.Name)
		}
	}

	var b strings.Builder
	b.WriteString("Available keys:\n")
	for _, k := range Keys {
		fmt.Fprintf(&b, "  %-*s   %s\n", maxLen, k.Name, k.Description)
	}
	return b.String()
}
