package pass

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dilasgoi/eessi-monitor/internal/config"
	"github.com/dilasgoi/eessi-monitor/internal/util"

	"github.com/spf13/cobra"
)

// defaultRepository is monitored when neither flag nor config names one.
const defaultRepository = "software.eessi.io"

// options holds the effective settings of one invocation after merging
// flags over the config file over built-in defaults.
type options struct {
	repository  string
	path        string
	dataDir     string
	servers     []string
	serversFile string
	webLog      string
	proxyLog    string
	logFile     string
	reportPath  string
	email       string
	output      string
	verbose     bool
}

// addCompareFlags registers the flags shared by every subcommand that
// resolves upstream servers and compares manifests.
func addCompareFlags(cmd *cobra.Command) {
	cmd.Flags().String("repo", "", "CVMFS repository to monitor (default from config, else "+defaultRepository+")")
	cmd.Flags().String("path", "", "Local replica path (default /srv/cvmfs/<repo>)")
	cmd.Flags().StringSlice("server", nil, "Upstream server to compare against (repeatable; disables discovery)")
	cmd.Flags().String("servers-file", "", "File listing upstream servers, one hostname per line")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")
	cmd.Flags().BoolP("verbose", "v", false, "Enable debug logging")
}

// resolveOptions merges command-line flags with the persisted config.
// Flags win; config fills the gaps; hard-coded defaults come last.
func resolveOptions(cmd *cobra.Command) (*options, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	opts := &options{}

	stringOpt := func(dst *string, flag, fromConfig string) {
		if cmd.Flags().Lookup(flag) != nil {
			*dst, _ = cmd.Flags().GetString(flag)
		}
		if *dst == "" {
			*dst = fromConfig
		}
	}

	stringOpt(&opts.repository, "repo", cfg.Repository)
	stringOpt(&opts.path, "path", cfg.RepositoryPath)
	stringOpt(&opts.dataDir, "data-dir", cfg.DataDir)
	stringOpt(&opts.serversFile, "servers-file", cfg.ServersFile)
	stringOpt(&opts.webLog, "web-log", cfg.WebLog)
	stringOpt(&opts.proxyLog, "proxy-log", cfg.ProxyLog)
	stringOpt(&opts.logFile, "log-file", cfg.LogFile)
	stringOpt(&opts.reportPath, "report", cfg.ReportPath)
	stringOpt(&opts.email, "email", cfg.Email)

	if cmd.Flags().Lookup("server") != nil {
		opts.servers, _ = cmd.Flags().GetStringSlice("server")
	}
	if len(opts.servers) == 0 {
		opts.servers = cfg.Servers
	}
	for _, server := range opts.servers {
		if err := util.ValidateHostname(server); err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Lookup("output") != nil {
		opts.output, _ = cmd.Flags().GetString("output")
	}
	if opts.output == "" {
		opts.output = "table"
	}
	if opts.output != "table" && opts.output != "json" {
		return nil, fmt.Errorf("unsupported output format %q", opts.output)
	}

	if cmd.Flags().Lookup("verbose") != nil {
		opts.verbose, _ = cmd.Flags().GetBool("verbose")
	}

	if opts.repository == "" {
		opts.repository = defaultRepository
	}
	if opts.dataDir == "" {
		opts.dataDir, err = defaultDataDir()
		if err != nil {
			return nil, err
		}
	}

	return opts, nil
}

// defaultDataDir is where the time-series store lives when unconfigured.
func defaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("unable to determine home directory: %w", err)
	}
	return filepath.Join(home, ".eessi-monitor", "data"), nil
}
