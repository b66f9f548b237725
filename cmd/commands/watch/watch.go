package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dilasgoi/eessi-monitor/internal/collector"
	"github.com/dilasgoi/eessi-monitor/internal/comparator"
	"github.com/dilasgoi/eessi-monitor/internal/config"
	"github.com/dilasgoi/eessi-monitor/internal/discovery"
	"github.com/dilasgoi/eessi-monitor/internal/domain"
	"github.com/dilasgoi/eessi-monitor/internal/logging"
	"github.com/dilasgoi/eessi-monitor/internal/manifest"
	"github.com/dilasgoi/eessi-monitor/internal/tui"
	"github.com/dilasgoi/eessi-monitor/internal/util"

	"github.com/spf13/cobra"
)

const defaultRepository = "software.eessi.io"

// NewCommand returns the "watch" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live full-screen view of the upstream synchronization state",
		Long: `Open a full-screen view that re-runs the sync comparison on a timer.
Upstream servers are resolved once at startup; each refresh re-reads the
local manifest and re-fetches every upstream manifest. Nothing is
written to the time-series store.

Examples:
  eessi-monitor watch
  eessi-monitor watch --interval 30s
  eessi-monitor watch --server aws-eu-central-s1.eessi.science`,
		Args:         cobra.ExactArgs(0),
		RunE:         runWatch,
		SilenceUsage: true,
	}

	cmd.Flags().String("repo", "", "CVMFS repository to monitor")
	cmd.Flags().String("path", "", "Local replica path (default /srv/cvmfs/<repo>)")
	cmd.Flags().StringSlice("server", nil, "Upstream server to compare against (repeatable; disables discovery)")
	cmd.Flags().String("servers-file", "", "File listing upstream servers, one hostname per line")
	cmd.Flags().Duration("interval", tui.DefaultWatchInterval, "Delay between refreshes")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	repository, _ := cmd.Flags().GetString("repo")
	if repository == "" {
		repository = cfg.Repository
	}
	if repository == "" {
		repository = defaultRepository
	}

	path, _ := cmd.Flags().GetString("path")
	if path == "" {
		path = cfg.RepositoryPath
	}
	if path == "" {
		path = filepath.Join(collector.DefaultRepositoryRoot, repository)
	}

	servers, _ := cmd.Flags().GetStringSlice("server")
	if len(servers) == 0 {
		servers = cfg.Servers
	}
	for _, server := range servers {
		if err := util.ValidateHostname(server); err != nil {
			return err
		}
	}

	serversFile, _ := cmd.Flags().GetString("servers-file")
	if serversFile == "" {
		serversFile = cfg.ServersFile
	}

	interval, _ := cmd.Flags().GetDuration("interval")
	if interval < time.Second {
		return fmt.Errorf("interval must be at least 1s")
	}

	fetcher := manifest.NewFetcher(manifest.DefaultFetchTimeout)

	resolver := discovery.New(collector.ExecRunner{}, func(ctx context.Context, server string) bool {
		return fetcher.Probe(ctx, server, repository)
	})
	list, err := resolver.Resolve(cmd.Context(), discovery.Options{
		Repository:  repository,
		Explicit:    servers,
		ServersFile: serversFile,
	})
	if err != nil {
		return err
	}

	comp := comparator.New(func(ctx context.Context, server string) (domain.Manifest, error) {
		return fetcher.Fetch(ctx, server, repository)
	}, logging.Component("comparator"))

	manifestPath := filepath.Join(path, ".cvmfspublished")
	refresh := func(ctx context.Context) ([]domain.SyncRecord, error) {
		local, err := manifest.ReadFile(manifestPath)
		if err != nil {
			local = domain.UnknownManifest()
		}
		return comp.Compare(ctx, local, list), nil
	}

	return tui.RunWatch(tui.WatchOptions{
		Repository: repository,
		Interval:   interval,
		Refresh:    refresh,
	})
}
