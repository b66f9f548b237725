package pass

import (
	"context"
	"path/filepath"

	"github.com/dilasgoi/eessi-monitor/internal/collector"
	"github.com/dilasgoi/eessi-monitor/internal/comparator"
	"github.com/dilasgoi/eessi-monitor/internal/discovery"
	"github.com/dilasgoi/eessi-monitor/internal/domain"
	"github.com/dilasgoi/eessi-monitor/internal/logging"
	"github.com/dilasgoi/eessi-monitor/internal/manifest"
)

// resolveServers runs the discovery chain for the configured repository.
// Explicit --server flags and the servers file short-circuit discovery.
func resolveServers(ctx context.Context, opts *options, fetcher *manifest.Fetcher) (domain.ServerList, error) {
	resolver := discovery.New(collector.ExecRunner{}, func(ctx context.Context, server string) bool {
		return fetcher.Probe(ctx, server, opts.repository)
	})

	return resolver.Resolve(ctx, discovery.Options{
		Repository:  opts.repository,
		Explicit:    opts.servers,
		ServersFile: opts.serversFile,
	})
}

// compareUpstreams fetches every upstream manifest and classifies the
// local replica against each.
func compareUpstreams(ctx context.Context, opts *options, fetcher *manifest.Fetcher, local domain.Manifest, servers domain.ServerList) []domain.SyncRecord {
	comp := comparator.New(func(ctx context.Context, server string) (domain.Manifest, error) {
		return fetcher.Fetch(ctx, server, opts.repository)
	}, logging.Component("comparator"))

	return comp.Compare(ctx, local, servers)
}

// readLocalManifest loads the replica's own .cvmfspublished. A missing
// or unreadable manifest degrades to unknown rather than aborting, so
// the upstream side of the table still renders.
func readLocalManifest(opts *options) domain.Manifest {
	path := filepath.Join(replicaPath(opts), ".cvmfspublished")
	m, err := manifest.ReadFile(path)
	if err != nil {
		logging.Component("pass").WithError(err).Warn("local manifest unreadable")
		return domain.UnknownManifest()
	}
	return m
}

// replicaPath is the effective local replica directory.
func replicaPath(opts *options) string {
	cfg := collector.Config{Repository: opts.repository, RepositoryPath: opts.path}
	return cfg.Path()
}
