// Package discovery resolves the set of upstream servers a monitoring
// pass compares against. Sources are tried in a fixed fallback order and
// the first explicit source short-circuits the rest:
//
//  1. explicitly supplied hostnames (flags, config)
//  2. a servers file (one hostname per line)
//  3. the replication tool's configured upstream for the repository
//  4. CVMFS client configuration (CVMFS_SERVER_URL directives)
//  5. an ordered probe of well-known public mirrors
//  6. a named placeholder, flagged for connectivity verification
package discovery

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dilasgoi/eessi-monitor/internal/domain"
	"github.com/dilasgoi/eessi-monitor/internal/logging"
)

// Runner abstracts external command execution (see collector.ExecRunner).
type Runner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ProbeFunc checks whether a host serves the repository at all.
type ProbeFunc func(ctx context.Context, server string) bool

// DefaultConfigDirs are the CVMFS client configuration locations scanned
// for server URLs.
var DefaultConfigDirs = []string{
	"/etc/cvmfs/domain.d",
	"/etc/cvmfs/repositories.d",
	"/etc/cvmfs/default.d",
}

// DefaultMirrors is the ordered public Stratum-1 list probed for EESSI
// repositories when nothing else yields a server.
var DefaultMirrors = []string{
	"aws-eu-central-s1.eessi.science",
	"azure-us-east-s1.eessi.science",
	"rug-nl.stratum1.cvmfs.eessi-infra.org",
}

// Placeholder is emitted as a last resort so the pass still produces a
// sync record; it is expected to show up as unreachable until an operator
// configures real upstreams.
const Placeholder = "cvmfs-stratum0.example.org"

// Options selects the discovery inputs.
type Options struct {
	// Repository is the fully-qualified repository name.
	Repository string

	// Explicit are hostnames supplied on the command line or in the
	// config file. When non-empty, no discovery runs.
	Explicit []string

	// ServersFile lists hostnames one per line; blank lines and
	// #-comments are ignored. Treated as "supplied" like Explicit.
	ServersFile string

	// ConfigDirs overrides DefaultConfigDirs. For testing.
	ConfigDirs []string

	// Mirrors overrides DefaultMirrors. For testing.
	Mirrors []string
}

// Resolver builds ServerLists.
type Resolver struct {
	runner Runner
	probe  ProbeFunc
	log    *logrus.Entry
}

// New returns a resolver. runner may be nil when the replication-tool
// query should be skipped; probe may be nil to skip mirror probing.
func New(runner Runner, probe ProbeFunc) *Resolver {
	return &Resolver{runner: runner, probe: probe, log: logging.Component("discovery")}
}

// Resolve produces the server list for one pass. It only errors when a
// supplied servers file cannot be read; every discovery source failing
// just advances the chain until the placeholder.
func (r *Resolver) Resolve(ctx context.Context, opts Options) (domain.ServerList, error) {
	var list domain.ServerList

	for _, host := range opts.Explicit {
		list.Add(domain.Server{Host: Hostname(host), Source: domain.SourceFlag})
	}
	if opts.ServersFile != "" {
		if err := addFromFile(&list, opts.ServersFile); err != nil {
			return list, err
		}
	}
	if list.Len() > 0 {
		return list, nil
	}

	r.addFromReplicaInfo(ctx, &list, opts.Repository)
	if list.Len() > 0 {
		return list, nil
	}

	dirs := opts.ConfigDirs
	if dirs == nil {
		dirs = DefaultConfigDirs
	}
	r.addFromConfigScan(&list, dirs)
	if list.Len() > 0 {
		return list, nil
	}

	if r.probe != nil && publicNamespace(opts.Repository) {
		mirrors := opts.Mirrors
		if mirrors == nil {
			mirrors = DefaultMirrors
		}
		for _, mirror := range mirrors {
			if r.probe(ctx, mirror) {
				list.Add(domain.Server{Host: mirror, Source: domain.SourceMirrorProbe, Probed: true})
				break // first responder wins, the rest stay untried
			}
		}
	}
	if list.Len() > 0 {
		return list, nil
	}

	r.log.Warn("no upstream servers discovered, falling back to placeholder")
	list.Add(domain.Server{Host: Placeholder, Source: domain.SourcePlaceholder})
	return list, nil
}

// addFromFile reads one hostname per line, skipping blanks and comments.
func addFromFile(list *domain.ServerList, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		list.Add(domain.Server{Host: Hostname(line), Source: domain.SourceFile})
	}
	return sc.Err()
}

// addFromReplicaInfo asks cvmfs_server for the replica's configured
// Stratum-0 URL.
func (r *Resolver) addFromReplicaInfo(ctx context.Context, list *domain.ServerList, repository string) {
	if r.runner == nil || repository == "" {
		return
	}
	out, err := r.runner.Output(ctx, "cvmfs_server", "info", repository)
	if err != nil {
		return
	}

	sc := bufio.NewScanner(strings.NewReader(string(out)))
	for sc.Scan() {
		line := sc.Text()
		key, _, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		normalized := strings.ToLower(strings.TrimSpace(key))
		if normalized != "stratum0" && normalized != "upstream" {
			continue
		}
		// The URL after the key carries its own scheme colon, so take
		// everything past the first separator.
		url := strings.TrimSpace(line[len(key)+1:])
		if host := Hostname(url); host != "" {
			list.Add(domain.Server{Host: host, Source: domain.SourceReplicaInfo})
		}
	}
}

// addFromConfigScan walks CVMFS client configuration directories for
// CVMFS_SERVER_URL directives.
func (r *Resolver) addFromConfigScan(list *domain.ServerList, dirs []string) {
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".conf") {
				continue
			}
			raw, err := os.ReadFile(filepath.Join(dir, entry.Name()))
			if err != nil {
				continue
			}
			for _, host := range serverURLHosts(string(raw)) {
				list.Add(domain.Server{Host: host, Source: domain.SourceConfigScan})
			}
		}
	}
}

// publicNamespace reports whether the repository belongs to a namespace
// with well-known public mirrors.
func publicNamespace(repository string) bool {
	return strings.HasSuffix(repository, ".eessi.io") ||
		strings.HasSuffix(repository, ".eessi-hpc.org")
}
