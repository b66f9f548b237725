// Package collector gathers point-in-time facts about a local Stratum-1
// replica: repository footprint, catalog state, web and proxy traffic,
// disk usage. Collection is judgement-free and best-effort: every
// sub-collector degrades to "unknown" with a warning rather than failing
// the monitoring pass. The only fatal condition is a missing repository
// path, because then there is nothing to monitor at all.
package collector

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dilasgoi/eessi-monitor/internal/domain"
	"github.com/dilasgoi/eessi-monitor/internal/logging"
)

// DefaultRepositoryRoot is where cvmfs_server keeps replica storage.
const DefaultRepositoryRoot = "/srv/cvmfs"

// Config selects what the collector looks at.
type Config struct {
	// Repository is the fully-qualified repository name.
	Repository string

	// RepositoryPath is the local replica directory. Defaults to
	// DefaultRepositoryRoot/<Repository>.
	RepositoryPath string

	// WebLog is the Apache access log to scan; empty skips web stats.
	WebLog string

	// ProxyLog is the Squid access log to scan; empty skips proxy stats.
	ProxyLog string
}

// Path returns the effective replica path.
func (c Config) Path() string {
	if c.RepositoryPath != "" {
		return c.RepositoryPath
	}
	return filepath.Join(DefaultRepositoryRoot, c.Repository)
}

// Collector produces MonitoringSnapshots.
type Collector struct {
	cfg    Config
	runner Runner
	log    *logrus.Entry

	// probe checks whether the local web server answers for the
	// repository. Nil leaves WebStats.Reachable false.
	probe func(ctx context.Context) bool
}

// New returns a collector for cfg. A nil runner defaults to ExecRunner.
func New(cfg Config, runner Runner) *Collector {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Collector{
		cfg:    cfg,
		runner: runner,
		log:    logging.Component("collector"),
	}
}

// SetProbe installs the local web-server reachability check.
func (c *Collector) SetProbe(probe func(ctx context.Context) bool) { c.probe = probe }

// Snapshot runs every collection step in order and returns the aggregate.
// It fails only when the replica path itself is missing.
func (c *Collector) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	path := c.cfg.Path()
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("collector: %s: %w", path, domain.ErrRepositoryMissing)
	}

	snap := &domain.Snapshot{
		Timestamp:  time.Now().UTC(),
		Repository: c.cfg.Repository,
	}

	snap.Size = c.collectSize(snap, path)
	snap.Catalog = c.collectCatalog(ctx, snap, path)
	snap.Web = c.collectWebStats(ctx, snap)
	snap.Proxy = c.collectProxyStats(snap)
	snap.Disk = c.collectDiskUsage(ctx, snap, path)

	return snap, nil
}

// warn logs a degraded collection and records it on the snapshot.
func (c *Collector) warn(snap *domain.Snapshot, component, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	c.log.WithField("component", component).Warn(msg)
	snap.AddWarning(component, msg)
}
