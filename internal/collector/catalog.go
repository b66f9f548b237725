package collector

import (
	"bufio"
	"bytes"
	"context"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dilasgoi/eessi-monitor/internal/domain"
	"github.com/dilasgoi/eessi-monitor/internal/manifest"
)

// publishedFile is the manifest name inside a repository directory.
const publishedFile = ".cvmfspublished"

// collectCatalog determines the local catalog state. It prefers asking
// cvmfs_server, which understands the repository layout; when the tool is
// absent or reports no revision, it falls back to token-scanning the raw
// manifest file.
func (c *Collector) collectCatalog(ctx context.Context, snap *domain.Snapshot, path string) domain.Manifest {
	m := c.catalogFromTool(ctx)
	if m.RevisionKnown() {
		return m
	}

	fromFile, err := manifest.ReadFile(filepath.Join(path, publishedFile))
	if err != nil {
		c.warn(snap, "catalog", "cannot read %s: %v", publishedFile, err)
		return domain.UnknownManifest()
	}
	if !fromFile.RevisionKnown() {
		c.warn(snap, "catalog", "no revision recoverable from %s", publishedFile)
	}
	return fromFile
}

// catalogFromTool asks cvmfs_server for the repository state. Any
// failure (tool missing, repository unknown to it) yields an unknown
// manifest so the file fallback kicks in.
func (c *Collector) catalogFromTool(ctx context.Context) domain.Manifest {
	out, err := c.runner.Output(ctx, "cvmfs_server", "info", c.cfg.Repository)
	if err != nil {
		return domain.UnknownManifest()
	}
	return parseServerInfo(out)
}

// parseServerInfo extracts revision, hash, and timestamp from
// "Key: value" lines as printed by cvmfs_server info.
func parseServerInfo(out []byte) domain.Manifest {
	m := domain.UnknownManifest()

	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		key, value, ok := strings.Cut(sc.Text(), ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch {
		case key == "revision":
			if n, err := strconv.ParseInt(value, 10, 64); err == nil && n >= 0 {
				m.Revision = n
			}
		case strings.Contains(key, "root hash"), strings.Contains(key, "root catalog"):
			if len(value) == 40 {
				m.RootHash = value
			}
		case strings.Contains(key, "timestamp"), strings.Contains(key, "last snapshot"):
			if n, err := strconv.ParseInt(value, 10, 64); err == nil && n > 0 {
				m.PublishedAt = n
			}
		}
	}
	return m
}
