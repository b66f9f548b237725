package collector

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/dilasgoi/eessi-monitor/internal/domain"
)

// webLogWindow bounds how much of the access log is considered. Traffic
// stats are meant to describe "recent" activity, not the file's lifetime.
const webLogWindow = 1000

// collectWebStats scans the tail of the Apache access log for requests
// touching the repository. A missing log is a warning, not a failure:
// the server may simply log elsewhere.
func (c *Collector) collectWebStats(ctx context.Context, snap *domain.Snapshot) domain.WebStats {
	var stats domain.WebStats

	if c.probe != nil {
		stats.Reachable = c.probe(ctx)
		if !stats.Reachable {
			c.warn(snap, "weblog", "local web server did not answer the repository probe")
		}
	}

	if c.cfg.WebLog == "" {
		return stats
	}

	lines, err := tailLines(c.cfg.WebLog, webLogWindow)
	if err != nil {
		c.warn(snap, "weblog", "cannot read access log %s: %v", c.cfg.WebLog, err)
		return stats
	}

	clients := make(map[string]struct{})
	for _, line := range lines {
		if !strings.Contains(line, c.cfg.Repository) {
			continue
		}
		stats.TotalRequests++

		fields := strings.Fields(line)
		if len(fields) > 0 {
			clients[fields[0]] = struct{}{}
		}

		switch status := statusCode(fields); {
		case status >= 200 && status <= 299:
			stats.Status2xx++
		case status == 304:
			stats.Status304++
		case status == 404:
			stats.Status404++
		default:
			stats.StatusOther++
		}
	}
	stats.UniqueClients = int64(len(clients))

	return stats
}

// statusCode pulls the HTTP status from a combined-log-format line: the
// first standalone 3-digit field after the quoted request. Returns 0
// when no status is recognizable.
func statusCode(fields []string) int {
	// Common/combined format puts the status at index 8, right after the
	// closing quote of the request. Check there first, then scan.
	if len(fields) > 8 {
		if n, err := strconv.Atoi(fields[8]); err == nil && n >= 100 && n <= 599 {
			return n
		}
	}
	for i, f := range fields {
		if i > 0 && strings.HasSuffix(fields[i-1], `"`) {
			if n, err := strconv.Atoi(f); err == nil && n >= 100 && n <= 599 {
				return n
			}
		}
	}
	return 0
}

// tailLines returns up to n trailing lines of the file. The whole file is
// read; access logs on a Stratum-1 rotate daily and stay small enough.
func tailLines(path string, n int) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}
