package collector

import (
	"strings"

	"github.com/dilasgoi/eessi-monitor/internal/domain"
)

// collectProxyStats scans the tail of the Squid access log. Squid tags
// every request with a result code like TCP_HIT/200 or TCP_MISS/200;
// hit/miss classification only needs that token.
func (c *Collector) collectProxyStats(snap *domain.Snapshot) domain.ProxyStats {
	var stats domain.ProxyStats

	if c.cfg.ProxyLog == "" {
		return stats
	}

	lines, err := tailLines(c.cfg.ProxyLog, webLogWindow)
	if err != nil {
		c.warn(snap, "proxy", "cannot read proxy log %s: %v", c.cfg.ProxyLog, err)
		return stats
	}

	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		result := fields[3]
		if !strings.HasPrefix(result, "TCP_") && !strings.HasPrefix(result, "UDP_") {
			continue
		}
		stats.TotalRequests++
		switch {
		case strings.Contains(result, "HIT"):
			stats.CacheHits++
		case strings.Contains(result, "MISS"):
			stats.CacheMisses++
		}
	}

	return stats
}
