package collector

import (
	"bufio"
	"bytes"
	"context"
	"strconv"
	"strings"

	"github.com/dilasgoi/eessi-monitor/internal/domain"
)

// collectDiskUsage asks df for the partition backing the replica. POSIX
// output format keeps the column layout predictable across distros.
func (c *Collector) collectDiskUsage(ctx context.Context, snap *domain.Snapshot, path string) domain.DiskUsage {
	usage := domain.DiskUsage{
		TotalBytes:  domain.UnknownSize,
		UsedBytes:   domain.UnknownSize,
		UsedPercent: domain.UnknownLag,
	}

	out, err := c.runner.Output(ctx, "df", "-P", path)
	if err != nil {
		c.warn(snap, "disk", "df failed for %s: %v", path, err)
		return usage
	}

	parsed, ok := parseDF(out)
	if !ok {
		c.warn(snap, "disk", "unrecognized df output for %s", path)
		return usage
	}
	return parsed
}

// parseDF reads the data line of `df -P` output:
//
//	Filesystem 1024-blocks Used Available Capacity Mounted on
//	/dev/vda1    41152736 25051796 16084556  61%   /
func parseDF(out []byte) (domain.DiskUsage, bool) {
	sc := bufio.NewScanner(bytes.NewReader(out))
	if !sc.Scan() { // header
		return domain.DiskUsage{}, false
	}
	if !sc.Scan() {
		return domain.DiskUsage{}, false
	}

	fields := strings.Fields(sc.Text())
	if len(fields) < 5 {
		return domain.DiskUsage{}, false
	}

	total, err1 := strconv.ParseInt(fields[1], 10, 64)
	used, err2 := strconv.ParseInt(fields[2], 10, 64)
	pct, err3 := strconv.ParseFloat(strings.TrimSuffix(fields[4], "%"), 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return domain.DiskUsage{}, false
	}

	return domain.DiskUsage{
		TotalBytes:  total * 1024,
		UsedBytes:   used * 1024,
		UsedPercent: pct,
	}, true
}
