package collector

import (
	"io/fs"
	"path/filepath"

	"github.com/dilasgoi/eessi-monitor/internal/domain"
)

// collectSize walks the replica directory adding up file sizes. Entries
// that disappear or deny access mid-walk are skipped; only a failure to
// scan anything at all degrades the whole metric to unknown.
func (c *Collector) collectSize(snap *domain.Snapshot, path string) domain.RepositorySize {
	size := domain.RepositorySize{
		SizeBytes: domain.UnknownSize,
		FileCount: domain.UnknownSize,
	}

	var bytes, count int64
	walked := false
	err := filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			// Transient: published files vanish during garbage collection.
			return nil
		}
		walked = true
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		bytes += info.Size()
		count++
		return nil
	})

	if err != nil || !walked {
		c.warn(snap, "size", "cannot scan repository at %s", path)
		return size
	}

	size.SizeBytes = bytes
	size.FileCount = count
	return size
}
