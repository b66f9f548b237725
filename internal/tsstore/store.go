// Package tsstore is the append-only time-series store for monitoring
// metrics. Each record is one flat CSV row with a leading RFC3339
// timestamp, appended to a per-category file under a cadence directory:
//
//	<root>/hourly/traffic.csv   web and proxy stats, every pass
//	<root>/hourly/sync.csv      one row per upstream comparison
//	<root>/daily/size.csv       repository size and file count
//	<root>/daily/catalog.csv    catalog revision, hash, publish time
//
// Files only ever grow; rotation and compaction are deployment concerns.
package tsstore

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dilasgoi/eessi-monitor/internal/domain"
)

// Cadence partitions metric categories by how often they meaningfully
// change, bounding file growth for slow-moving facts.
type Cadence string

const (
	Hourly Cadence = "hourly"
	Daily  Cadence = "daily"
)

// Table names within a cadence directory.
const (
	TableTraffic = "traffic"
	TableSync    = "sync"
	TableSize    = "size"
	TableCatalog = "catalog"
)

// Store appends metric rows under a root directory.
type Store struct {
	root string
	log  *logrus.Entry
	now  func() time.Time
}

// New returns a store rooted at dir. The directory tree is created
// lazily on first append.
func New(dir string, log *logrus.Entry) *Store {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Store{root: dir, log: log, now: time.Now}
}

// Root returns the store's root directory.
func (s *Store) Root() string { return s.root }

func (s *Store) path(c Cadence, table string) string {
	return filepath.Join(s.root, string(c), table+".csv")
}

// Append writes one row to the given table, prefixed with the current
// timestamp. Parent directories are created as needed.
func (s *Store) Append(c Cadence, table string, fields ...string) error {
	path := s.path(c, table)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("tsstore: failed to create %s: %w", filepath.Dir(path), err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("tsstore: failed to open %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	row := append([]string{s.now().UTC().Format(time.RFC3339)}, fields...)
	if err := w.Write(row); err != nil {
		return fmt.Errorf("tsstore: failed to append to %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("tsstore: failed to flush %s: %w", path, err)
	}
	return nil
}

// WriteSnapshot persists every metric category of one pass. A failed
// write for one category is logged and does not block the others; all
// failures are returned for the caller's health table.
func (s *Store) WriteSnapshot(snap *domain.Snapshot) []error {
	var errs []error

	write := func(c Cadence, table string, fields ...string) {
		if err := s.Append(c, table, fields...); err != nil {
			s.log.WithField("table", table).WithError(err).Error("time-series write failed")
			errs = append(errs, err)
		}
	}

	write(Daily, TableSize,
		snap.Repository,
		formatInt(snap.Size.SizeBytes),
		formatInt(snap.Size.FileCount),
	)
	write(Daily, TableCatalog,
		snap.Repository,
		formatInt(snap.Catalog.Revision),
		unknownOr(snap.Catalog.RootHash),
		formatInt(snap.Catalog.PublishedAt),
	)
	write(Hourly, TableTraffic,
		snap.Repository,
		formatInt(snap.Web.UniqueClients),
		formatInt(snap.Web.TotalRequests),
		formatInt(snap.Web.Status2xx),
		formatInt(snap.Web.Status304),
		formatInt(snap.Web.Status404),
		formatInt(snap.Web.StatusOther),
		formatInt(snap.Proxy.TotalRequests),
		formatInt(snap.Proxy.CacheHits),
		formatFloat(snap.Disk.UsedPercent),
	)
	for _, rec := range snap.Records {
		write(Hourly, TableSync,
			snap.Repository,
			rec.Server,
			formatInt(rec.Local.Revision),
			formatInt(rec.Upstream.Revision),
			rec.Status.String(),
			formatFloat(rec.LagHours),
		)
	}

	return errs
}

// formatInt renders a counter, substituting "unknown" for sentinels.
func formatInt(n int64) string {
	if n < 0 {
		return "unknown"
	}
	return strconv.FormatInt(n, 10)
}

// formatFloat renders a ratio or lag, substituting "unknown" for sentinels.
func formatFloat(f float64) string {
	if f < 0 {
		return "unknown"
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func unknownOr(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
