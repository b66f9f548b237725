package pass

import (
	"context"
	"fmt"

	"github.com/dilasgoi/eessi-monitor/internal/domain"
	"github.com/dilasgoi/eessi-monitor/internal/logging"
	"github.com/dilasgoi/eessi-monitor/internal/mailer"
	"github.com/dilasgoi/eessi-monitor/internal/report"
	"github.com/dilasgoi/eessi-monitor/internal/tsstore"

	"github.com/spf13/cobra"
)

func ReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Rebuild the HTML report from the stored time series",
		Long: `Rebuild the HTML report from the last rows of the time-series store,
without collecting anything or contacting upstream servers. Useful for
regenerating a report after a template change or serving it from a
different path.

Examples:
  eessi-monitor pass report --report /var/www/html/status.html
  eessi-monitor pass report --email ops@example.org`,
		Args:         cobra.ExactArgs(0),
		RunE:         runReport,
		SilenceUsage: true,
	}

	cmd.Flags().String("repo", "", "CVMFS repository the stored rows belong to")
	cmd.Flags().String("data-dir", "", "Root directory of the time-series store")
	cmd.Flags().String("report", "", "Write the HTML report to this path")
	cmd.Flags().String("email", "", "Email the rebuilt report to this recipient")
	cmd.Flags().BoolP("verbose", "v", false, "Enable debug logging")

	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	opts, err := resolveOptions(cmd)
	if err != nil {
		return err
	}
	if opts.reportPath == "" {
		return fmt.Errorf("--report is required (or configure report-path)")
	}
	if _, err := logging.Setup("", opts.verbose); err != nil {
		return err
	}

	store := tsstore.New(opts.dataDir, logging.Component("tsstore"))
	snap, err := rebuildSnapshot(store, opts.repository)
	if err != nil {
		return err
	}
	history := report.LoadHistory(store)

	if err := report.WriteHTML(opts.reportPath, snap, history); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "HTML report written to %s\n", opts.reportPath)

	if opts.email != "" {
		doc, err := report.HTML(snap, history)
		if err != nil {
			return err
		}
		subject := fmt.Sprintf("[eessi-monitor] %s report", snap.Repository)
		if err := mailer.New(mailer.SendmailRunner{}).Send(context.Background(), opts.email, subject, doc); err != nil {
			return fmt.Errorf("failed to email report: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report emailed to %s\n", opts.email)
	}

	return nil
}

// rebuildSnapshot reconstructs the most recent pass from the store tail.
// Fields stored as "unknown" come back as sentinels, same as a degraded
// live collection. An empty store is the only error.
func rebuildSnapshot(store *tsstore.Store, repository string) (*domain.Snapshot, error) {
	snap := &domain.Snapshot{
		Repository: repository,
		Size:       domain.RepositorySize{SizeBytes: domain.UnknownSize, FileCount: domain.UnknownSize},
		Catalog:    domain.UnknownManifest(),
		Disk:       domain.DiskUsage{TotalBytes: domain.UnknownSize, UsedBytes: domain.UnknownSize, UsedPercent: domain.UnknownLag},
	}
	found := false

	if row, ok := lastRow(store, tsstore.Daily, tsstore.TableCatalog); ok {
		found = true
		snap.Timestamp = row.Timestamp
		snap.Catalog.Revision = storedInt(row, 1)
		if hash := row.String(2); hash != "unknown" {
			snap.Catalog.RootHash = hash
		}
		snap.Catalog.PublishedAt = storedInt(row, 3)
	}

	if row, ok := lastRow(store, tsstore.Daily, tsstore.TableSize); ok {
		found = true
		snap.Size.SizeBytes = storedInt(row, 1)
		snap.Size.FileCount = storedInt(row, 2)
	}

	if row, ok := lastRow(store, tsstore.Hourly, tsstore.TableTraffic); ok {
		found = true
		snap.Web = domain.WebStats{
			Reachable:     true,
			UniqueClients: storedInt(row, 1),
			TotalRequests: storedInt(row, 2),
			Status2xx:     storedInt(row, 3),
			Status304:     storedInt(row, 4),
			Status404:     storedInt(row, 5),
			StatusOther:   storedInt(row, 6),
		}
		snap.Proxy.TotalRequests = storedInt(row, 7)
		snap.Proxy.CacheHits = storedInt(row, 8)
		if snap.Proxy.TotalRequests > 0 && snap.Proxy.CacheHits >= 0 {
			snap.Proxy.CacheMisses = snap.Proxy.TotalRequests - snap.Proxy.CacheHits
		}
		if pct, ok := row.Float(9); ok {
			snap.Disk.UsedPercent = pct
		}
	}

	if rows, err := store.Tail(tsstore.Hourly, tsstore.TableSync, 64); err == nil && len(rows) > 0 {
		found = true
		// Keep only the rows of the final pass, identified by the shared
		// append timestamp.
		last := rows[len(rows)-1].Timestamp
		for _, row := range rows {
			if !row.Timestamp.Equal(last) {
				continue
			}
			status, _ := domain.ParseStatus(row.String(4))
			lag := domain.UnknownLag
			if v, ok := row.Float(5); ok {
				lag = v
			}
			snap.Records = append(snap.Records, domain.SyncRecord{
				Timestamp: row.Timestamp,
				Server:    row.String(1),
				Local:     domain.Manifest{Revision: storedInt(row, 2), PublishedAt: domain.UnknownTime},
				Upstream:  domain.Manifest{Revision: storedInt(row, 3), PublishedAt: domain.UnknownTime},
				Status:    status,
				LagHours:  lag,
			})
		}
	}

	if !found {
		return nil, fmt.Errorf("time-series store %s has no rows yet, run a pass first", store.Root())
	}
	return snap, nil
}

// lastRow returns the newest row of a table, if the table has any.
func lastRow(store *tsstore.Store, c tsstore.Cadence, table string) (tsstore.Row, bool) {
	rows, err := store.Tail(c, table, 1)
	if err != nil || len(rows) == 0 {
		return tsstore.Row{}, false
	}
	return rows[len(rows)-1], true
}

// storedInt reads a stored counter, mapping "unknown" back to -1.
func storedInt(row tsstore.Row, i int) int64 {
	if v, ok := row.Float(i); ok {
		return int64(v)
	}
	return -1
}
