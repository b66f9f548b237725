// Package report renders snapshots for humans: a styled console summary
// and a self-contained static HTML document. Rendering is a pure
// function of the snapshot and the store tail; it never re-collects,
// never re-compares, and never fails on partial data. Every unknown
// metric renders as "unknown" and the rest of the document still
// appears.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dilasgoi/eessi-monitor/internal/domain"
	"github.com/dilasgoi/eessi-monitor/internal/tui/styles"
)

const unknown = "unknown"

// Console writes the full console report: summary block, per-server sync
// table, history charts, and the health table when warnings exist.
func Console(w io.Writer, snap *domain.Snapshot, history History, width int) {
	if width <= 0 {
		width = 80
	}

	fmt.Fprintln(w, styles.Title.Render(fmt.Sprintf("CVMFS Stratum-1 status: %s", snap.Repository)))
	fmt.Fprintln(w, styles.Subtitle.Render(snap.Timestamp.Format("2006-01-02 15:04:05 UTC")))
	fmt.Fprintln(w)

	writeSummary(w, snap)
	fmt.Fprintln(w)
	WriteSyncTable(w, snap.Records)

	sum := snap.Summary()
	if sum.LatestServer != "" {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Freshest upstream: %s (revision %s)\n",
			sum.LatestServer, FormatCount(sum.LatestRevision))
	}

	for _, c := range []string{
		chart("repository size (GB)", history.SizeGB, width),
		chart("requests per pass", history.Requests, width),
		percentChart("synchronized upstreams", history.SyncHealthy, width),
	} {
		fmt.Fprintln(w)
		fmt.Fprintln(w, c)
	}

	if len(snap.Warnings) > 0 {
		fmt.Fprintln(w)
		writeHealthTable(w, snap.Warnings)
	}
}

// writeSummary prints the vertical key-value block of current metrics.
func writeSummary(w io.Writer, snap *domain.Snapshot) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "  Revision:\t%s\n", FormatCount(snap.Catalog.Revision))
	fmt.Fprintf(tw, "  Root hash:\t%s\n", orUnknown(snap.Catalog.RootHash))
	fmt.Fprintf(tw, "  Published:\t%s\n", FormatEpoch(snap.Catalog.PublishedAt))
	fmt.Fprintf(tw, "  Size:\t%s (%s files)\n", FormatBytes(snap.Size.SizeBytes), FormatCount(snap.Size.FileCount))
	fmt.Fprintf(tw, "  Disk used:\t%s\n", FormatPercent(snap.Disk.UsedPercent))

	web := fmt.Sprintf("%d requests / %d clients (2xx %d, 304 %d, 404 %d)",
		snap.Web.TotalRequests, snap.Web.UniqueClients,
		snap.Web.Status2xx, snap.Web.Status304, snap.Web.Status404)
	if !snap.Web.Reachable {
		web += "  [server unreachable]"
	}
	fmt.Fprintf(tw, "  Web:\t%s\n", web)

	if snap.Proxy.TotalRequests > 0 {
		fmt.Fprintf(tw, "  Proxy:\t%d requests, %s hit ratio\n",
			snap.Proxy.TotalRequests, FormatPercent(snap.Proxy.HitRatio()))
	}

	tw.Flush()
}

// WriteSyncTable prints the per-server comparison breakdown. Exported
// because the watch TUI embeds the same table.
func WriteSyncTable(w io.Writer, records []domain.SyncRecord) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "SERVER\tLOCAL REV\tUPSTREAM REV\tSTATUS\tLAG")
	fmt.Fprintln(tw, "------\t---------\t------------\t------\t---")
	for _, rec := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			rec.Server,
			FormatCount(rec.Local.Revision),
			FormatCount(rec.Upstream.Revision),
			styles.StatusIndicator(rec.Status),
			FormatLag(rec.LagHours),
		)
	}
	tw.Flush()
}

func writeHealthTable(w io.Writer, warnings []domain.Warning) {
	fmt.Fprintln(w, styles.ErrorText.Render("Warnings this pass:"))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, warning := range warnings {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n",
			warning.Timestamp.Format("15:04:05"), warning.Component, warning.Message)
	}
	tw.Flush()
}

// --- Shared formatting helpers ---

// FormatBytes renders a byte count in human units, or "unknown".
func FormatBytes(n int64) string {
	if n < 0 {
		return unknown
	}
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for x := n / unit; x >= unit; x /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// FormatCount renders a counter, or "unknown" for sentinels.
func FormatCount(n int64) string {
	if n < 0 {
		return unknown
	}
	return fmt.Sprintf("%d", n)
}

// FormatEpoch renders a unix timestamp, or "unknown".
func FormatEpoch(sec int64) string {
	if sec <= 0 {
		return unknown
	}
	return time.Unix(sec, 0).UTC().Format("2006-01-02 15:04:05 UTC")
}

// FormatPercent renders a 0-100 value, or "unknown" for sentinels.
func FormatPercent(p float64) string {
	if p < 0 {
		return unknown
	}
	return fmt.Sprintf("%.1f%%", p)
}

// FormatLag renders a lag estimate in hours, or "-" when not applicable.
func FormatLag(hours float64) string {
	if hours < 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f h", hours)
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return unknown
	}
	return s
}
