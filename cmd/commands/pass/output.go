package pass

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dilasgoi/eessi-monitor/internal/domain"
	"github.com/dilasgoi/eessi-monitor/internal/report"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// printJSON encodes a value as indented JSON to the command's stdout.
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// statusPayload is the JSON shape of a compare-only check.
type statusPayload struct {
	Repository string              `json:"repository"`
	Local      domain.Manifest     `json:"local"`
	Records    []domain.SyncRecord `json:"records"`
	Summary    domain.SyncSummary  `json:"summary"`
}

// printStatusTable prints the per-server table and the aggregate line.
func printStatusTable(cmd *cobra.Command, payload statusPayload) {
	out := cmd.OutOrStdout()
	report.WriteSyncTable(out, payload.Records)

	fmt.Fprintf(out, "\n%d synchronized, %d out of sync, %d unreachable\n",
		payload.Summary.Synchronized, payload.Summary.OutOfSync, payload.Summary.Unreachable)
	if payload.Summary.LatestServer != "" {
		fmt.Fprintf(out, "Freshest upstream: %s (revision %s)\n",
			payload.Summary.LatestServer, report.FormatCount(payload.Summary.LatestRevision))
	}
}

// printServerTable lists resolved upstream servers and their provenance.
func printServerTable(cmd *cobra.Command, servers []domain.Server) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SERVER\tSOURCE\tPROBED")
	fmt.Fprintln(w, "------\t------\t------")
	for _, s := range servers {
		probed := "no"
		if s.Probed {
			probed = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.Host, s.Source, probed)
	}
	w.Flush()
}

// consoleWidth returns the terminal width for the console report, or a
// fixed fallback when stdout is not a terminal.
func consoleWidth() int {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 20 {
			return width
		}
	}
	return 100
}
