package events

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/dilasgoi/eessi-monitor/internal/eventlog"

	"github.com/spf13/cobra"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent monitoring events",
		Long: `List recent warnings and errors raised during monitoring passes.

Examples:
  eessi-monitor events list
  eessi-monitor events list --limit 50
  eessi-monitor events list --level error
  eessi-monitor events list -o json`,
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().Int("limit", 25, "Number of entries to display")
	cmd.Flags().String("level", "", "Filter by severity: warning or error")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return fmt.Errorf("limit must be greater than 0")
	}

	level, _ := cmd.Flags().GetString("level")
	if level != "" && level != eventlog.LevelWarning && level != eventlog.LevelError {
		return fmt.Errorf("unknown level %q (valid: %s, %s)", level, eventlog.LevelWarning, eventlog.LevelError)
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = "table"
	}

	repo, err := eventlog.Open()
	if err != nil {
		return err
	}
	defer repo.Close()

	var entries []eventlog.Event
	if level != "" {
		entries, err = repo.ListByLevel(level, limit)
	} else {
		entries, err = repo.List(limit)
	}
	if err != nil {
		return err
	}

	if output == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	}
	if output != "table" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No events found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tLEVEL\tCOMPONENT\tSERVER\tMESSAGE")
	fmt.Fprintln(w, "----\t-----\t---------\t------\t-------")
	for _, entry := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			entry.Timestamp.Local().Format("2006-01-02 15:04:05"),
			entry.Level,
			orDash(entry.Component),
			orDash(entry.Server),
			entry.Message,
		)
	}
	w.Flush()
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
