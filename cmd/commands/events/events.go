package events

import "github.com/spf13/cobra"

// NewCommand returns the "events" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "View and manage the monitoring event log",
		Long: "View the warnings and errors raised by past monitoring passes and\n" +
			"prune old entries.\n\n" +
			"Events are stored locally in ~/.config/eessi-monitor/monitor.db.",
		SilenceUsage: true,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(PruneCommand())

	return cmd
}
