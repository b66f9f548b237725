package pass

import "github.com/spf13/cobra"

// NewCommand returns the "pass" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pass",
		Short: "Run and inspect monitoring passes",
		Long: "Run a monitoring pass against the local Stratum-1 replica, or run\n" +
			"the lighter variants: a compare-only status check, the upstream\n" +
			"server resolution on its own, or an HTML report rebuilt from the\n" +
			"stored time series.",
		SilenceUsage: true,
	}

	cmd.AddCommand(RunCommand())
	cmd.AddCommand(StatusCommand())
	cmd.AddCommand(ServersCommand())
	cmd.AddCommand(ReportCommand())

	return cmd
}
