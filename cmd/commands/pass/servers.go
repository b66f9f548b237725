package pass

import (
	"github.com/dilasgoi/eessi-monitor/internal/logging"
	"github.com/dilasgoi/eessi-monitor/internal/manifest"

	"github.com/spf13/cobra"
)

func ServersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "servers",
		Short: "Show which upstream servers a pass would compare against",
		Long: `Resolve the upstream server list the way a pass would: explicit
--server flags, then the servers file, then the replication tool, the
CVMFS client configuration, and finally a probe of the public mirrors.
The SOURCE column shows which step produced each entry.

Examples:
  eessi-monitor pass servers
  eessi-monitor pass servers --repo software.eessi.io -o json`,
		Args:         cobra.ExactArgs(0),
		RunE:         runServers,
		SilenceUsage: true,
	}

	addCompareFlags(cmd)

	return cmd
}

func runServers(cmd *cobra.Command, args []string) error {
	opts, err := resolveOptions(cmd)
	if err != nil {
		return err
	}
	if _, err := logging.Setup("", opts.verbose); err != nil {
		return err
	}

	fetcher := manifest.NewFetcher(manifest.DefaultProbeTimeout)
	servers, err := resolveServers(cmd.Context(), opts, fetcher)
	if err != nil {
		return err
	}

	if opts.output == "json" {
		return printJSON(cmd, servers.Servers())
	}
	printServerTable(cmd, servers.Servers())
	return nil
}
