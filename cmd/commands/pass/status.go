package pass

import (
	"github.com/dilasgoi/eessi-monitor/internal/domain"
	"github.com/dilasgoi/eessi-monitor/internal/logging"
	"github.com/dilasgoi/eessi-monitor/internal/manifest"

	"github.com/spf13/cobra"
)

func StatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Compare the replica against its upstreams without recording anything",
		Long: `Compare the local replica's manifest against every upstream server and
print the per-server table. Nothing is written to the time-series store
or the event log.

Examples:
  eessi-monitor pass status
  eessi-monitor pass status --server rug-nl.stratum1.cvmfs.eessi-infra.org
  eessi-monitor pass status -o json`,
		Args:         cobra.ExactArgs(0),
		RunE:         runStatus,
		SilenceUsage: true,
	}

	addCompareFlags(cmd)

	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
	opts, err := resolveOptions(cmd)
	if err != nil {
		return err
	}
	if _, err := logging.Setup("", opts.verbose); err != nil {
		return err
	}

	ctx := cmd.Context()
	fetcher := manifest.NewFetcher(manifest.DefaultFetchTimeout)

	servers, err := resolveServers(ctx, opts, fetcher)
	if err != nil {
		return err
	}

	local := readLocalManifest(opts)
	records := compareUpstreams(ctx, opts, fetcher, local, servers)

	payload := statusPayload{
		Repository: opts.repository,
		Local:      local,
		Records:    records,
		Summary:    domain.Summarize(records),
	}

	if opts.output == "json" {
		return printJSON(cmd, payload)
	}
	printStatusTable(cmd, payload)
	return nil
}
