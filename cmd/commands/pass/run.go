package pass

import (
	"context"
	"fmt"

	"github.com/dilasgoi/eessi-monitor/internal/collector"
	"github.com/dilasgoi/eessi-monitor/internal/domain"
	"github.com/dilasgoi/eessi-monitor/internal/eventlog"
	"github.com/dilasgoi/eessi-monitor/internal/logging"
	"github.com/dilasgoi/eessi-monitor/internal/mailer"
	"github.com/dilasgoi/eessi-monitor/internal/manifest"
	"github.com/dilasgoi/eessi-monitor/internal/report"
	"github.com/dilasgoi/eessi-monitor/internal/tsstore"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func RunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one full monitoring pass",
		Long: `Run one full monitoring pass: collect local replica metrics, compare
against every upstream server, append to the time-series store, and
render the result.

The exit code reflects whether the pass itself ran, not what it found:
an out-of-sync replica still exits 0.

Examples:
  eessi-monitor pass run
  eessi-monitor pass run --repo software.eessi.io --server aws-eu-central-s1.eessi.science
  eessi-monitor pass run --report /var/www/html/status.html --email ops@example.org
  eessi-monitor pass run -o json`,
		Args:         cobra.ExactArgs(0),
		RunE:         runRun,
		SilenceUsage: true,
	}

	addCompareFlags(cmd)
	cmd.Flags().String("data-dir", "", "Root directory of the time-series store")
	cmd.Flags().String("web-log", "", "Apache access log to scan for traffic stats")
	cmd.Flags().String("proxy-log", "", "Squid access log to scan for cache stats")
	cmd.Flags().String("log-file", "", "Duplicate warnings and errors to this file")
	cmd.Flags().String("report", "", "Write an HTML report to this path")
	cmd.Flags().String("email", "", "Email the HTML report to this recipient (requires --report)")

	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	opts, err := resolveOptions(cmd)
	if err != nil {
		return err
	}
	if opts.email != "" && opts.reportPath == "" {
		return fmt.Errorf("--email requires --report (or a configured report-path)")
	}

	closer, err := logging.Setup(opts.logFile, opts.verbose)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	// Event log persistence is best effort: a broken database must not
	// stop the pass, it only loses the warning history.
	if events, err := eventlog.Open(); err == nil {
		logrus.AddHook(eventlog.NewHook(events, opts.repository))
		defer events.Close()
	} else {
		logrus.WithError(err).Warn("event log unavailable")
	}

	release, err := acquireLock(opts.dataDir)
	if err != nil {
		return err
	}
	defer release()

	ctx := cmd.Context()
	snap, err := collect(ctx, opts)
	if err != nil {
		return err
	}

	store := tsstore.New(opts.dataDir, logging.Component("tsstore"))
	for _, werr := range store.WriteSnapshot(snap) {
		snap.AddWarning("tsstore", werr.Error())
	}
	history := report.LoadHistory(store)

	if opts.output == "json" {
		if err := printJSON(cmd, snap); err != nil {
			return err
		}
	} else {
		report.Console(cmd.OutOrStdout(), snap, history, consoleWidth())
	}

	deliverReport(ctx, cmd, opts, snap, history)
	return nil
}

// collect produces the full snapshot for one pass: local metrics first,
// then the upstream comparison records.
func collect(ctx context.Context, opts *options) (*domain.Snapshot, error) {
	fetcher := manifest.NewFetcher(manifest.DefaultFetchTimeout)

	coll := collector.New(collector.Config{
		Repository:     opts.repository,
		RepositoryPath: opts.path,
		WebLog:         opts.webLog,
		ProxyLog:       opts.proxyLog,
	}, nil)
	coll.SetProbe(func(ctx context.Context) bool {
		return fetcher.Probe(ctx, "localhost", opts.repository)
	})

	snap, err := coll.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	servers, err := resolveServers(ctx, opts, fetcher)
	if err != nil {
		return nil, err
	}
	snap.Records = compareUpstreams(ctx, opts, fetcher, snap.Catalog, servers)

	return snap, nil
}

// deliverReport writes the HTML report and optionally emails it. Both
// steps log failures instead of failing the pass; the console output and
// store rows already happened.
func deliverReport(ctx context.Context, cmd *cobra.Command, opts *options, snap *domain.Snapshot, history report.History) {
	if opts.reportPath == "" {
		return
	}

	log := logging.Component("report")
	if err := report.WriteHTML(opts.reportPath, snap, history); err != nil {
		log.WithError(err).Error("failed to write HTML report")
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nHTML report written to %s\n", opts.reportPath)

	if opts.email == "" {
		return
	}
	doc, err := report.HTML(snap, history)
	if err != nil {
		log.WithError(err).Error("failed to render report for email")
		return
	}
	summary := snap.Summary()
	subject := fmt.Sprintf("[eessi-monitor] %s: %d/%d upstreams synchronized",
		snap.Repository, summary.Synchronized, len(snap.Records))

	if err := mailer.New(mailer.SendmailRunner{}).Send(ctx, opts.email, subject, doc); err != nil {
		log.WithError(err).WithField("recipient", opts.email).Error("failed to email report")
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report emailed to %s\n", opts.email)
}
