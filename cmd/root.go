package cmd

import (
	"os"

	cfgcmd "github.com/dilasgoi/eessi-monitor/cmd/commands/config"
	"github.com/dilasgoi/eessi-monitor/cmd/commands/events"
	"github.com/dilasgoi/eessi-monitor/cmd/commands/pass"
	"github.com/dilasgoi/eessi-monitor/cmd/commands/watch"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "eessi-monitor",
		Short: "Monitor a CVMFS Stratum-1 replica and its upstream synchronization",
		Long: `eessi-monitor watches a local CVMFS Stratum-1 replica: repository
footprint, catalog state, web and proxy traffic, and how far the replica
trails its upstream servers. Each pass appends to a CSV time-series store
and can render a console or HTML report.

Quick start:
  eessi-monitor config set repository software.eessi.io
  eessi-monitor pass run                  # full monitoring pass
  eessi-monitor pass status               # quick sync check, no store writes
  eessi-monitor watch                     # live full-screen view
  eessi-monitor events list               # warnings from past passes`,
	}

	cmd.AddCommand(pass.NewCommand())
	cmd.AddCommand(events.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())
	cmd.AddCommand(watch.NewCommand())

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	var root = rootCmd()
	err := root.Execute()
	if err != nil {
		os.Exit(1)
	}
}
