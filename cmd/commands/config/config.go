package config

import (
	"github.com/dilasgoi/eessi-monitor/internal/config"

	"github.com/spf13/cobra"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage eessi-monitor configuration",
		Long: "View and modify persistent eessi-monitor settings.\n\n" +
			"Configuration is stored at ~/.config/eessi-monitor/config.toml.\n\n" +
			config.KeysHelp(),
	}

	cmd.AddCommand(SetCommand())
	cmd.AddCommand(GetCommand())

	return cmd
}
