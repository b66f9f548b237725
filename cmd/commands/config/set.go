package config

import (
	"fmt"
	"strings"

	"github.com/dilasgoi/eessi-monitor/internal/config"
	"github.com/dilasgoi/eessi-monitor/internal/util"

	"github.com/spf13/cobra"
)

// SetCommand returns the "config set" command.
func SetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: "Set a persistent configuration value.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  eessi-monitor config set repository software.eessi.io\n" +
			"  eessi-monitor config set email ops@example.org",
		Args: cobra.ExactArgs(2),
		Run:  runSet,
	}

	return cmd
}

// validators maps key names to optional pre-save validation functions.
// Keys not present in this map have no extra validation.
var validators = map[string]func(cmd *cobra.Command, value string) error{
	"email":      validateEmail,
	"repository": validateRepository,
}

func runSet(cmd *cobra.Command, args []string) {
	key := util.NormalizeKey(args[0])
	value := strings.TrimSpace(args[1])

	spec := config.Lookup(key)
	if spec == nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: unknown configuration key %q\n", args[0])
		fmt.Fprintf(cmd.ErrOrStderr(), "Valid keys: %s\n", strings.Join(config.KeyNames(), ", "))
		return
	}

	if validate, ok := validators[spec.Name]; ok {
		if err := validate(cmd, value); err != nil {
			return // validate already printed the error
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return
	}

	spec.Set(cfg, value)
	if err := cfg.Save(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s set to %q\n", spec.Name, value)
}

// validateEmail applies a loose shape check; full address validation is
// the mail transport's problem.
func validateEmail(cmd *cobra.Command, value string) error {
	if !strings.Contains(value, "@") {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %q does not look like an email address\n", value)
		return fmt.Errorf("invalid email %q", value)
	}
	return nil
}

// validateRepository checks that the value is a fully-qualified repository
// name like software.eessi.io.
func validateRepository(cmd *cobra.Command, value string) error {
	if err := util.ValidateHostname(value); err != nil || !strings.Contains(value, ".") {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %q is not a fully-qualified repository name\n", value)
		return fmt.Errorf("invalid repository %q", value)
	}
	return nil
}
