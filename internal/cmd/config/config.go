package config

import (
	"github.com/schmitthub/recur/internal/cmd/config/check"
	"github.com/schmitthub/recur/internal/cmdutil"
	"github.com/spf13/cobra"
)

// NewCmdConfig creates the config command.
func NewCmdConfig(f *cmdutil.Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
		Long:  `Commands for inspecting and validating recur configuration.`,
	}

	cmd.AddCommand(check.NewCmdCheck(f, nil))

	return cmd
}
