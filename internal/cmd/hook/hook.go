// Package hook provides the hook command and its subcommands.
package hook

import (
	"github.com/schmitthub/recur/internal/cmd/hook/install"
	"github.com/schmitthub/recur/internal/cmd/hook/status"
	"github.com/schmitthub/recur/internal/cmd/hook/stop"
	"github.com/schmitthub/recur/internal/cmd/hook/uninstall"
	"github.com/schmitthub/recur/internal/cmdutil"
	"github.com/spf13/cobra"
)

// NewCmdHook creates the hook parent command.
// This is a parent command that groups Cursor hook operations.
func NewCmdHook(f *cmdutil.Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "hook",
		Aliases: []string{"hooks"},
		Short:   "Manage and answer Cursor editor hooks",
		Long: `Manage and answer Cursor editor hooks.

Cursor discovers hook commands through .cursor/hooks.json in the workspace
root. Each entry names a command the editor runs with the event payload on
stdin; the command's stdout is the hook's reply:

  {
    "version": 1,
    "hooks": {
      "stop": [
        { "command": "recur hook stop" }
      ]
    }
  }

'recur hook install' writes that registration for you, 'recur hook stop' is
the command the editor then invokes on every stop event, and 'recur hook
status' shows what is registered and which continuation policy applies.`,
		Example: `  # Register the stop hook in the current workspace
  recur hook install

  # Inspect registration and the effective policy
  recur hook status

  # Remove the registration
  recur hook uninstall`,
		// No RunE - this is a parent command
	}

	// Add subcommands
	cmd.AddCommand(stop.NewCmdStop(f, nil))
	cmd.AddCommand(install.NewCmdInstall(f, nil))
	cmd.AddCommand(uninstall.NewCmdUninstall(f, nil))
	cmd.AddCommand(status.NewCmdStatus(f, nil))

	return cmd
}
