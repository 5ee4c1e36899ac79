// Package uninstall provides the hook uninstall subcommand.
package uninstall

import (
	"context"
	"fmt"

	"github.com/schmitthub/recur/internal/cmdutil"
	"github.com/schmitthub/recur/internal/cursor"
	"github.com/schmitthub/recur/internal/iostreams"
	"github.com/schmitthub/recur/internal/logger"
	"github.com/spf13/cobra"
)

// UninstallOptions holds options for the hook uninstall command.
type UninstallOptions struct {
	IOStreams *iostreams.IOStreams
	WorkDir   string

	Dir     string
	Command string
}

// NewCmdUninstall creates the hook uninstall command.
func NewCmdUninstall(f *cmdutil.Factory, runF func(context.Context, *UninstallOptions) error) *cobra.Command {
	opts := &UninstallOptions{
		IOStreams: f.IOStreams,
		WorkDir:   f.WorkDir,
	}

	cmd := &cobra.Command{
		Use:   "uninstall [dir]",
		Short: "Remove the stop hook registration from a workspace",
		Long: `Removes the 'recur hook stop' registration from the workspace's
.cursor/hooks.json. Entries belonging to other tools are left in place, and
the file itself is kept even when its last hook is removed.

Removing a registration that does not exist is reported, not failed, so the
command is safe to run in cleanup scripts.`,
		Example: `  # Remove from the current workspace
  recur hook uninstall

  # Remove from another workspace
  recur hook uninstall ~/code/myproject`,
		Args: cmdutil.RequiresMaxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Dir = args[0]
			}
			if runF != nil {
				return runF(cmd.Context(), opts)
			}
			return uninstallRun(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Command, "command", "recur hook stop", "Command to remove from the stop event")

	return cmd
}

func uninstallRun(_ context.Context, opts *UninstallOptions) error {
	ios := opts.IOStreams
	cs := ios.ColorScheme()

	start := opts.Dir
	if start == "" {
		start = opts.WorkDir
	}
	root, err := cursor.FindWorkspaceRoot(start)
	if err != nil {
		return err
	}

	hooksPath := cursor.HooksPath(root)
	file, err := cursor.ReadHooksFile(hooksPath)
	if err != nil {
		return fmt.Errorf("refusing to modify %s: %w", hooksPath, err)
	}

	if !file.Unregister(cursor.EventStop, opts.Command) {
		fmt.Fprintf(ios.ErrOut, "%s No stop hook registered in %s\n", cs.WarningIcon(), hooksPath)
		return nil
	}

	if err := cursor.WriteHooksFile(hooksPath, file); err != nil {
		return err
	}

	logger.Info().
		Str("file", hooksPath).
		Str("command", opts.Command).
		Msg("removed stop hook registration")

	fmt.Fprintf(ios.ErrOut, "%s Removed %q from the stop event\n", cs.SuccessIcon(), opts.Command)
	fmt.Fprintf(ios.ErrOut, "  %s\n", hooksPath)

	return nil
}
