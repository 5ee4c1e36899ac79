// Package install provides the hook install subcommand.
package install

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/schmitthub/recur/internal/cmdutil"
	"github.com/schmitthub/recur/internal/cursor"
	"github.com/schmitthub/recur/internal/iostreams"
	"github.com/schmitthub/recur/internal/logger"
	"github.com/spf13/cobra"
)

// DefaultHookCommand is the command registered on the stop event. It assumes
// the recur binary is on the editor's PATH.
const DefaultHookCommand = "recur hook stop"

// InstallOptions holds options for the hook install command.
type InstallOptions struct {
	IOStreams *iostreams.IOStreams
	WorkDir   string

	Dir     string
	Command string
	Force   bool
}

// NewCmdInstall creates the hook install command.
func NewCmdInstall(f *cmdutil.Factory, runF func(context.Context, *InstallOptions) error) *cobra.Command {
	opts := &InstallOptions{
		IOStreams: f.IOStreams,
		WorkDir:   f.WorkDir,
	}

	cmd := &cobra.Command{
		Use:   "install [dir]",
		Short: "Register the stop hook in a workspace",
		Long: `Registers 'recur hook stop' on the stop event in the workspace's
.cursor/hooks.json, creating the file and the .cursor directory as needed.

The workspace root is the nearest ancestor directory containing .cursor/,
starting from dir (default: the current directory). Entries other tools have
added to hooks.json are preserved; registering twice is a no-op.

A hooks.json that exists but cannot be parsed is left untouched and reported
as an error, so a broken file is never silently overwritten.`,
		Example: `  # Register in the current workspace
  recur hook install

  # Register in another workspace
  recur hook install ~/code/myproject

  # Register a custom command string
  recur hook install --command "/usr/local/bin/recur hook stop"`,
		Args: cmdutil.RequiresMaxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Dir = args[0]
			}
			if runF != nil {
				return runF(cmd.Context(), opts)
			}
			return installRun(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Command, "command", DefaultHookCommand, "Command to register on the stop event")
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Rewrite hooks.json even when already registered")

	return cmd
}

func installRun(_ context.Context, opts *InstallOptions) error {
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

	changed := file.Register(cursor.EventStop, opts.Command)
	if !changed && !opts.Force {
		fmt.Fprintf(ios.ErrOut, "%s Stop hook already registered in %s\n", cs.InfoIcon(), hooksPath)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(hooksPath), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(hooksPath), err)
	}
	if err := cursor.WriteHooksFile(hooksPath, file); err != nil {
		return err
	}

	logger.Info().
		Str("file", hooksPath).
		Str("command", opts.Command).
		Bool("changed", changed).
		Msg("registered stop hook")

	fmt.Fprintf(ios.ErrOut, "%s Registered %q on the stop event\n", cs.SuccessIcon(), opts.Command)
	fmt.Fprintf(ios.ErrOut, "  %s\n", hooksPath)
	cmdutil.PrintNextSteps(ios,
		"Reload the workspace in Cursor so it picks up hooks.json",
		"Add a recur.yaml to tune the policy (see 'recur init')",
	)

	return nil
}
