// Package init provides the workspace initialization command.
package init

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/schmitthub/recur/internal/cmdutil"
	"github.com/schmitthub/recur/internal/config"
	"github.com/schmitthub/recur/internal/cursor"
	"github.com/schmitthub/recur/internal/iostreams"
	"github.com/schmitthub/recur/internal/logger"
	prompterpkg "github.com/schmitthub/recur/internal/prompter"
	"github.com/spf13/cobra"
)

// hookCommand is what init registers on the stop event.
const hookCommand = "recur hook stop"

// InitOptions contains the options for the init command.
type InitOptions struct {
	IOStreams *iostreams.IOStreams
	Prompter  func() *prompterpkg.Prompter
	WorkDir   string

	Force bool
	Yes   bool // Non-interactive mode
}

// NewCmdInit creates the init command for workspace setup.
func NewCmdInit(f *cmdutil.Factory, runF func(context.Context, *InitOptions) error) *cobra.Command {
	opts := &InitOptions{
		IOStreams: f.IOStreams,
		Prompter:  f.Prompter,
		WorkDir:   f.WorkDir,
	}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Set up recur in the current workspace",
		Long: `Creates a recur.yaml with commented policy defaults in the workspace root
and registers the stop hook in .cursor/hooks.json, so the next agent
conversation keeps itself going.

The workspace root is the nearest ancestor directory containing .cursor/,
falling back to the current directory. In interactive mode you are asked
before hooks.json is touched; use --yes/-y to skip prompts and accept all
defaults.

An existing recur.yaml is never overwritten without --force.`,
		Example: `  # Interactive setup
  recur init

  # Non-interactive with all defaults
  recur init --yes

  # Replace an existing recur.yaml
  recur init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if runF != nil {
				return runF(cmd.Context(), opts)
			}
			return initRun(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Overwrite an existing recur.yaml")
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Non-interactive mode, accept all defaults")

	return cmd
}

func initRun(_ context.Context, opts *InitOptions) error {
	ios := opts.IOStreams
	cs := ios.ColorScheme()
	prompter := opts.Prompter()

	// Print header
	fmt.Fprintln(ios.ErrOut, "Setting up recur in this workspace...")
	if !opts.Yes && ios.IsInteractive() {
		fmt.Fprintln(ios.ErrOut, "(Press Enter to accept defaults)")
	}
	fmt.Fprintln(ios.ErrOut)

	root, err := cursor.FindWorkspaceRoot(opts.WorkDir)
	if err != nil {
		return err
	}

	configPath := filepath.Join(root, config.ProjectConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !opts.Force {
		if opts.Yes || !ios.IsInteractive() {
			fmt.Fprintf(ios.ErrOut, "%s %s already exists\n", cs.FailureIcon(), config.ProjectConfigFileName)
			cmdutil.PrintNextSteps(ios,
				"Use --force to overwrite the existing configuration",
				"Or edit the existing recur.yaml manually",
			)
			return cmdutil.SilentError
		}
		overwrite, err := prompter.Confirm(
			fmt.Sprintf("%s already exists. Overwrite?", config.ProjectConfigFileName),
			false,
		)
		if err != nil {
			return fmt.Errorf("failed to get confirmation: %w", err)
		}
		if !overwrite {
			fmt.Fprintln(ios.ErrOut, "Aborted.")
			return nil
		}
	}

	logger.Debug().
		Str("workspace", root).
		Bool("force", opts.Force).
		Bool("yes", opts.Yes).
		Msg("initializing workspace")

	if err := config.AtomicWriteFile(configPath, []byte(config.DefaultConfigYAML), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", config.ProjectConfigFileName, err)
	}
	logger.Info().Str("file", configPath).Msg("created configuration file")

	// Register the stop hook unless declined
	registerHook := true
	if !opts.Yes && ios.IsInteractive() {
		registerHook, err = prompter.Confirm("Register the stop hook in .cursor/hooks.json?", true)
		if err != nil {
			return fmt.Errorf("failed to get confirmation: %w", err)
		}
	}

	var hooksPath string
	if registerHook {
		hooksPath, err = registerStopHook(root)
		if err != nil {
			fmt.Fprintf(ios.ErrOut, "%s Could not register the stop hook: %v\n", cs.WarningIcon(), err)
			hooksPath = ""
		}
	}

	// Ensure user settings exist so the log location and defaults are
	// discoverable. Failure here is not fatal to workspace setup.
	if settingsLoader, err := config.NewSettingsLoader(); err != nil {
		logger.Debug().Err(err).Msg("failed to create settings loader")
		fmt.Fprintf(ios.ErrOut, "%s Could not access user settings: %v\n", cs.WarningIcon(), err)
	} else if created, err := settingsLoader.EnsureExists(); err != nil {
		logger.Debug().Err(err).Msg("failed to ensure settings file exists")
	} else if created {
		logger.Info().Str("file", settingsLoader.Path()).Msg("created user settings")
	}

	// Success output
	fmt.Fprintln(ios.ErrOut)
	fmt.Fprintf(ios.ErrOut, "%s Created: %s\n", cs.SuccessIcon(), configPath)
	if hooksPath != "" {
		fmt.Fprintf(ios.ErrOut, "%s Registered %q on the stop event\n", cs.SuccessIcon(), hookCommand)
		fmt.Fprintf(ios.ErrOut, "  %s\n", hooksPath)
	}
	nextSteps := []string{
		"Review and customize recur.yaml",
		"Reload the workspace in Cursor so it picks up hooks.json",
	}
	if !registerHook {
		nextSteps = append(nextSteps, "Run 'recur hook install' when ready to register the stop hook")
	}
	cmdutil.PrintNextSteps(ios, nextSteps...)

	return nil
}

// registerStopHook merges the stop registration into the workspace's
// hooks.json and returns its path.
func registerStopHook(root string) (string, error) {
	hooksPath := cursor.HooksPath(root)
	file, err := cursor.ReadHooksFile(hooksPath)
	if err != nil {
		return "", err
	}

	if file.Register(cursor.EventStop, hookCommand) {
		if err := os.MkdirAll(filepath.Dir(hooksPath), 0o755); err != nil {
			return "", err
		}
		if err := cursor.WriteHooksFile(hooksPath, file); err != nil {
			return "", err
		}
		logger.Info().Str("file", hooksPath).Msg("registered stop hook")
	}

	return hooksPath, nil
}
