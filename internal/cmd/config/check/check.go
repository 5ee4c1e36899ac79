package check

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/schmitthub/recur/internal/cmdutil"
	"github.com/schmitthub/recur/internal/config"
	"github.com/schmitthub/recur/internal/iostreams"
	"github.com/schmitthub/recur/internal/logger"
	"github.com/schmitthub/recur/internal/text"
	"github.com/spf13/cobra"
)

// messagePreviewWidth caps how much of a policy message the summary shows.
const messagePreviewWidth = 70

// CheckOptions holds options for the config check command.
type CheckOptions struct {
	IOStreams *iostreams.IOStreams
	WorkDir   string

	File string
}

// NewCmdCheck creates the config check command.
func NewCmdCheck(f *cmdutil.Factory, runF func(context.Context, *CheckOptions) error) *cobra.Command {
	opts := &CheckOptions{
		IOStreams: f.IOStreams,
		WorkDir:   f.WorkDir,
	}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate recur.yaml configuration",
		Long: `Validates the recur.yaml configuration the stop hook would use.

Without --file the configuration is discovered the same way the hook
discovers it: starting in the current directory and walking up.

Checks for:
  - YAML syntax, unknown keys, and duplicate keys
  - A supported version field
  - Sensible stop policy values (continuation cap, non-blank messages)`,
		Example: `  # Validate the workspace configuration
  recur config check

  # Validate a specific file
  recur config check --file ./recur.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if runF != nil {
				return runF(cmd.Context(), opts)
			}
			return checkRun(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "Validate an explicit file instead of discovering recur.yaml")

	return cmd
}

func checkRun(_ context.Context, opts *CheckOptions) error {
	ios := opts.IOStreams
	cs := ios.ColorScheme()

	var path string
	if opts.File != "" {
		info, err := os.Stat(opts.File)
		if err != nil {
			fmt.Fprintf(ios.ErrOut, "%s %s not found\n", cs.FailureIcon(), opts.File)
			return cmdutil.SilentError
		}
		if info.IsDir() {
			return fmt.Errorf("%s is a directory, not a configuration file", opts.File)
		}
		path = opts.File
	} else {
		found, err := config.NewLoader(opts.WorkDir).Find()
		if err != nil {
			if errors.Is(err, config.ErrNotInProject) {
				fmt.Fprintf(ios.ErrOut, "%s %s not found\n", cs.FailureIcon(), config.ProjectConfigFileName)
				cmdutil.PrintNextSteps(ios,
					"Run 'recur init' to scaffold a configuration",
					"Or pass --file to validate a specific file",
				)
				return cmdutil.SilentError
			}
			return err
		}
		path = found
	}
	logger.Debug().Str("path", path).Msg("checking configuration")

	cfg, err := config.LoadFile(path)
	if err != nil {
		fmt.Fprintf(ios.ErrOut, "%s Failed to load %s\n", cs.FailureIcon(), path)
		fmt.Fprintf(ios.ErrOut, "  %s\n", err)
		cmdutil.PrintNextSteps(ios,
			"Check YAML syntax (indentation, colons, quotes)",
			"Remove unknown or duplicated keys",
		)
		return cmdutil.SilentError
	}

	validator := config.NewValidator()
	if err := validator.Validate(cfg); err != nil {
		fmt.Fprintf(ios.ErrOut, "%s Configuration validation failed\n", cs.FailureIcon())
		fmt.Fprintln(ios.ErrOut)

		var multiErr *config.MultiValidationError
		if errors.As(err, &multiErr) {
			for _, e := range multiErr.ValidationErrors() {
				fmt.Fprintf(ios.ErrOut, "  - %s\n", e)
			}
		} else {
			fmt.Fprintf(ios.ErrOut, "  %s\n", err)
		}

		cmdutil.PrintNextSteps(ios,
			"Review the errors above",
			fmt.Sprintf("Edit %s to fix the issues", path),
			"Run 'recur config check' again",
		)
		return cmdutil.SilentError
	}

	for _, warning := range validator.Warnings() {
		fmt.Fprintf(ios.ErrOut, "%s %s\n", cs.WarningIcon(), warning)
	}

	policy := cfg.StopPolicy()

	fmt.Fprintf(ios.ErrOut, "%s Configuration is valid!\n", cs.SuccessIcon())
	fmt.Fprintln(ios.ErrOut)
	fmt.Fprintf(ios.ErrOut, "  File:              %s\n", path)
	fmt.Fprintf(ios.ErrOut, "  Max continuations: %d\n", policy.Limit())
	fmt.Fprintf(ios.ErrOut, "  Continue message:  %s\n", preview(policy.GetContinueMessage()))
	fmt.Fprintf(ios.ErrOut, "  Limit message:     %s\n", preview(policy.GetLimitMessage()))

	return nil
}

func preview(msg string) string {
	return text.Truncate(text.FirstLine(msg), messagePreviewWidth)
}
