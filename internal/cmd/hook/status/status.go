// Package status provides the hook status subcommand.
package status

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/schmitthub/recur/internal/cmdutil"
	"github.com/schmitthub/recur/internal/config"
	"github.com/schmitthub/recur/internal/cursor"
	"github.com/schmitthub/recur/internal/hook"
	"github.com/schmitthub/recur/internal/iostreams"
	"github.com/schmitthub/recur/internal/text"
	"github.com/spf13/cobra"
)

// messagePreviewWidth bounds message previews in the human output. Full
// texts are available via --json.
const messagePreviewWidth = 70

// StatusOptions holds options for the hook status command.
type StatusOptions struct {
	IOStreams *iostreams.IOStreams
	WorkDir   string

	Dir     string
	Command string
	JSON    bool
}

// NewCmdStatus creates the hook status command.
func NewCmdStatus(f *cmdutil.Factory, runF func(context.Context, *StatusOptions) error) *cobra.Command {
	opts := &StatusOptions{
		IOStreams: f.IOStreams,
		WorkDir:   f.WorkDir,
	}

	cmd := &cobra.Command{
		Use:   "status [dir]",
		Short: "Show hook registration and the effective policy",
		Long: `Shows whether the stop hook is registered in the workspace's
.cursor/hooks.json and which continuation policy applies there: the
continuation limit and the follow-up messages, resolved exactly the way
'recur hook stop' resolves them (nearest recur.yaml, built-in defaults
otherwise).`,
		Example: `  # Current workspace
  recur hook status

  # Another workspace, machine-readable
  recur hook status ~/code/myproject --json`,
		Args: cmdutil.RequiresMaxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Dir = args[0]
			}
			if runF != nil {
				return runF(cmd.Context(), opts)
			}
			return statusRun(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Command, "command", "recur hook stop", "Command whose registration to check")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output as JSON")

	return cmd
}

func statusRun(_ context.Context, opts *StatusOptions) error {
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
	_, statErr := os.Stat(hooksPath)
	hooksFileExists := statErr == nil

	var (
		registered   bool
		stopCommands []string
		hooksFileErr error
	)
	if hooksFileExists {
		file, err := cursor.ReadHooksFile(hooksPath)
		if err != nil {
			hooksFileErr = err
		} else {
			registered = file.IsRegistered(cursor.EventStop, opts.Command)
			for _, h := range file.Hooks[cursor.EventStop] {
				stopCommands = append(stopCommands, h.Command)
			}
		}
	}

	policy := hook.DefaultPolicy()
	configPath := ""
	var configErr error
	cfg, path, err := config.NewLoader(root).Load()
	switch {
	case err == nil:
		policy = cfg.StopPolicy()
		configPath = path
	case errors.Is(err, config.ErrNotInProject):
		// Built-in defaults apply.
	default:
		configErr = err
	}

	if opts.JSON {
		out := map[string]any{
			"workspace":         root,
			"hooks_file":        hooksPath,
			"hooks_file_exists": hooksFileExists,
			"registered":        registered,
			"stop_commands":     stopCommands,
			"config_file":       configPath,
			"max_continuations": policy.Limit(),
			"continue_message":  policy.GetContinueMessage(),
			"limit_message":     policy.GetLimitMessage(),
		}
		if hooksFileErr != nil {
			out["hooks_file_error"] = hooksFileErr.Error()
		}
		if configErr != nil {
			out["config_error"] = configErr.Error()
		}
		return cmdutil.WriteJSON(ios.Out, out)
	}

	fmt.Fprintf(ios.Out, "Workspace: %s\n\n", root)

	fmt.Fprintf(ios.Out, "Hook registration:\n")
	fmt.Fprintf(ios.Out, "  File:       %s\n", hooksPath)
	switch {
	case hooksFileErr != nil:
		fmt.Fprintf(ios.Out, "  Registered: %s unreadable (%v)\n", cs.FailureIcon(), hooksFileErr)
	case registered:
		fmt.Fprintf(ios.Out, "  Registered: %s yes\n", cs.SuccessIcon())
	default:
		fmt.Fprintf(ios.Out, "  Registered: %s no\n", cs.WarningIcon())
	}
	for _, command := range stopCommands {
		fmt.Fprintf(ios.Out, "  Stop hook:  %s\n", command)
	}
	fmt.Fprintln(ios.Out)

	fmt.Fprintf(ios.Out, "Policy:\n")
	if configPath != "" {
		fmt.Fprintf(ios.Out, "  Config:            %s\n", configPath)
	} else {
		fmt.Fprintf(ios.Out, "  Config:            (built-in defaults)\n")
	}
	fmt.Fprintf(ios.Out, "  Max continuations: %d\n", policy.Limit())
	fmt.Fprintf(ios.Out, "  Continue message:  %s\n", preview(policy.GetContinueMessage()))
	fmt.Fprintf(ios.Out, "  Limit message:     %s\n", preview(policy.GetLimitMessage()))

	if configErr != nil {
		fmt.Fprintf(ios.ErrOut, "\n%s recur.yaml is unusable, the hook falls back to built-in defaults: %v\n",
			cs.WarningIcon(), configErr)
	}
	if !registered && hooksFileErr == nil {
		installCmd := "recur hook install"
		if opts.Dir != "" {
			installCmd += " " + opts.Dir
		}
		fmt.Fprintf(ios.ErrOut, "\n%s Register the hook: %s\n", cs.InfoIcon(), installCmd)
	}

	return nil
}

func preview(message string) string {
	return text.Truncate(text.FirstLine(message), messagePreviewWidth)
}
