// Package stop implements the stop event handler Cursor invokes between
// agent turns.
package stop

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/google/uuid"
	"github.com/schmitthub/recur/internal/cmdutil"
	"github.com/schmitthub/recur/internal/config"
	"github.com/schmitthub/recur/internal/hook"
	"github.com/schmitthub/recur/internal/iostreams"
	"github.com/schmitthub/recur/internal/logger"
	"github.com/spf13/cobra"
)

// StopOptions holds options for the hook stop command.
type StopOptions struct {
	IOStreams *iostreams.IOStreams
	Config    func() (*config.Config, string, error)

	ConfigFile string
	NoConfig   bool
}

// NewCmdStop creates the hook stop command.
func NewCmdStop(f *cmdutil.Factory, runF func(context.Context, *StopOptions) error) *cobra.Command {
	opts := &StopOptions{
		IOStreams: f.IOStreams,
		Config:    f.Config,
	}

	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Answer a Cursor stop event from stdin",
		Long: `Answers a Cursor stop event.

Cursor runs this command when an agent's turn ends, delivering the event
payload as a single JSON object on stdin. The reply on stdout decides what
happens next: a followup_message keeps the agent working, an empty object
lets the conversation stop.

The applied policy comes from the nearest recur.yaml (walking up from the
working directory), falling back to the built-in defaults when no workspace
configuration exists or it cannot be read. A user abort always ends the
conversation, and once the continuation limit is reached the agent is asked
to wind down instead of getting more work.

This command never fails the editor: any malformed payload yields the empty
decision and the exit code is always 0. You normally do not run it yourself;
'recur hook install' registers it in .cursor/hooks.json.`,
		Example: `  # What the editor does on every stop event
  echo '{"status": "completed", "loop_count": 2}' | recur hook stop

  # Pin the policy to an explicit config file
  recur hook stop --config /path/to/recur.yaml < payload.json

  # Ignore workspace configuration entirely
  recur hook stop --no-config < payload.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if runF != nil {
				return runF(cmd.Context(), opts)
			}
			return stopRun(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigFile, "config", "", "Path to a recur.yaml to apply (skips discovery)")
	cmd.Flags().BoolVar(&opts.NoConfig, "no-config", false, "Ignore workspace configuration, use the built-in policy")

	return cmd
}

func stopRun(_ context.Context, opts *StopOptions) error {
	ios := opts.IOStreams
	runID := uuid.NewString()

	payload, err := hook.ParsePayload(ios.In)
	if err != nil {
		logger.Warn().
			Str("run_id", runID).
			Err(err).
			Msg("malformed stop payload, emitting empty decision")
		return emitDecision(ios.Out, runID, hook.Decision{})
	}

	policy := resolvePolicy(opts, runID)
	decision := policy.Decide(payload)

	logger.Info().
		Str("run_id", runID).
		Str("event", payload.HookEventName).
		Str("conversation_id", payload.ConversationID).
		Str("status", payload.Status).
		Int("loop_count", payload.LoopCount).
		Int("max_continuations", policy.Limit()).
		Bool("continue", !decision.Empty()).
		Msg("stop decision")

	return emitDecision(ios.Out, runID, decision)
}

// resolvePolicy returns the policy for this invocation. Configuration
// trouble is logged and absorbed: the stop event still gets an answer.
func resolvePolicy(opts *StopOptions, runID string) hook.Policy {
	if opts.NoConfig {
		return hook.DefaultPolicy()
	}

	var (
		cfg  *config.Config
		path string
		err  error
	)
	if opts.ConfigFile != "" {
		path = opts.ConfigFile
		cfg, err = config.LoadFile(opts.ConfigFile)
	} else {
		cfg, path, err = opts.Config()
	}

	if err != nil {
		if !errors.Is(err, config.ErrNotInProject) {
			logger.Warn().
				Str("run_id", runID).
				Str("file", path).
				Err(err).
				Msg("workspace config unusable, using built-in policy")
		}
		return hook.DefaultPolicy()
	}

	return cfg.StopPolicy()
}

// emitDecision writes the decision as a single compact JSON line. HTML
// escaping is off so message text reaches the agent byte for byte. A write
// failure is logged but never surfaces: the hook contract is one line out
// and exit 0, and by this point there is nothing useful left to do.
func emitDecision(w io.Writer, runID string, d hook.Decision) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(d); err != nil {
		logger.Error().Str("run_id", runID).Err(err).Msg("writing stop decision")
	}
	return nil
}
