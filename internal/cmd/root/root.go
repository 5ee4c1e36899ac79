package root

import (
	"errors"

	configcmd "github.com/schmitthub/recur/internal/cmd/config"
	hookcmd "github.com/schmitthub/recur/internal/cmd/hook"
	initcmd "github.com/schmitthub/recur/internal/cmd/init"
	logscmd "github.com/schmitthub/recur/internal/cmd/logs"
	versioncmd "github.com/schmitthub/recur/internal/cmd/version"
	"github.com/schmitthub/recur/internal/cmdutil"
	internalconfig "github.com/schmitthub/recur/internal/config"
	"github.com/schmitthub/recur/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// NewCmdRoot creates the root command for the recur CLI.
func NewCmdRoot(f *cmdutil.Factory, version, commit string) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "recur",
		Short: "Keep Cursor agents working until the job is done",
		Long: `Recur is a Cursor stop hook that automatically continues agent
conversations until the work is actually finished.

When a conversation stops, Cursor runs 'recur hook stop' with a JSON
payload on stdin. Recur answers with a follow-up instruction, winds the
agent down once the continuation limit is reached, and always respects
a user abort.

Quick start:
  recur init           # Scaffold recur.yaml and register the hook
  recur hook status    # Inspect registration and the active policy
  recur logs           # See what the hook decided on recent stops`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Annotations: map[string]string{
			"versionInfo": versioncmd.Format(version, commit),
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initializeLogger(f)

			logger.Debug().
				Str("version", version).
				Bool("debug", f.Debug).
				Msg("recur starting")

			return nil
		},
		Version: version,
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&f.Debug, "debug", "D", false, "Enable debug logging")

	// Version template
	cmd.SetVersionTemplate(versioncmd.Format(version, commit))

	// Bad flags surface through Main() with the usage string attached.
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		if errors.Is(err, pflag.ErrHelp) {
			return err
		}
		return cmdutil.FlagErrorWrap(err)
	})

	// Register top-level aliases (shortcuts to hook subcommands)
	registerAliases(cmd, f)

	cmd.AddCommand(initcmd.NewCmdInit(f, nil))
	cmd.AddCommand(hookcmd.NewCmdHook(f))
	cmd.AddCommand(configcmd.NewCmdConfig(f))
	cmd.AddCommand(logscmd.NewCmdLogs(f, nil))
	cmd.AddCommand(versioncmd.NewCmdVersion(f, version, commit))

	return cmd, nil
}

// initializeLogger routes diagnostics to the rotated log file under the recur
// home. Any failure leaves the nop logger in place: commands and the stop hook
// must work without a writable home, and the logger never touches stdout.
func initializeLogger(f *cmdutil.Factory) {
	if f.Settings == nil {
		logger.Init()
		return
	}

	settings, err := f.Settings()
	if err != nil {
		logger.Init()
		return
	}

	logsDir, err := internalconfig.LogsDir()
	if err != nil {
		logger.Init()
		return
	}

	logCfg := &logger.LoggingConfig{
		FileEnabled: settings.Logging.FileEnabled,
		MaxSizeMB:   settings.Logging.MaxSizeMB,
		MaxAgeDays:  settings.Logging.MaxAgeDays,
		MaxBackups:  settings.Logging.MaxBackups,
		Compress:    settings.Logging.Compress,
	}

	if err := logger.InitWithFile(f.Debug, logsDir, logCfg); err != nil {
		logger.Init()
	}
}
