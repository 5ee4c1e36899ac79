// Package recur wires the CLI entry point together: factory construction,
// root command execution, error printing, and the background update check.
package recur

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schmitthub/recur/internal/cmd/factory"
	"github.com/schmitthub/recur/internal/cmd/root"
	"github.com/schmitthub/recur/internal/cmdutil"
	"github.com/schmitthub/recur/internal/config"
	"github.com/schmitthub/recur/internal/iostreams"
	"github.com/schmitthub/recur/internal/logger"
	"github.com/schmitthub/recur/internal/update"
	"github.com/spf13/cobra"
)

// Build-time variables injected via ldflags
var (
	Version = "DEV"
	Commit  = ""
)

// RepoSlug is the GitHub repository queried for release updates.
const RepoSlug = "schmitthub/recur"

// updateStateFile caches the last release check under the state directory.
const updateStateFile = "update.yaml"

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// Main is the entry point for the recur CLI.
// It builds the Factory, creates the root command, and executes it.
func Main() int {
	// Ensure logs are flushed on exit
	defer logger.CloseFileWriter()

	f := factory.New(Version, Commit)
	ios := f.IOStreams

	rootCmd, err := root.NewCmdRoot(f, Version, Commit)
	if err != nil {
		fmt.Fprintf(ios.ErrOut, "failed to build root command: %v\n", err)
		return exitError
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	updateCh := startUpdateCheck(ctx, f, os.Args)

	cmd, err := rootCmd.ExecuteC()
	if err != nil {
		return printError(ios, err, cmd)
	}

	printUpdateNotification(ios, <-updateCh)
	return exitOK
}

// printError reports a command failure on stderr and picks the exit code.
// SilentError means the command already printed its diagnostics.
func printError(ios *iostreams.IOStreams, err error, cmd *cobra.Command) int {
	if errors.Is(err, cmdutil.SilentError) {
		return exitError
	}

	var flagErr *cmdutil.FlagError
	if errors.As(err, &flagErr) || strings.HasPrefix(err.Error(), "unknown command ") {
		fmt.Fprintln(ios.ErrOut, err)
		if cmd != nil {
			fmt.Fprintln(ios.ErrOut, cmd.UsageString())
		}
		return exitUsage
	}

	fmt.Fprintf(ios.ErrOut, "Error: %v\n", err)
	if cmd != nil {
		cmdutil.PrintHelpHint(ios, cmd.CommandPath())
	}
	return exitError
}

// startUpdateCheck launches the release check in the background unless this
// invocation must stay silent. The stop hook never checks: its stdout is a
// wire protocol and its latency budget belongs to the editor.
func startUpdateCheck(ctx context.Context, f *cmdutil.Factory, args []string) <-chan *update.CheckResult {
	ch := make(chan *update.CheckResult, 1)

	if isHookInvocation(args) || !f.IOStreams.IsOutputTTY() {
		close(ch)
		return ch
	}
	interval := update.DefaultTTL
	if settings, err := f.Settings(); err == nil {
		if !settings.Update.IsEnabled() {
			close(ch)
			return ch
		}
		interval = time.Duration(settings.Update.GetIntervalHours()) * time.Hour
	}

	go func() {
		defer close(ch)

		var statePath string
		if dir, err := config.StateDir(); err == nil {
			statePath = filepath.Join(dir, updateStateFile)
		}

		result, err := update.CheckForUpdate(ctx, statePath, Version, RepoSlug, interval)
		if err != nil {
			logger.Debug().Err(err).Msg("update check failed")
			return
		}
		if result != nil {
			ch <- result
		}
	}()

	return ch
}

// isHookInvocation reports whether this run is the machine-facing hook path.
func isHookInvocation(args []string) bool {
	return len(args) > 1 && args[1] == "hook"
}

// printUpdateNotification tells an interactive user about a newer release.
// Main hands it the background check's result, nil when there is nothing
// to say; the HTTP timeout bounds how long the channel receive can take.
func printUpdateNotification(ios *iostreams.IOStreams, result *update.CheckResult) {
	if result == nil {
		return
	}
	if !ios.IsStderrTTY() {
		return
	}

	cs := ios.ColorScheme()
	fmt.Fprintf(ios.ErrOut, "\n%s A new release of recur is available: %s → %s\n",
		cs.WarningIcon(), result.CurrentVersion, result.LatestVersion)
	fmt.Fprintln(ios.ErrOut, "To upgrade, run: go install github.com/schmitthub/recur/cmd/recur@latest")
	fmt.Fprintf(ios.ErrOut, "%s\n", result.ReleaseURL)
}
