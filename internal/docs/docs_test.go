package docs

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// Test command tree for all format tests
// This simulates a recur-like command hierarchy

func newTestRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "recur",
		Short: "Keep Cursor agents working between turns",
		Long:  "Recur answers Cursor's stop hook so agent conversations continue unattended.",
	}

	// Add hook command with subcommands
	hookCmd := newTestHookCmd()
	rootCmd.AddCommand(hookCmd)

	// Add logs command
	logsCmd := newTestLogsCmd()
	rootCmd.AddCommand(logsCmd)

	// Add hidden command (should be skipped in docs)
	hiddenCmd := &cobra.Command{
		Use:    "hidden",
		Short:  "This command is hidden",
		Hidden: true,
	}
	rootCmd.AddCommand(hiddenCmd)

	// Add global flags
	rootCmd.PersistentFlags().BoolP("debug", "D", false, "Enable debug logging")

	return rootCmd
}

func newTestHookCmd() *cobra.Command {
	hookCmd := &cobra.Command{
		Use:     "hook",
		Aliases: []string{"hooks"},
		Short:   "Manage the Cursor stop hook",
		Long:    "Install, remove, and run the stop hook that keeps agent conversations going.",
	}

	// hook stop
	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Answer a stop event from Cursor",
		Long:  "Read a stop event payload from stdin and write the continuation decision to stdout.",
		Example: `  # Invoked by Cursor via .cursor/hooks.json
  recur hook stop

  # Dry-run against a saved payload
  recur hook stop < payload.json`,
		Run: func(cmd *cobra.Command, args []string) {},
	}
	stopCmd.Flags().String("config", "", "Path to an explicit recur.yaml")
	stopCmd.Flags().Bool("no-config", false, "Ignore workspace configuration")
	hookCmd.AddCommand(stopCmd)

	// hook install
	installCmd := &cobra.Command{
		Use:   "install [dir]",
		Short: "Register the stop hook in .cursor/hooks.json",
		Long:  "Register the stop hook in the workspace's .cursor/hooks.json, creating the file if needed.",
		Example: `  # Install into the current workspace
  recur hook install

  # Install into another workspace
  recur hook install ~/code/myproject`,
		Run: func(cmd *cobra.Command, args []string) {},
	}
	installCmd.Flags().BoolP("force", "f", false, "Rewrite the entry even if already registered")
	hookCmd.AddCommand(installCmd)

	// hook status
	statusCmd := &cobra.Command{
		Use:   "status [dir]",
		Short: "Show hook registration and effective policy",
		Long:  "Show whether the stop hook is registered and which policy applies.",
		Run:   func(cmd *cobra.Command, args []string) {},
	}
	statusCmd.Flags().Bool("json", false, "Output as JSON")
	hookCmd.AddCommand(statusCmd)

	return hookCmd
}

func newTestLogsCmd() *cobra.Command {
	logsCmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recur log output",
		Long:  "Print entries from the recur log file.",
		Run:   func(cmd *cobra.Command, args []string) {},
	}
	logsCmd.Flags().BoolP("follow", "f", false, "Stream new entries as they are written")
	logsCmd.Flags().IntP("tail", "n", 20, "Number of trailing lines to show")
	return logsCmd
}

// checkStringContains verifies that got contains expected substring
func checkStringContains(t *testing.T, got, expected string) {
	t.Helper()
	if !strings.Contains(got, expected) {
		t.Errorf("expected output to contain %q, got:\n%s", expected, got)
	}
}

// checkStringOmits verifies that got does not contain unexpected substring
func checkStringOmits(t *testing.T, got, unexpected string) {
	t.Helper()
	if strings.Contains(got, unexpected) {
		t.Errorf("expected output to not contain %q, got:\n%s", unexpected, got)
	}
}
