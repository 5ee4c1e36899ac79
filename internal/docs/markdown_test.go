package docs

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenMarkdown(t *testing.T) {
	rootCmd := newTestRootCmd()
	hookCmd, _, _ := rootCmd.Find([]string{"hook"})
	require.NotNil(t, hookCmd)

	buf := new(bytes.Buffer)
	err := GenMarkdown(hookCmd, buf)
	require.NoError(t, err)

	output := buf.String()

	// Check title
	checkStringContains(t, output, "## recur hook")

	// Check short description
	checkStringContains(t, output, "Manage the Cursor stop hook")

	// Check long description in synopsis
	checkStringContains(t, output, "Install, remove, and run the stop hook")

	// Check aliases are documented
	checkStringContains(t, output, "### Aliases")
	checkStringContains(t, output, "`hook`")
	checkStringContains(t, output, "`hooks`")

	// Check subcommands are listed
	checkStringContains(t, output, "### Subcommands")
	checkStringContains(t, output, "recur hook stop")
	checkStringContains(t, output, "recur hook install")
	checkStringContains(t, output, "recur hook status")

	// Check see also points to parent
	checkStringContains(t, output, "### See also")
	checkStringContains(t, output, "recur")
}

func TestGenMarkdown_WithFlags(t *testing.T) {
	rootCmd := newTestRootCmd()
	logsCmd, _, _ := rootCmd.Find([]string{"logs"})
	require.NotNil(t, logsCmd)

	buf := new(bytes.Buffer)
	err := GenMarkdown(logsCmd, buf)
	require.NoError(t, err)

	output := buf.String()

	// Check options section exists
	checkStringContains(t, output, "### Options")

	// Check flags are documented
	checkStringContains(t, output, "--follow")
	checkStringContains(t, output, "-f")
	checkStringContains(t, output, "Stream new entries")
	checkStringContains(t, output, "--tail")
	checkStringContains(t, output, "-n")

	// Check inherited options from parent
	checkStringContains(t, output, "### Options inherited from parent commands")
	checkStringContains(t, output, "--debug")
}

func TestGenMarkdown_WithExamples(t *testing.T) {
	rootCmd := newTestRootCmd()
	installCmd, _, _ := rootCmd.Find([]string{"hook", "install"})
	require.NotNil(t, installCmd)

	buf := new(bytes.Buffer)
	err := GenMarkdown(installCmd, buf)
	require.NoError(t, err)

	output := buf.String()

	// Check examples section
	checkStringContains(t, output, "### Examples")
	checkStringContains(t, output, "recur hook install")
	checkStringContains(t, output, "recur hook install ~/code/myproject")
}

func TestGenMarkdown_HiddenCommandsOmitted(t *testing.T) {
	rootCmd := newTestRootCmd()

	buf := new(bytes.Buffer)
	err := GenMarkdown(rootCmd, buf)
	require.NoError(t, err)

	output := buf.String()

	// Hidden command should not appear
	checkStringOmits(t, output, "hidden")
}

func TestGenMarkdownTree(t *testing.T) {
	rootCmd := newTestRootCmd()
	dir := t.TempDir()

	err := GenMarkdownTree(rootCmd, dir)
	require.NoError(t, err)

	// Verify root file exists
	_, err = os.Stat(filepath.Join(dir, "recur.md"))
	require.NoError(t, err)

	// Verify hook command file exists
	_, err = os.Stat(filepath.Join(dir, "recur_hook.md"))
	require.NoError(t, err)

	// Verify hook subcommand files exist
	_, err = os.Stat(filepath.Join(dir, "recur_hook_stop.md"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "recur_hook_install.md"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "recur_hook_status.md"))
	require.NoError(t, err)

	// Verify logs command file exists
	_, err = os.Stat(filepath.Join(dir, "recur_logs.md"))
	require.NoError(t, err)

	// Verify hidden command was NOT generated
	_, err = os.Stat(filepath.Join(dir, "recur_hidden.md"))
	assert.True(t, os.IsNotExist(err), "hidden command should not generate docs")
}

func TestGenMarkdownTreeCustom(t *testing.T) {
	rootCmd := newTestRootCmd()
	dir := t.TempDir()

	// Custom prepender that adds YAML front matter
	prepender := func(filename string) string {
		return "---\nlayout: docs\n---\n\n"
	}

	// Custom link handler that uses absolute paths
	linkHandler := func(cmdPath string) string {
		return "/docs/" + cmdManualPath(&cobra.Command{Use: cmdPath})
	}

	err := GenMarkdownTreeCustom(rootCmd, dir, prepender, linkHandler)
	require.NoError(t, err)

	// Read generated file and verify prepender was applied
	content, err := os.ReadFile(filepath.Join(dir, "recur.md"))
	require.NoError(t, err)

	checkStringContains(t, string(content), "---\nlayout: docs\n---")
}

// --- Website (MDX-safe) generation tests ---

func TestEscapeMDXProse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "no angle brackets",
			input: "Simple text without placeholders",
			want:  "Simple text without placeholders",
		},
		{
			name:  "single placeholder",
			input: "Registers the hook in <dir>",
			want:  "Registers the hook in `<dir>`",
		},
		{
			name:  "multiple placeholders",
			input: "Resolves <dir> and reads <payload> from stdin",
			want:  "Resolves `<dir>` and reads `<payload>` from stdin",
		},
		{
			name:  "hyphenated placeholder",
			input: "Use <my-value> as the argument",
			want:  "Use `<my-value>` as the argument",
		},
		{
			name:  "html-like tag is escaped",
			input: "Output is <div> formatted",
			want:  "Output is `<div>` formatted",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "path with angle brackets",
			input: "~/.recur/logs/<file>",
			want:  "~/.recur/logs/`<file>`",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EscapeMDXProse(tt.input)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenMarkdownWebsite(t *testing.T) {
	// Create a command with angle brackets in descriptions
	root := &cobra.Command{
		Use:   "recur",
		Short: "Keep Cursor agents working between turns",
	}
	installCmd := &cobra.Command{
		Use:   "install [dir]",
		Short: "Register the stop hook in <dir>",
		Long:  "Writes a hook entry into <dir>/.cursor/hooks.json, creating the file if needed.",
		RunE:  func(cmd *cobra.Command, args []string) error { return nil },
		Example: `  recur hook install
  recur hook install ~/code/myproject`,
	}
	root.AddCommand(installCmd)

	buf := new(bytes.Buffer)
	err := GenMarkdownWebsite(installCmd, buf, defaultLinkHandler)
	require.NoError(t, err)

	output := buf.String()

	// Short description should have escaped angle brackets
	checkStringContains(t, output, "Register the stop hook in `<dir>`")

	// Long description should have escaped angle brackets
	checkStringContains(t, output, "`<dir>`/.cursor/hooks.json")

	// Examples in code block should NOT be escaped (they're inside ```)
	checkStringContains(t, output, "recur hook install ~/code/myproject")
}

func TestGenMarkdownTreeWebsite(t *testing.T) {
	root := &cobra.Command{
		Use:   "recur",
		Short: "Keep Cursor agents working between turns",
	}
	installCmd := &cobra.Command{
		Use:   "install [dir]",
		Short: "Register the stop hook in <dir>",
		Long:  "Writes a hook entry into <dir>/.cursor/hooks.json.",
		RunE:  func(cmd *cobra.Command, args []string) error { return nil },
	}
	root.AddCommand(installCmd)

	dir := t.TempDir()
	prepender := func(filename string) string {
		return "---\ntitle: test\n---\n\n"
	}

	err := GenMarkdownTreeWebsite(root, dir, prepender, defaultLinkHandler)
	require.NoError(t, err)

	// Read the install command file and verify escaping
	content, err := os.ReadFile(filepath.Join(dir, "recur_install.md"))
	require.NoError(t, err)

	contentStr := string(content)
	checkStringContains(t, contentStr, "---\ntitle: test\n---")
	checkStringContains(t, contentStr, "`<dir>`")
}

func TestCmdManualPath(t *testing.T) {
	t.Run("root command", func(t *testing.T) {
		cmd := &cobra.Command{Use: "recur"}
		assert.Equal(t, "recur.md", cmdManualPath(cmd))
	})

	t.Run("subcommand", func(t *testing.T) {
		root := &cobra.Command{Use: "recur"}
		child := &cobra.Command{Use: "hook"}
		root.AddCommand(child)
		assert.Equal(t, "recur_hook.md", cmdManualPath(child))
	})

	t.Run("nested subcommand", func(t *testing.T) {
		root := &cobra.Command{Use: "recur"}
		hook := &cobra.Command{Use: "hook"}
		stop := &cobra.Command{Use: "stop"}
		root.AddCommand(hook)
		hook.AddCommand(stop)
		assert.Equal(t, "recur_hook_stop.md", cmdManualPath(stop))
	})
}
