// Package docs provides documentation generation for Cobra commands
// as Markdown pages, MDX-safe website pages, and man pages.
package docs

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// angleBracketRe matches bare <word> patterns in prose that MDX parsers
// interpret as JSX tags (e.g. <dir>, <payload>).
var angleBracketRe = regexp.MustCompile(`<(\w[\w-]*)>`)

// proseEscape rewrites prose sections of a generated page. Fenced code
// blocks and flag usage output never pass through it.
type proseEscape func(string) string

// plainProse leaves prose untouched for plain markdown output.
func plainProse(s string) string { return s }

// EscapeMDXProse wraps bare <word> angle-bracket placeholders in backticks
// so MDX parsers treat them as inline code rather than JSX tags.
func EscapeMDXProse(s string) string {
	return angleBracketRe.ReplaceAllString(s, "`<$1>`")
}

// GenMarkdownTree generates markdown documentation for a command and all its subcommands.
// Files are created in the specified directory using the command path as filename.
func GenMarkdownTree(cmd *cobra.Command, dir string) error {
	return GenMarkdownTreeCustom(cmd, dir, defaultFilePrepender, defaultLinkHandler)
}

// GenMarkdownTreeCustom generates markdown documentation with custom file prepender and link handler.
// The filePrepender is called with each filename to prepend content (e.g., front matter).
// The linkHandler transforms command names to links (e.g., adding .md extension).
func GenMarkdownTreeCustom(cmd *cobra.Command, dir string, filePrepender, linkHandler func(string) string) error {
	return writeMarkdownTree(cmd, dir, filePrepender, linkHandler, plainProse)
}

// GenMarkdown generates markdown documentation for a single command.
func GenMarkdown(cmd *cobra.Command, w io.Writer) error {
	return GenMarkdownCustom(cmd, w, defaultLinkHandler)
}

// GenMarkdownCustom generates markdown documentation with a custom link handler.
func GenMarkdownCustom(cmd *cobra.Command, w io.Writer, linkHandler func(string) string) error {
	return writeMarkdownPage(cmd, w, linkHandler, plainProse)
}

// GenMarkdownTreeWebsite generates MDX-safe markdown documentation for a
// command tree. It wraps bare <word> placeholders in backticks within prose
// sections while leaving fenced code blocks untouched.
func GenMarkdownTreeWebsite(cmd *cobra.Command, dir string, filePrepender, linkHandler func(string) string) error {
	return writeMarkdownTree(cmd, dir, filePrepender, linkHandler, EscapeMDXProse)
}

// GenMarkdownWebsite generates MDX-safe markdown for a single command.
func GenMarkdownWebsite(cmd *cobra.Command, w io.Writer, linkHandler func(string) string) error {
	return writeMarkdownPage(cmd, w, linkHandler, EscapeMDXProse)
}

// writeMarkdownTree walks the command tree depth first and writes one page
// per visible command into dir.
func writeMarkdownTree(cmd *cobra.Command, dir string, filePrepender, linkHandler func(string) string, escape proseEscape) error {
	for _, c := range cmd.Commands() {
		if c.Hidden {
			continue
		}
		if err := writeMarkdownTree(c, dir, filePrepender, linkHandler, escape); err != nil {
			return err
		}
	}

	filename := filepath.Join(dir, cmdManualPath(cmd))
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", filename, err)
	}
	defer f.Close()

	if prepend := filePrepender(filename); prepend != "" {
		if _, err := io.WriteString(f, prepend); err != nil {
			return fmt.Errorf("failed to write prepender to %s: %w", filename, err)
		}
	}

	return writeMarkdownPage(cmd, f, linkHandler, escape)
}

// writeMarkdownPage renders the documentation page for a single command.
// The Short and Long texts, and the Short lines of linked commands, pass
// through escape; synopsis, examples, and flag usages render inside code
// fences as-is.
func writeMarkdownPage(cmd *cobra.Command, w io.Writer, linkHandler func(string) string, escape proseEscape) error {
	cmd.InitDefaultHelpCmd()
	cmd.InitDefaultHelpFlag()

	buf := new(bytes.Buffer)
	fmt.Fprintf(buf, "## %s\n\n", cmd.CommandPath())

	if cmd.Short != "" {
		fmt.Fprintf(buf, "%s\n\n", escape(cmd.Short))
	}

	if cmd.Runnable() || hasRunnableSubCommands(cmd) {
		buf.WriteString("### Synopsis\n\n")
		if cmd.Long != "" {
			fmt.Fprintf(buf, "%s\n\n", escape(cmd.Long))
		}
		if cmd.Runnable() {
			fmt.Fprintf(buf, "```\n%s\n```\n\n", cmd.UseLine())
		}
	}

	if len(cmd.Aliases) > 0 {
		names := []string{"`" + cmd.Name() + "`"}
		for _, a := range cmd.Aliases {
			names = append(names, "`"+a+"`")
		}
		fmt.Fprintf(buf, "### Aliases\n\n%s\n\n", strings.Join(names, ", "))
	}

	if cmd.Example != "" {
		fmt.Fprintf(buf, "### Examples\n\n```\n%s\n```\n\n", cmd.Example)
	}

	if subcommands := getNonHiddenCommands(cmd); len(subcommands) > 0 {
		buf.WriteString("### Subcommands\n\n")
		for _, c := range subcommands {
			writeCommandLink(buf, c, linkHandler, escape)
		}
		buf.WriteString("\n")
	}

	writeFlagBlock(buf, "### Options", cmd.NonInheritedFlags())
	writeFlagBlock(buf, "### Options inherited from parent commands", cmd.InheritedFlags())

	if cmd.HasParent() {
		buf.WriteString("### See also\n\n")
		writeCommandLink(buf, cmd.Parent(), linkHandler, escape)
	}

	_, err := buf.WriteTo(w)
	return err
}

// writeCommandLink writes a bulleted markdown link to another command's page.
func writeCommandLink(buf *bytes.Buffer, cmd *cobra.Command, linkHandler func(string) string, escape proseEscape) {
	path := cmd.CommandPath()
	fmt.Fprintf(buf, "* [%s](%s) - %s\n", path, linkHandler(path), escape(cmd.Short))
}

// writeFlagBlock writes a fenced flag usage section, or nothing when the
// flag set has no visible flags.
func writeFlagBlock(buf *bytes.Buffer, heading string, flags *pflag.FlagSet) {
	if !flags.HasAvailableFlags() {
		return
	}
	fmt.Fprintf(buf, "%s\n\n```\n%s```\n\n", heading, flags.FlagUsages())
}

// cmdManualPath returns the filename for a command's manual page.
func cmdManualPath(cmd *cobra.Command) string {
	return strings.ReplaceAll(cmd.CommandPath(), " ", "_") + ".md"
}

// defaultFilePrepender prepends nothing.
func defaultFilePrepender(filename string) string {
	return ""
}

// defaultLinkHandler transforms a command path to a markdown link.
func defaultLinkHandler(cmdPath string) string {
	return strings.ReplaceAll(cmdPath, " ", "_") + ".md"
}

// hasRunnableSubCommands returns true if any non-hidden subcommand is runnable.
func hasRunnableSubCommands(cmd *cobra.Command) bool {
	for _, c := range cmd.Commands() {
		if !c.Hidden && (c.Runnable() || hasRunnableSubCommands(c)) {
			return true
		}
	}
	return false
}

// getNonHiddenCommands returns all non-hidden subcommands sorted by name.
func getNonHiddenCommands(cmd *cobra.Command) []*cobra.Command {
	var commands []*cobra.Command
	for _, c := range cmd.Commands() {
		if !c.Hidden && c.Name() != "help" {
			commands = append(commands, c)
		}
	}
	sort.Slice(commands, func(i, j int) bool {
		return commands[i].Name() < commands[j].Name()
	})
	return commands
}
