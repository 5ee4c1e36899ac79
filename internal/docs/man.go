package docs

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cpuguy83/go-md2man/v2/md2man"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// GenManHeader is the metadata for the .TH line of a man page. Zero fields
// fall back to sensible defaults: section 1, the command path as title, and
// an empty date.
type GenManHeader struct {
	Title   string
	Section string
	Date    *time.Time
	Source  string
	Manual  string
}

// GenManTreeOptions configures GenManTreeFromOpts.
type GenManTreeOptions struct {
	Path             string
	CommandSeparator string
	Header           *GenManHeader
}

// GenManTree writes a section-1 man page for cmd and every visible
// subcommand into dir, one file per command.
func GenManTree(cmd *cobra.Command, dir string) error {
	return GenManTreeFromOpts(cmd, GenManTreeOptions{
		Path:             dir,
		CommandSeparator: "-",
		Header: &GenManHeader{
			Section: "1",
			Source:  "Recur",
			Manual:  "Recur Manual",
		},
	})
}

// GenManTreeFromOpts is GenManTree with the section, separator, and header
// under caller control.
func GenManTreeFromOpts(cmd *cobra.Command, opts GenManTreeOptions) error {
	section := "1"
	if opts.Header != nil && opts.Header.Section != "" {
		section = opts.Header.Section
	}
	separator := opts.CommandSeparator
	if separator == "" {
		separator = "-"
	}
	return writeManTree(cmd, opts.Path, separator, section, opts.Header)
}

// writeManTree descends into the visible subcommands before rendering cmd
// itself, so the cobra help command (injected lazily during rendering) never
// gets a page of its own.
func writeManTree(cmd *cobra.Command, dir, separator, section string, header *GenManHeader) error {
	for _, c := range cmd.Commands() {
		if c.Hidden {
			continue
		}
		if err := writeManTree(c, dir, separator, section, header); err != nil {
			return err
		}
	}

	path := filepath.Join(dir, manFilename(cmd, separator, section))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer f.Close()

	return GenMan(cmd, header, f)
}

// GenMan renders a man page for a single command to w. The markdown source
// goes through md2man, whose titleblock extension turns the preamble line
// into the .TH macro.
func GenMan(cmd *cobra.Command, header *GenManHeader, w io.Writer) error {
	if header == nil {
		header = &GenManHeader{Section: "1"}
	}
	if header.Section == "" {
		header.Section = "1"
	}

	_, err := w.Write(md2man.Render(renderManSource(cmd, header)))
	return err
}

// renderManSource produces the md2man input: a titleblock preamble followed
// by the classic man sections in their conventional order.
func renderManSource(cmd *cobra.Command, header *GenManHeader) []byte {
	cmd.InitDefaultHelpCmd()
	cmd.InitDefaultHelpFlag()

	buf := new(bytes.Buffer)
	name := cmd.CommandPath()

	writeTitleBlock(buf, header, name)

	short := cmd.Short
	if short == "" {
		short = "manual page for " + name
	}
	fmt.Fprintf(buf, "# NAME\n%s \\- %s\n\n", name, short)

	fmt.Fprintf(buf, "# SYNOPSIS\n**%s**", name)
	if cmd.NonInheritedFlags().HasAvailableFlags() {
		buf.WriteString(" [OPTIONS]")
	}
	if cmd.HasAvailableSubCommands() {
		buf.WriteString(" COMMAND")
	}
	buf.WriteString("\n\n")

	if cmd.Long != "" {
		fmt.Fprintf(buf, "# DESCRIPTION\n%s\n\n", cmd.Long)
	}

	if subcommands := getNonHiddenCommands(cmd); len(subcommands) > 0 {
		buf.WriteString("# COMMANDS\n")
		for _, c := range subcommands {
			fmt.Fprintf(buf, "**%s**\n: %s\n\n", c.Name(), c.Short)
		}
	}

	writeOptionsSection(buf, cmd)

	if cmd.Example != "" {
		fmt.Fprintf(buf, "# EXAMPLES\n```\n%s\n```\n\n", cmd.Example)
	}

	writeSeeAlsoSection(buf, cmd, header.Section)

	return buf.Bytes()
}

// writeTitleBlock emits the pandoc-style preamble md2man translates to .TH:
// % TITLE(section) date | manual
func writeTitleBlock(buf *bytes.Buffer, header *GenManHeader, name string) {
	title := header.Title
	if title == "" {
		title = strings.ToUpper(strings.ReplaceAll(name, " ", "-"))
	}

	date := ""
	if header.Date != nil {
		date = header.Date.Format("Jan 2006")
	}

	fmt.Fprintf(buf, "%% %s(%s) %s | %s\n\n", title, header.Section, date, header.Manual)
}

// writeOptionsSection emits OPTIONS with the command's own flags first and
// the inherited ones after, both as definition lists.
func writeOptionsSection(buf *bytes.Buffer, cmd *cobra.Command) {
	local := cmd.NonInheritedFlags()
	inherited := cmd.InheritedFlags()
	if !local.HasAvailableFlags() && !inherited.HasAvailableFlags() {
		return
	}

	buf.WriteString("# OPTIONS\n")
	if local.HasAvailableFlags() {
		writeFlagDefinitions(buf, local)
	}
	if inherited.HasAvailableFlags() {
		writeFlagDefinitions(buf, inherited)
	}
	buf.WriteString("\n")
}

// writeFlagDefinitions renders each visible flag as a definition-list entry,
// in name order regardless of the flag set's own ordering mode.
func writeFlagDefinitions(buf *bytes.Buffer, flags *pflag.FlagSet) {
	var list []*pflag.Flag
	flags.VisitAll(func(f *pflag.Flag) {
		if !f.Hidden {
			list = append(list, f)
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })

	for _, f := range list {
		fmt.Fprintf(buf, "%s\n: %s", flagSpec(f), f.Usage)
		if d := f.DefValue; d != "" && d != "false" && d != "0" && d != "[]" {
			fmt.Fprintf(buf, " (default: %s)", d)
		}
		buf.WriteString("\n\n")
	}
}

// flagSpec renders the bold flag names, with a type hint for flags that
// take a value.
func flagSpec(f *pflag.Flag) string {
	spec := fmt.Sprintf("**--%s**", f.Name)
	if f.Shorthand != "" {
		spec = fmt.Sprintf("**-%s**, %s", f.Shorthand, spec)
	}
	if t := f.Value.Type(); t != "bool" {
		spec += fmt.Sprintf(" <%s>", t)
	}
	return spec
}

// writeSeeAlsoSection lists the parent, the siblings, and the subcommands
// as man page references, comma separated.
func writeSeeAlsoSection(buf *bytes.Buffer, cmd *cobra.Command, section string) {
	var refs []string
	ref := func(c *cobra.Command) string {
		return fmt.Sprintf("**%s(%s)**", strings.ReplaceAll(c.CommandPath(), " ", "-"), section)
	}

	if cmd.HasParent() {
		parent := cmd.Parent()
		refs = append(refs, ref(parent))
		for _, s := range getNonHiddenCommands(parent) {
			if s.Name() != cmd.Name() {
				refs = append(refs, ref(s))
			}
		}
	}
	for _, c := range getNonHiddenCommands(cmd) {
		refs = append(refs, ref(c))
	}

	fmt.Fprintf(buf, "# SEE ALSO\n%s\n", strings.Join(refs, ", "))
}

// manFilename is the output file name for a command's page: the command
// path with spaces replaced by separator, suffixed with the section.
func manFilename(cmd *cobra.Command, separator, section string) string {
	return strings.ReplaceAll(cmd.CommandPath(), " ", separator) + "." + section
}
