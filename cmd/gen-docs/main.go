// gen-docs is a standalone binary for generating CLI documentation.
// It provides documentation generation for the recur CLI in multiple formats
// (Markdown, man pages, MDX website pages) without the full recur CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schmitthub/recur/internal/cmd/root"
	"github.com/schmitthub/recur/internal/cmdutil"
	"github.com/schmitthub/recur/internal/docs"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("gen-docs", pflag.ContinueOnError)

	var (
		flagDocPath  string
		flagMarkdown bool
		flagManPage  bool
		flagWebsite  bool
	)

	flags.StringVar(&flagDocPath, "doc-path", "", "Output directory for generated docs (required)")
	flags.BoolVar(&flagMarkdown, "markdown", false, "Generate Markdown documentation")
	flags.BoolVar(&flagManPage, "man-page", false, "Generate man pages")
	flags.BoolVar(&flagWebsite, "website", false, "Generate MDX-safe pages with front matter")

	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n\n%s", filepath.Base(args[0]), flags.FlagUsages())
	}

	if err := flags.Parse(args[1:]); err != nil {
		return err
	}

	// Validation
	if flagDocPath == "" {
		return fmt.Errorf("--doc-path is required")
	}

	if !flagMarkdown && !flagManPage && !flagWebsite {
		return fmt.Errorf("at least one format must be specified (--markdown, --man-page, --website)")
	}

	// Create output directory
	if err := os.MkdirAll(flagDocPath, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// Build the command tree
	f := &cmdutil.Factory{}
	rootCmd, err := root.NewCmdRoot(f, "", "")
	if err != nil {
		return fmt.Errorf("building command tree: %w", err)
	}

	// Generate each requested format
	if flagMarkdown {
		dir := filepath.Join(flagDocPath, "markdown")
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create markdown directory: %w", err)
		}

		if err := docs.GenMarkdownTree(rootCmd, dir); err != nil {
			return fmt.Errorf("failed to generate Markdown documentation: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Generated Markdown documentation in %s\n", dir)
	}

	if flagManPage {
		dir := filepath.Join(flagDocPath, "man")
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create man directory: %w", err)
		}

		if err := docs.GenManTree(rootCmd, dir); err != nil {
			return fmt.Errorf("failed to generate man pages: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Generated man pages in %s\n", dir)
	}

	if flagWebsite {
		dir := filepath.Join(flagDocPath, "website")
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create website directory: %w", err)
		}

		if err := docs.GenMarkdownTreeWebsite(rootCmd, dir, websiteFilePrepender, websiteLinkHandler); err != nil {
			return fmt.Errorf("failed to generate website documentation: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Generated website documentation in %s\n", dir)
	}

	return nil
}

// websiteFilePrepender returns MDX front matter for a given filename.
func websiteFilePrepender(filename string) string {
	// Extract command name from filename (e.g., "recur_hook_stop.md" -> "recur hook stop")
	base := filepath.Base(filename)
	name := strings.TrimSuffix(base, ".md")
	cmdPath := strings.ReplaceAll(name, "_", " ")

	// Create permalink path (e.g., "/cli/recur/hook/stop/")
	permalink := "/cli/" + strings.ReplaceAll(name, "_", "/") + "/"

	return fmt.Sprintf(`---
title: %s
permalink: %s
---

`, cmdPath, permalink)
}

// websiteLinkHandler creates relative markdown links between command pages.
func websiteLinkHandler(cmdPath string) string {
	// Transform command path to relative link (e.g., "recur hook" -> "recur_hook.md")
	return strings.ReplaceAll(cmdPath, " ", "_") + ".md"
}
