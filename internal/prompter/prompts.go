// Package prompter provides interactive confirmation prompts.
// Prompts write to stderr so stdout stays reserved for data output, and
// non-interactive sessions resolve to the default answer without blocking.
package prompter

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/schmitthub/recur/internal/iostreams"
)

// Prompter provides interactive prompting functionality.
// It uses IOStreams for testable I/O.
type Prompter struct {
	ios *iostreams.IOStreams
}

// NewPrompter creates a new Prompter with the given IOStreams.
func NewPrompter(ios *iostreams.IOStreams) *Prompter {
	return &Prompter{ios: ios}
}

// Confirm prompts the user for a yes/no confirmation.
// In non-interactive mode, returns the default without prompting.
func (p *Prompter) Confirm(message string, defaultYes bool) (bool, error) {
	if !p.ios.IsInteractive() {
		return defaultYes, nil
	}

	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}

	fmt.Fprintf(p.ios.ErrOut, "%s %s ", message, hint)

	reader := bufio.NewReader(p.ios.In)
	response, err := reader.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			fmt.Fprintln(p.ios.ErrOut) // Newline for cleaner output
			return defaultYes, nil
		}
		return false, fmt.Errorf("failed to read input: %w", err)
	}

	response = strings.TrimSpace(strings.ToLower(response))
	if response == "" {
		return defaultYes, nil
	}

	return response == "y" || response == "yes", nil
}
