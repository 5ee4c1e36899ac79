// Package cmdutil provides shared helpers for the command layer: the
// Factory dependency container, error types understood by Main(), and
// small output utilities.
package cmdutil

import (
	"github.com/schmitthub/recur/internal/config"
	"github.com/schmitthub/recur/internal/iostreams"
	"github.com/schmitthub/recur/internal/prompter"
)

// Factory provides shared dependencies for CLI commands.
// It is a dependency injection container: the struct defines what
// dependencies exist (the contract), while internal/cmd/factory
// wires the real implementations.
//
// Closure fields are set by the factory constructor and use lazy
// initialization internally. Commands extract only the fields they
// need into per-command Options structs.
type Factory struct {
	// Working directory resolved at startup (hook payloads and flags
	// may override it per command)
	WorkDir string
	Debug   bool

	// Version info (set at build time via ldflags)
	Version string
	Commit  string

	// IO streams for input/output (for testability)
	IOStreams *iostreams.IOStreams

	// Dependency providers (closures wired by factory constructor)
	ConfigLoader func() *config.Loader
	Config       func() (*config.Config, string, error)
	ResetConfig  func()

	SettingsLoader          func() (*config.SettingsLoader, error)
	Settings                func() (*config.Settings, error)
	InvalidateSettingsCache func()

	Prompter func() *prompter.Prompter
}
