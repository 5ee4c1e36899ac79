package factory

import (
	"os"
	"sync"

	"github.com/schmitthub/recur/internal/cmdutil"
	"github.com/schmitthub/recur/internal/config"
	"github.com/schmitthub/recur/internal/iostreams"
	"github.com/schmitthub/recur/internal/logger"
	"github.com/schmitthub/recur/internal/prompter"
)

// New creates a fully-wired Factory with lazy-initialized dependency closures.
// Called exactly once at the CLI entry point (internal/recur/cmd.go).
// Tests should NOT import this package; construct &cmdutil.Factory{} directly.
func New(version, commit string) *cmdutil.Factory {
	ios := iostreams.NewIOStreams()
	ios.Logger = &logger.Log

	// Auto-detect color support
	if ios.IsOutputTTY() {
		ios.DetectTerminalTheme()
		// Respect NO_COLOR environment variable
		if os.Getenv("NO_COLOR") != "" {
			ios.SetColorEnabled(false)
		}
	} else {
		ios.SetColorEnabled(false)
	}

	// Respect CI environment (disable prompts)
	if os.Getenv("CI") != "" {
		ios.SetNeverPrompt(true)
	}

	f := &cmdutil.Factory{
		Version:   version,
		Commit:    commit,
		IOStreams: ios,
	}

	if wd, err := os.Getwd(); err == nil {
		f.WorkDir = wd
	} else {
		f.WorkDir = "."
	}

	// --- Lazy dependency closures ---

	// Workspace config (recur.yaml discovered upward from WorkDir)
	var (
		configOnce   sync.Once
		configLoader *config.Loader
		configData   *config.Config
		configPath   string
		configErr    error
	)
	f.ConfigLoader = func() *config.Loader {
		configOnce.Do(func() {
			configLoader = config.NewLoader(f.WorkDir)
		})
		return configLoader
	}
	f.Config = func() (*config.Config, string, error) {
		if configData != nil || configErr != nil {
			return configData, configPath, configErr
		}
		configData, configPath, configErr = f.ConfigLoader().Load()
		return configData, configPath, configErr
	}
	f.ResetConfig = func() {
		configData = nil
		configPath = ""
		configErr = nil
	}

	// Settings (~/.recur/settings.yaml)
	var (
		settingsOnce   sync.Once
		settingsLoader *config.SettingsLoader
		settingsData   *config.Settings
		settingsErr    error
	)
	f.SettingsLoader = func() (*config.SettingsLoader, error) {
		settingsOnce.Do(func() {
			settingsLoader, settingsErr = config.NewSettingsLoader()
		})
		return settingsLoader, settingsErr
	}
	f.Settings = func() (*config.Settings, error) {
		if settingsData != nil || settingsErr != nil {
			return settingsData, settingsErr
		}
		loader, err := f.SettingsLoader()
		if err != nil {
			settingsErr = err
			return nil, err
		}
		settingsData, settingsErr = loader.Load()
		return settingsData, settingsErr
	}
	f.InvalidateSettingsCache = func() {
		settingsData = nil
		settingsErr = nil
	}

	// Prompter
	f.Prompter = func() *prompter.Prompter {
		return prompter.NewPrompter(f.IOStreams)
	}

	return f
}
