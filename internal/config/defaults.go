package config

import "github.com/schmitthub/recur/internal/hook"

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Version: "1",
		Hooks: HooksConfig{
			Stop: StopConfig{
				MaxContinuations: hook.MaxAutoContinuations,
			},
		},
	}
}

// DefaultSettings returns empty settings; every getter falls back to its
// built-in default, so the zero value is fully usable.
func DefaultSettings() *Settings {
	return &Settings{}
}

// DefaultConfigYAML returns the default workspace configuration as YAML for scaffolding
const DefaultConfigYAML = `# Recur Configuration
# Documentation: https://github.com/schmitthub/recur

version: "1"

hooks:
  stop:
    # Automatic continuations per conversation. Cursor caps this at 5;
    # larger values are clamped.
    max_continuations: 5
    # Uncomment to replace the built-in follow-up instruction sent while
    # under the limit.
    # continue_message: "Continue with the next item in TODO.md."
    # Uncomment to replace the built-in wind-down instruction sent once
    # the limit is reached.
    # limit_message: "Summarize what you finished and stop."
`

// DefaultSettingsYAML returns the default user settings as YAML for scaffolding
const DefaultSettingsYAML = `# Recur Settings
# Global settings for all workspaces. Per-workspace behavior lives in
# recur.yaml next to your project.

# logging:
#   # Write diagnostics to ~/.recur/logs/recur.log (default: true)
#   file_enabled: true
#   # Rotation thresholds
#   max_size_mb: 50
#   max_age_days: 7
#   max_backups: 3
#   # Gzip rotated backups (default: true)
#   compress: true

# update:
#   # Check GitHub for new releases after interactive commands (default: true)
#   enabled: true
#   interval_hours: 24
`
