package config

// Settings represents user-level configuration stored in ~/.recur/settings.yaml.
// Settings are global and apply across all workspaces; per-workspace behavior
// lives in recur.yaml next to the project.
type Settings struct {
	// Logging configures file-based logging.
	// File logging is ENABLED by default - users can disable via settings.yaml.
	Logging LoggingConfig `yaml:"logging,omitempty" mapstructure:"logging"`

	// Update configures the background release check.
	Update UpdateConfig `yaml:"update,omitempty" mapstructure:"update"`
}

// LoggingConfig configures file-based logging.
// File logging is ENABLED by default - users can disable via settings.yaml.
type LoggingConfig struct {
	// FileEnabled enables logging to file (default: true)
	// Set to false in ~/.recur/settings.yaml to disable
	FileEnabled *bool `yaml:"file_enabled,omitempty" mapstructure:"file_enabled"`
	// MaxSizeMB is the max size in MB before rotation (default: 50)
	MaxSizeMB int `yaml:"max_size_mb,omitempty" mapstructure:"max_size_mb"`
	// MaxAgeDays is max days to retain old logs (default: 7)
	MaxAgeDays int `yaml:"max_age_days,omitempty" mapstructure:"max_age_days"`
	// MaxBackups is max number of old log files to keep (default: 3)
	MaxBackups int `yaml:"max_backups,omitempty" mapstructure:"max_backups"`
	// Compress enables gzip compression of rotated log files (default: true)
	// Active recur.log stays plain text; only rotated backups get gzipped.
	Compress *bool `yaml:"compress,omitempty" mapstructure:"compress"`
}

// UpdateConfig configures the once-a-day release check that runs after
// interactive commands. The stop hook never checks for updates.
type UpdateConfig struct {
	// Enabled enables the release check (default: true)
	Enabled *bool `yaml:"enabled,omitempty" mapstructure:"enabled"`
	// IntervalHours is the minimum time between checks (default: 24)
	IntervalHours int `yaml:"interval_hours,omitempty" mapstructure:"interval_hours"`
}

// IsFileEnabled returns whether file logging is enabled.
// Defaults to true if not explicitly set.
func (c *LoggingConfig) IsFileEnabled() bool {
	if c.FileEnabled == nil {
		return true
	}
	return *c.FileEnabled
}

// IsCompressEnabled returns whether rotated log compression is enabled.
// Defaults to true if not explicitly set.
func (c *LoggingConfig) IsCompressEnabled() bool {
	if c.Compress == nil {
		return true
	}
	return *c.Compress
}

// GetMaxSizeMB returns the max size in MB, defaulting to 50 if not set.
func (c *LoggingConfig) GetMaxSizeMB() int {
	if c.MaxSizeMB <= 0 {
		return 50
	}
	return c.MaxSizeMB
}

// GetMaxAgeDays returns the max age in days, defaulting to 7 if not set.
func (c *LoggingConfig) GetMaxAgeDays() int {
	if c.MaxAgeDays <= 0 {
		return 7
	}
	return c.MaxAgeDays
}

// GetMaxBackups returns the max backups, defaulting to 3 if not set.
func (c *LoggingConfig) GetMaxBackups() int {
	if c.MaxBackups <= 0 {
		return 3
	}
	return c.MaxBackups
}

// IsEnabled returns whether the release check is enabled.
// Defaults to true if not explicitly set.
func (c *UpdateConfig) IsEnabled() bool {
	if c.Enabled == nil {
		return true
	}
	return *c.Enabled
}

// GetIntervalHours returns the check interval, defaulting to 24 if not set.
func (c *UpdateConfig) GetIntervalHours() int {
	if c.IntervalHours <= 0 {
		return 24
	}
	return c.IntervalHours
}
