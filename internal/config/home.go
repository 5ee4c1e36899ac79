package config

import (
	"os"
	"path/filepath"
)

const (
	// RecurHomeEnv is the environment variable for the recur home directory
	RecurHomeEnv = "RECUR_HOME"
	// DefaultRecurDir is the default directory name under user home
	DefaultRecurDir = ".recur"
	// LogsSubdir is the subdirectory for hook and command log files
	LogsSubdir = "logs"
	// StateSubdir is the subdirectory for cached state (update checks)
	StateSubdir = "state"
)

// RecurHome returns the recur home directory.
// It checks RECUR_HOME environment variable first, then defaults to ~/.recur
func RecurHome() (string, error) {
	if home := os.Getenv(RecurHomeEnv); home != "" {
		return home, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultRecurDir), nil
}

// LogsDir returns the log file directory (~/.recur/logs)
func LogsDir() (string, error) {
	home, err := RecurHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, LogsSubdir), nil
}

// StateDir returns the cached state directory (~/.recur/state)
func StateDir() (string, error) {
	home, err := RecurHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, StateSubdir), nil
}

// EnsureDir creates a directory if it doesn't exist
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
