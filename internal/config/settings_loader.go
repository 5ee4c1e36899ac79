package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// SettingsFileName is the name of the user settings file.
	SettingsFileName = "settings.yaml"
)

// SettingsLoader handles loading and saving of user settings.
type SettingsLoader struct {
	path string
}

// NewSettingsLoader creates a new SettingsLoader.
// It resolves the settings path from RECUR_HOME or the default location.
func NewSettingsLoader() (*SettingsLoader, error) {
	home, err := RecurHome()
	if err != nil {
		return nil, fmt.Errorf("failed to determine recur home: %w", err)
	}
	return &SettingsLoader{
		path: filepath.Join(home, SettingsFileName),
	}, nil
}

// NewSettingsLoaderAt creates a SettingsLoader for an explicit settings path.
func NewSettingsLoaderAt(path string) *SettingsLoader {
	return &SettingsLoader{path: path}
}

// Path returns the full path to the settings file.
func (l *SettingsLoader) Path() string {
	return l.path
}

// Exists checks if the settings file exists.
// Returns false for "file not found", returns false for other errors (permission denied, etc.).
func (l *SettingsLoader) Exists() bool {
	_, err := os.Stat(l.path)
	if err == nil {
		return true
	}
	// Both "file not found" and other errors (permission denied, etc.) return false.
	// Other errors are unusual but we treat as "not exists" since we can't read it anyway.
	return false
}

// Load reads and parses the settings file.
// If the file doesn't exist, returns default settings (not an error).
func (l *SettingsLoader) Load() (*Settings, error) {
	if !l.Exists() {
		return DefaultSettings(), nil
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}

	return &settings, nil
}

// Save writes the settings to the file.
// Creates the parent directory if it doesn't exist.
func (l *SettingsLoader) Save(s *Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	return WithFileLock(l.path, func() error {
		return AtomicWriteFile(l.path, data, 0o644)
	})
}

// EnsureExists creates the settings file with the commented default template
// if it doesn't exist. Returns true if the file was created, false if it
// already existed.
func (l *SettingsLoader) EnsureExists() (bool, error) {
	if l.Exists() {
		return false, nil
	}

	if err := WriteIfMissingLocked(l.path, []byte(DefaultSettingsYAML)); err != nil {
		return false, fmt.Errorf("failed to write settings file: %w", err)
	}

	return true, nil
}
