package factory

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/schmitthub/recur/internal/config"
)

func TestNew(t *testing.T) {
	f := New("1.0.0", "abc123")

	if f.Version != "1.0.0" {
		t.Errorf("expected version '1.0.0', got '%s'", f.Version)
	}
	if f.Commit != "abc123" {
		t.Errorf("expected commit 'abc123', got '%s'", f.Commit)
	}
	if f.IOStreams == nil {
		t.Error("expected IOStreams to be non-nil")
	}
	if f.WorkDir == "" {
		t.Error("expected WorkDir to be resolved at construction")
	}
}

func TestFactory_ConfigLoader_Caching(t *testing.T) {
	f := New("1.0.0", "abc123")
	f.WorkDir = t.TempDir()

	loader1 := f.ConfigLoader()
	loader2 := f.ConfigLoader()

	// Should return same instance (lazy initialization)
	if loader1 != loader2 {
		t.Error("ConfigLoader should return the same instance on subsequent calls")
	}
}

func TestFactory_Config_NotInWorkspace(t *testing.T) {
	f := New("1.0.0", "abc123")
	f.WorkDir = t.TempDir()

	_, _, err := f.Config()
	if !errors.Is(err, config.ErrNotInProject) {
		t.Errorf("Config() error = %v, want ErrNotInProject", err)
	}
}

func TestFactory_Config_LoadsWorkspaceFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := "version: \"1\"\nhooks:\n  stop:\n    max_continuations: 3\n"
	if err := os.WriteFile(filepath.Join(tmpDir, config.ProjectConfigFileName), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	f := New("1.0.0", "abc123")
	f.WorkDir = tmpDir

	cfg, path, err := f.Config()
	if err != nil {
		t.Fatalf("Config() error: %v", err)
	}
	if cfg.Hooks.Stop.MaxContinuations != 3 {
		t.Errorf("max_continuations = %d, want 3", cfg.Hooks.Stop.MaxContinuations)
	}
	if filepath.Base(path) != config.ProjectConfigFileName {
		t.Errorf("config path = %q, want a %s path", path, config.ProjectConfigFileName)
	}

	// Second call returns the cached value
	cfg2, _, err := f.Config()
	if err != nil {
		t.Fatalf("Config() second call error: %v", err)
	}
	if cfg != cfg2 {
		t.Error("Config() should return the same pointer on subsequent calls")
	}
}

func TestFactory_ResetConfig(t *testing.T) {
	f := New("1.0.0", "abc123")
	f.WorkDir = t.TempDir()

	// First call fails (no recur.yaml anywhere under TempDir)
	_, _, err1 := f.Config()
	if err1 == nil {
		t.Skip("Config unexpectedly succeeded, skipping reset test")
	}

	f.ResetConfig()

	// After reset the error is re-evaluated rather than served from cache
	_, _, err2 := f.Config()
	if !errors.Is(err2, config.ErrNotInProject) {
		t.Errorf("Config() after reset = %v, want ErrNotInProject", err2)
	}
}

func TestFactory_Settings(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv(config.RecurHomeEnv, tmpDir)

	f := New("1.0.0", "abc123")

	settings, err := f.Settings()
	if err != nil {
		t.Fatalf("Settings() error: %v", err)
	}
	if settings == nil {
		t.Fatal("Settings() returned nil, want defaults when no settings file exists")
	}

	settings2, err := f.Settings()
	if err != nil {
		t.Fatalf("Settings() second call error: %v", err)
	}
	if settings != settings2 {
		t.Error("Settings() should return the same pointer on subsequent calls")
	}
}

func TestFactory_InvalidateSettingsCache(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv(config.RecurHomeEnv, tmpDir)

	f := New("1.0.0", "abc123")

	s1, err := f.Settings()
	if err != nil {
		t.Fatalf("Settings() error: %v", err)
	}

	f.InvalidateSettingsCache()

	s2, err := f.Settings()
	if err != nil {
		t.Fatalf("Settings() after invalidate error: %v", err)
	}
	if s1 == s2 {
		t.Error("Settings() should re-load after InvalidateSettingsCache")
	}
}

func TestFactory_Prompter(t *testing.T) {
	f := New("1.0.0", "abc123")

	if f.Prompter == nil {
		t.Fatal("Prompter should be non-nil")
	}

	p := f.Prompter()
	if p == nil {
		t.Fatal("Prompter() returned nil")
	}
}
