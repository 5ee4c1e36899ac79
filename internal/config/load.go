package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// ProjectConfigFileName is the per-workspace configuration file recur
	// looks for, starting in the working directory and walking up.
	ProjectConfigFileName = "recur.yaml"

	// EnvPrefix is the prefix for RECUR_* environment variable overrides.
	EnvPrefix = "RECUR"
)

// ErrNotInProject is returned when no recur.yaml exists in the working
// directory or any parent. The stop hook treats this as "use defaults",
// not as a failure.
var ErrNotInProject = errors.New("no recur.yaml found in this directory or any parent")

// Loader handles discovery and parsing of recur.yaml workspace configuration
type Loader struct {
	workDir string
}

// NewLoader creates a new configuration loader for the given working directory
func NewLoader(workDir string) *Loader {
	return &Loader{workDir: workDir}
}

// Find walks up from the working directory looking for recur.yaml and
// returns its path. Returns an error wrapping ErrNotInProject when the walk
// reaches the filesystem root without a hit.
func (l *Loader) Find() (string, error) {
	dir, err := filepath.Abs(l.workDir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", l.workDir, err)
	}

	for {
		candidate := filepath.Join(dir, ProjectConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: %s", ErrNotInProject, l.workDir)
		}
		dir = parent
	}
}

// Load discovers and parses the nearest recur.yaml, returning the config and
// the path it was read from.
func (l *Loader) Load() (*Config, string, error) {
	path, err := l.Find()
	if err != nil {
		return nil, "", err
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// LoadFile reads and parses the recur.yaml at an explicit path.
// RECUR_* environment variables override file values.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ConfigNotFoundError{Path: path}
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := checkDuplicateTopLevelKeys(string(data)); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if err := validateYAMLStrict(string(data), &Config{}); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	v := newViperConfig()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return &cfg, nil
}

func newViperConfig() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	bindEnvKeysFromSchema(v)

	defaults := DefaultConfig()
	v.SetDefault("version", defaults.Version)
	v.SetDefault("hooks.stop.max_continuations", defaults.Hooks.Stop.MaxContinuations)

	return v
}

// bindEnvKeysFromSchema walks the Config struct via reflection to enumerate
// all leaf mapstructure tag paths, then binds each to its corresponding
// RECUR_* env var. This replaces a manually maintained env key list,
// eliminating the entire class of "added field but forgot to update env key
// list" bugs.
func bindEnvKeysFromSchema(v *viper.Viper) {
	replacer := strings.NewReplacer(".", "_")

	for _, flatKey := range collectLeafPaths(reflect.TypeOf(Config{}), "") {
		envVar := EnvPrefix + "_" + strings.ToUpper(replacer.Replace(flatKey))
		if err := v.BindEnv(flatKey, envVar); err != nil {
			panic(fmt.Sprintf("config: BindEnv(%q, %q) failed: %v", flatKey, envVar, err))
		}
	}
}

// collectLeafPaths walks a struct type via reflection and returns all dotted
// paths for leaf fields (non-struct, non-embedded). Struct fields are recursed
// into with their mapstructure tag as the path prefix.
func collectLeafPaths(t reflect.Type, prefix string) []string {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var paths []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" || tag == "-" {
			continue
		}

		fullPath := tag
		if prefix != "" {
			fullPath = prefix + "." + tag
		}

		ft := field.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}

		if ft.Kind() == reflect.Struct {
			// Recurse into struct fields, but skip time.Duration (it's a leaf).
			if ft == reflect.TypeOf(time.Duration(0)) {
				paths = append(paths, fullPath)
			} else {
				paths = append(paths, collectLeafPaths(ft, fullPath)...)
			}
		} else {
			paths = append(paths, fullPath)
		}
	}
	return paths
}

// checkDuplicateTopLevelKeys parses YAML as a yaml.Node and checks for
// duplicate top-level mapping keys. yaml.Unmarshal silently uses the last
// value for duplicate keys, which can mask configuration errors.
func checkDuplicateTopLevelKeys(content string) error {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(content), &root); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil
	}
	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil
	}
	seen := make(map[string]bool)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		keyNode := mapping.Content[i]
		if keyNode.Kind != yaml.ScalarNode {
			continue
		}
		if seen[keyNode.Value] {
			return fmt.Errorf("duplicate key %q (line %d)", keyNode.Value, keyNode.Line)
		}
		seen[keyNode.Value] = true
	}
	return nil
}

// validateYAMLStrict validates YAML content against a Go struct schema using
// yaml.v3 strict decoding. Catches type mismatches (map where list expected)
// and unknown fields, all derived from struct tags.
func validateYAMLStrict(yamlContent string, schema any) error {
	dec := yaml.NewDecoder(strings.NewReader(yamlContent))
	dec.KnownFields(true)
	if err := dec.Decode(schema); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ConfigNotFoundError is returned when the config file doesn't exist
type ConfigNotFoundError struct {
	Path string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("configuration file not found: %s", e.Path)
}

// IsConfigNotFound returns true if the error is a ConfigNotFoundError
func IsConfigNotFound(err error) bool {
	var notFound *ConfigNotFoundError
	return errors.As(err, &notFound)
}
