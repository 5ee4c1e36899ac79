package config

import "github.com/schmitthub/recur/internal/hook"

// Config represents the root configuration structure for recur.yaml
type Config struct {
	Version string      `yaml:"version" mapstructure:"version"`
	Hooks   HooksConfig `yaml:"hooks,omitempty" mapstructure:"hooks"`
}

// HooksConfig groups per-event hook behavior. Only the stop event is
// configurable today; other Cursor events pass through untouched.
type HooksConfig struct {
	Stop StopConfig `yaml:"stop,omitempty" mapstructure:"stop"`
}

// StopConfig tunes the continuation policy applied when a conversation stops.
type StopConfig struct {
	// MaxContinuations caps automatic continuations per conversation.
	// Cursor enforces a hard ceiling of 5; larger values are clamped.
	MaxContinuations int `yaml:"max_continuations,omitempty" mapstructure:"max_continuations"`
	// ContinueMessage replaces the built-in follow-up instruction.
	ContinueMessage string `yaml:"continue_message,omitempty" mapstructure:"continue_message"`
	// LimitMessage replaces the built-in wind-down instruction sent once the
	// continuation cap is reached.
	LimitMessage string `yaml:"limit_message,omitempty" mapstructure:"limit_message"`
}

// StopPolicy resolves the effective stop decision policy for this config.
// Zero-value fields fall back to the built-in defaults inside the policy.
func (c *Config) StopPolicy() hook.Policy {
	if c == nil {
		return hook.DefaultPolicy()
	}
	s := c.Hooks.Stop
	return hook.Policy{
		MaxContinuations: s.MaxContinuations,
		ContinueMessage:  s.ContinueMessage,
		LimitMessage:     s.LimitMessage,
	}
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Message
}
