package config

import (
	"fmt"
	"strings"

	"github.com/schmitthub/recur/internal/hook"
	"github.com/schmitthub/recur/internal/logger"
)

// Validator validates a Config for correctness
type Validator struct {
	errors   []error
	warnings []string
}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{
		errors:   []error{},
		warnings: []string{},
	}
}

// Validate checks the configuration for errors and returns all found issues
func (v *Validator) Validate(cfg *Config) error {
	v.errors = []error{}
	v.warnings = []string{}

	v.validateVersion(cfg)
	v.validateStop(cfg)

	if len(v.errors) > 0 {
		return &MultiValidationError{Errors: v.errors}
	}
	return nil
}

func (v *Validator) addError(field, message string, value interface{}) {
	v.errors = append(v.errors, &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	})
}

func (v *Validator) addWarning(field, message string) {
	warning := fmt.Sprintf("%s: %s", field, message)
	v.warnings = append(v.warnings, warning)
	// Log to file
	logger.Warn().
		Str("field", field).
		Msg(message)
}

// Warnings returns the list of validation warnings
func (v *Validator) Warnings() []string {
	return v.warnings
}

func (v *Validator) validateVersion(cfg *Config) {
	if cfg.Version == "" {
		v.addError("version", "is required", nil)
		return
	}
	if cfg.Version != "1" {
		v.addError("version", "must be '1' (only supported version)", cfg.Version)
	}
}

func (v *Validator) validateStop(cfg *Config) {
	s := cfg.Hooks.Stop

	if s.MaxContinuations < 0 {
		v.addError("hooks.stop.max_continuations", "must be non-negative", s.MaxContinuations)
	}
	if s.MaxContinuations > hook.MaxAutoContinuations {
		v.addWarning("hooks.stop.max_continuations",
			fmt.Sprintf("exceeds the Cursor ceiling of %d and will be clamped", hook.MaxAutoContinuations))
	}

	if s.ContinueMessage != "" && strings.TrimSpace(s.ContinueMessage) == "" {
		v.addError("hooks.stop.continue_message", "must not contain only whitespace", "")
	}
	if s.LimitMessage != "" && strings.TrimSpace(s.LimitMessage) == "" {
		v.addError("hooks.stop.limit_message", "must not contain only whitespace", "")
	}
}

// MultiValidationError holds multiple validation errors
type MultiValidationError struct {
	Errors []error
}

func (e *MultiValidationError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("found %d configuration errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidationErrors returns the individual errors
func (e *MultiValidationError) ValidationErrors() []error {
	return e.Errors
}
