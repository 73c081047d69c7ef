package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed for field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// ValidationResult contains the result of a configuration validation
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []string
}

// IsValid returns true if there are no errors
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are warnings
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// ErrorMessages returns all error messages as a slice
func (r *ValidationResult) ErrorMessages() []string {
	messages := make([]string, len(r.Errors))
	for i, err := range r.Errors {
		messages[i] = err.Error()
	}
	return messages
}

// CombinedError returns all errors as a single error
func (r *ValidationResult) CombinedError() error {
	if len(r.Errors) == 0 {
		return nil
	}

	messages := r.ErrorMessages()
	return fmt.Errorf("configuration validation failed:\n%s", strings.Join(messages, "\n"))
}

// Validate checks the loaded configuration for values that would break the
// tools at runtime. Model names must be non-empty; the "provider:model" form
// is optional (a bare name routes to the default provider).
func (c *Config) Validate() *ValidationResult {
	result := &ValidationResult{}

	models := []struct {
		field string
		value string
	}{
		{"agent_model", c.AgentModel},
		{"editing_model", c.EditingModel},
		{"conversion_model", c.ConversionModel},
		{"deps_model", c.DepsModel},
	}
	for _, m := range models {
		if strings.TrimSpace(m.value) == "" {
			result.Errors = append(result.Errors, *NewValidationError(m.field, "cannot be empty"))
		}
	}

	if c.Temperature < 0 || c.Temperature > 2 {
		result.Errors = append(result.Errors, *NewValidationError("temperature", "must be between 0 and 2"))
	}
	if c.TopP < 0 || c.TopP > 1 {
		result.Errors = append(result.Errors, *NewValidationError("top_p", "must be between 0 and 1"))
	}
	if c.MaxAnalysisChars < 1 {
		result.Errors = append(result.Errors, *NewValidationError("max_analysis_chars", "cannot be less than 1"))
	}
	if c.DepsMaxFiles < 1 {
		result.Errors = append(result.Errors, *NewValidationError("deps_max_files", "cannot be less than 1"))
	}
	if c.DepsMaxFileBytes < 1 {
		result.Errors = append(result.Errors, *NewValidationError("deps_max_file_bytes", "cannot be less than 1"))
	}
	if c.RequestTimeoutSecs < 1 {
		result.Errors = append(result.Errors, *NewValidationError("request_timeout_secs", "cannot be less than 1"))
	}

	if c.Temperature > 1.5 {
		result.Warnings = append(result.Warnings, "High temperature (>1.5) may lead to unpredictable outputs")
	}
	if c.DepsMaxFiles > 200 {
		result.Warnings = append(result.Warnings, "Collecting more than 200 files may exceed the model's context window")
	}

	return result
}
