package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "storage.debounce_ms")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidBackends returns the list of valid storage backends.
// Must match storage.ValidBackends.
func ValidBackends() []string {
	return []string{"file", "sqlite", "memory"}
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidThemes returns the list of valid TUI themes
func ValidThemes() []string {
	return []string{"default", "mono"}
}

// ValidPageSizes returns the list of valid PDF page sizes
func ValidPageSizes() []string {
	return []string{"A4", "Letter"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateStorage()...)
	errors = append(errors, c.validateMatrix()...)
	errors = append(errors, c.validateCategories()...)
	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateTUI()...)
	errors = append(errors, c.validateExport()...)

	return errors
}

// validateStorage validates the StorageConfig
func (c *Config) validateStorage() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidBackends(), c.Storage.Backend) {
		errors = append(errors, ValidationError{
			Field:   "storage.backend",
			Value:   c.Storage.Backend,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidBackends(), ", ")),
		})
	}

	if strings.ContainsRune(c.Storage.Dir, '\x00') {
		errors = append(errors, ValidationError{
			Field:   "storage.dir",
			Value:   c.Storage.Dir,
			Message: "contains invalid null character",
		})
	}

	if c.Storage.DebounceMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "storage.debounce_ms",
			Value:   c.Storage.DebounceMs,
			Message: "must be non-negative",
		})
	}

	// Reasonable upper bound; pending writes are lost if the process is killed
	const maxDebounceMs = 60000
	if c.Storage.DebounceMs > maxDebounceMs {
		errors = append(errors, ValidationError{
			Field:   "storage.debounce_ms",
			Value:   c.Storage.DebounceMs,
			Message: fmt.Sprintf("exceeds maximum of %d", maxDebounceMs),
		})
	}

	if c.Storage.WriteTimeoutMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "storage.write_timeout_ms",
			Value:   c.Storage.WriteTimeoutMs,
			Message: "must be non-negative",
		})
	}

	return errors
}

// validateMatrix validates the MatrixConfig
func (c *Config) validateMatrix() []ValidationError {
	var errors []ValidationError

	if c.Matrix.UrgentWindowHours <= 0 {
		errors = append(errors, ValidationError{
			Field:   "matrix.urgent_window_hours",
			Value:   c.Matrix.UrgentWindowHours,
			Message: "must be positive",
		})
	}

	const maxWindowHours = 24 * 365
	if c.Matrix.UrgentWindowHours > maxWindowHours {
		errors = append(errors, ValidationError{
			Field:   "matrix.urgent_window_hours",
			Value:   c.Matrix.UrgentWindowHours,
			Message: fmt.Sprintf("exceeds maximum of %d", maxWindowHours),
		})
	}

	if c.Matrix.GraceMinutes < 0 {
		errors = append(errors, ValidationError{
			Field:   "matrix.grace_minutes",
			Value:   c.Matrix.GraceMinutes,
			Message: "must be non-negative",
		})
	}

	return errors
}

// validateCategories validates the CategoriesConfig
func (c *Config) validateCategories() []ValidationError {
	var errors []ValidationError

	seen := make(map[string]bool)
	for i, name := range c.Categories.Defaults {
		field := fmt.Sprintf("categories.defaults[%d]", i)
		if strings.TrimSpace(name) == "" {
			errors = append(errors, ValidationError{
				Field:   field,
				Value:   name,
				Message: "cannot be empty",
			})
			continue
		}
		if seen[name] {
			errors = append(errors, ValidationError{
				Field:   field,
				Value:   name,
				Message: "duplicate category",
			})
		}
		seen[name] = true
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}

// validateTUI validates the TUIConfig
func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	if c.TUI.Theme != "" && !slices.Contains(ValidThemes(), c.TUI.Theme) {
		errors = append(errors, ValidationError{
			Field:   "tui.theme",
			Value:   c.TUI.Theme,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidThemes(), ", ")),
		})
	}

	if c.TUI.RefreshSeconds < 0 {
		errors = append(errors, ValidationError{
			Field:   "tui.refresh_seconds",
			Value:   c.TUI.RefreshSeconds,
			Message: "must be non-negative",
		})
	}

	return errors
}

// validateExport validates the ExportConfig
func (c *Config) validateExport() []ValidationError {
	var errors []ValidationError

	if c.Export.PageSize != "" && !slices.Contains(ValidPageSizes(), c.Export.PageSize) {
		errors = append(errors, ValidationError{
			Field:   "export.page_size",
			Value:   c.Export.PageSize,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidPageSizes(), ", ")),
		})
	}

	return errors
}
