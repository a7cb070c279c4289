package config

import (
	"fmt"
	"strings"

	"openbangla/internal/logging"
)

// MaxPageSize is the largest page IBus renders.
const MaxPageSize = 16

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// ValidateConfig checks every section and returns all problems at once.
func ValidateConfig(c *Config) error {
	var errs ValidationErrors

	if c.Version < 1 || c.Version > Version {
		errs = append(errs, ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (current: %d)", c.Version, Version),
		})
	}

	errs = append(errs, validateIBus(&c.IBus)...)

	if c.Lookup.PageSize < 1 || c.Lookup.PageSize > MaxPageSize {
		errs = append(errs, *RangeError("lookup.page_size", 1, MaxPageSize))
	}

	if c.Settings.Path == "" {
		errs = append(errs, *RequiredFieldError("settings.path"))
	}
	if c.History.Enabled && c.History.Path == "" {
		errs = append(errs, ValidationError{
			Field:   "history.path",
			Message: "path is required when history is enabled",
		})
	}

	errs = append(errs, validateLogging(&c.Logging)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateIBus(i *IBusConfig) ValidationErrors {
	var errs ValidationErrors

	if i.BusName == "" {
		errs = append(errs, *RequiredFieldError("ibus.bus_name"))
	} else if !strings.Contains(i.BusName, ".") || strings.HasPrefix(i.BusName, ".") || strings.HasSuffix(i.BusName, ".") {
		errs = append(errs, ValidationError{
			Field:   "ibus.bus_name",
			Message: fmt.Sprintf("invalid D-Bus name: %s", i.BusName),
		})
	}
	if i.EngineName == "" {
		errs = append(errs, *RequiredFieldError("ibus.engine_name"))
	}
	return errs
}

func validateLogging(l *LoggingConfig) ValidationErrors {
	var errs ValidationErrors

	if _, err := logging.ParseLevel(l.Level); err != nil {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid log level: %s (valid: debug, info, warn, error)", l.Level),
		})
	}
	if _, err := logging.ParseFormat(l.Format); err != nil {
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("invalid log format: %s (valid: text, json)", l.Format),
		})
	}

	switch l.Output {
	case "stdout", "stderr":
	case "file", "both":
		if l.FilePath == "" {
			errs = append(errs, ValidationError{
				Field:   "logging.file_path",
				Message: fmt.Sprintf("file path is required when output is '%s'", l.Output),
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.output",
			Message: fmt.Sprintf("invalid log output: %q (valid: stdout, stderr, file, both)", l.Output),
		})
	}

	if l.MaxSizeMB < 0 {
		errs = append(errs, ValidationError{
			Field:   "logging.max_size_mb",
			Message: "max size cannot be negative",
		})
	}
	if l.MaxBackups < 0 {
		errs = append(errs, ValidationError{
			Field:   "logging.max_backups",
			Message: "max backups cannot be negative",
		})
	}
	return errs
}

// RequiredFieldError creates a validation error for a required field.
func RequiredFieldError(field string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: "required field is missing",
	}
}

// RangeError creates a validation error for an out-of-range value.
func RangeError(field string, min, max interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("value must be between %v and %v", min, max),
	}
}
