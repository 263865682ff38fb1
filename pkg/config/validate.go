package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// ValidationError represents a single validation error with context.
type ValidationError struct {
	Path    string // e.g., "port" or "logging.level"
	Message string // e.g., "must be between 1 and 65535"
	Hint    string // e.g., "set LOG_SERVER_PORT"
}

func (e ValidationError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s; %s", e.Path, e.Message, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Validate checks the whole config and returns every problem found, so the
// caller can report them at once.
func (c *Config) Validate() []error {
	var errs []error
	errs = append(errs, c.validateServer()...)
	errs = append(errs, c.validateTail()...)
	errs = append(errs, c.validateLogging()...)
	return errs
}

func (c *Config) validateServer() []error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, ValidationError{
			Path:    "port",
			Message: fmt.Sprintf("must be between 1 and 65535, got %d", c.Port),
			Hint:    "set " + EnvPort,
		})
	}
	if c.ShutdownTimeout < 0 {
		errs = append(errs, ValidationError{
			Path:    "shutdown_timeout",
			Message: "must not be negative",
		})
	}
	return errs
}

func (c *Config) validateTail() []error {
	var errs []error

	if c.LogFilePath == "" {
		errs = append(errs, ValidationError{
			Path:    "log_file_path",
			Message: "must not be empty",
			Hint:    "set " + EnvLogFilePath,
		})
	} else if !filepath.IsAbs(c.LogFilePath) {
		errs = append(errs, ValidationError{
			Path:    "log_file_path",
			Message: fmt.Sprintf("must be absolute, got %q", c.LogFilePath),
		})
	} else if info, err := os.Stat(c.LogFilePath); err == nil && info.IsDir() {
		errs = append(errs, ValidationError{
			Path:    "log_file_path",
			Message: fmt.Sprintf("%s is a directory", c.LogFilePath),
		})
	}

	if c.PollInterval <= 0 {
		errs = append(errs, ValidationError{
			Path:    "poll_interval",
			Message: "must be positive",
			Hint:    "e.g. 500ms",
		})
	}
	if c.HeartbeatInterval <= 0 {
		errs = append(errs, ValidationError{
			Path:    "heartbeat_interval",
			Message: "must be positive",
			Hint:    "e.g. 10s",
		})
	} else if c.PollInterval > 0 && c.HeartbeatInterval < c.PollInterval {
		errs = append(errs, ValidationError{
			Path:    "heartbeat_interval",
			Message: fmt.Sprintf("must be at least poll_interval (%s)", c.PollInterval),
		})
	}
	return errs
}

func (c *Config) validateLogging() []error {
	var errs []error
	lc := c.Logging

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[lc.Level] {
		errs = append(errs, ValidationError{
			Path:    "logging.level",
			Message: fmt.Sprintf("invalid value %q", lc.Level),
			Hint:    "allowed values: debug, info, warn, error",
		})
	}

	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[lc.Format] {
		errs = append(errs, ValidationError{
			Path:    "logging.format",
			Message: fmt.Sprintf("invalid value %q", lc.Format),
			Hint:    "allowed values: json, console",
		})
	}

	if lc.OutputFile != "" {
		dir := filepath.Dir(lc.OutputFile)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			errs = append(errs, ValidationError{
				Path:    "logging.output_file",
				Message: fmt.Sprintf("parent directory %s does not exist", dir),
			})
		}
	}
	return errs
}
