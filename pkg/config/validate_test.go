package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := Default()
	cfg.LogFilePath = filepath.Join(t.TempDir(), "app.log")
	return cfg
}

func TestValidateDefaults(t *testing.T) {
	cfg := validConfig(t)
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidateProblems(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		mutate   func(*Config)
		wantPath string
	}{
		{"port zero", func(c *Config) { c.Port = 0 }, "port"},
		{"port too high", func(c *Config) { c.Port = 70000 }, "port"},
		{"negative shutdown", func(c *Config) { c.ShutdownTimeout = -time.Second }, "shutdown_timeout"},
		{"empty log path", func(c *Config) { c.LogFilePath = "" }, "log_file_path"},
		{"relative log path", func(c *Config) { c.LogFilePath = "logs/app.log" }, "log_file_path"},
		{"log path is dir", func(c *Config) { c.LogFilePath = dir }, "log_file_path"},
		{"zero poll", func(c *Config) { c.PollInterval = 0 }, "poll_interval"},
		{"zero heartbeat", func(c *Config) { c.HeartbeatInterval = 0 }, "heartbeat_interval"},
		{"heartbeat below poll", func(c *Config) { c.HeartbeatInterval = 100 * time.Millisecond }, "heartbeat_interval"},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"missing output dir", func(c *Config) { c.Logging.OutputFile = filepath.Join(dir, "nope", "x.log") }, "logging.output_file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)
			errs := cfg.Validate()
			if len(errs) != 1 {
				t.Fatalf("expected exactly one error, got %v", errs)
			}
			ve, ok := errs[0].(ValidationError)
			if !ok {
				t.Fatalf("expected ValidationError, got %T", errs[0])
			}
			if ve.Path != tt.wantPath {
				t.Fatalf("path = %q, want %q", ve.Path, tt.wantPath)
			}
		})
	}
}

func TestValidateAggregates(t *testing.T) {
	cfg := validConfig(t)
	cfg.Port = -1
	cfg.Logging.Level = "loud"
	cfg.PollInterval = 0

	errs := cfg.Validate()
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", len(errs), errs)
	}
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{Path: "port", Message: "bad", Hint: "set LOG_SERVER_PORT"}
	if got := e.Error(); got != "port: bad; set LOG_SERVER_PORT" {
		t.Fatalf("got %q", got)
	}
	e.Hint = ""
	if got := e.Error(); got != "port: bad" {
		t.Fatalf("got %q", got)
	}
}

func TestOutputFileInExistingDir(t *testing.T) {
	cfg := validConfig(t)
	cfg.Logging.OutputFile = filepath.Join(t.TempDir(), "service.log")
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if _, err := os.Stat(cfg.Logging.OutputFile); !os.IsNotExist(err) {
		t.Fatal("validation must not create the output file")
	}
	if !strings.HasSuffix(cfg.Logging.OutputFile, "service.log") {
		t.Fatal("output file changed")
	}
}
