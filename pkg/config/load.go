package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	lserrors "github.com/DeBrosOfficial/logstream/pkg/errors"
)

// Environment variables read by ApplyEnv.
const (
	EnvLogFilePath       = "LOG_FILE_PATH"
	EnvHost              = "LOG_SERVER_HOST"
	EnvPort              = "LOG_SERVER_PORT"
	EnvDebug             = "LOG_SERVER_DEBUG"
	EnvPollInterval      = "LOG_SERVER_POLL_INTERVAL"
	EnvHeartbeatInterval = "LOG_SERVER_HEARTBEAT_INTERVAL"
	EnvMetrics           = "LOG_SERVER_METRICS"
	EnvLogLevel          = "LOG_SERVER_LOG_LEVEL"
	EnvLogFormat         = "LOG_SERVER_LOG_FORMAT"
	EnvConfigFile        = "LOG_SERVER_CONFIG"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Load builds the configuration. Priority: overrides > env > file > defaults.
// path may be empty. overrides may be nil; it is how command-line flags are
// applied. The result is normalized and validated.
func Load(path string, lookup LookupFunc, overrides func(*Config)) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if lookup == nil {
		lookup = os.LookupEnv
	}
	if err := ApplyEnv(cfg, lookup); err != nil {
		return nil, err
	}

	if overrides != nil {
		overrides(cfg)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, lserrors.NewConfigError(errs)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file %s: %w", path, err)
	}
	defer f.Close()

	if err := DecodeStrict(f, cfg); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays environment variables onto cfg. Unset or blank variables
// leave the current value alone; malformed numbers and durations are errors.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvLogFilePath); ok {
		cfg.LogFilePath = v
	}
	if v, ok := get(EnvHost); ok {
		cfg.Host = v
	}
	if v, ok := get(EnvPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: invalid port %q: %w", EnvPort, v, err)
		}
		cfg.Port = port
	}
	if v, ok := get(EnvDebug); ok {
		cfg.Debug = parseBool(v, cfg.Debug)
	}
	if v, ok := get(EnvMetrics); ok {
		cfg.MetricsEnabled = parseBool(v, cfg.MetricsEnabled)
	}
	if v, ok := get(EnvPollInterval); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPollInterval, err)
		}
		cfg.PollInterval = d
	}
	if v, ok := get(EnvHeartbeatInterval); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvHeartbeatInterval, err)
		}
		cfg.HeartbeatInterval = d
	}
	if v, ok := get(EnvLogLevel); ok {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v, ok := get(EnvLogFormat); ok {
		cfg.Logging.Format = strings.ToLower(v)
	}
	return nil
}

func parseBool(v string, def bool) bool {
	switch strings.ToLower(v) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return def
	}
}

func (c *Config) normalize() error {
	if c.LogFilePath != "" {
		abs, err := filepath.Abs(c.LogFilePath)
		if err != nil {
			return fmt.Errorf("resolve log file path %q: %w", c.LogFilePath, err)
		}
		c.LogFilePath = abs
	}
	if c.Debug {
		c.Logging.Level = "debug"
	}
	return nil
}
