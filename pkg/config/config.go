package config

import (
	"net"
	"strconv"
	"time"
)

// Config is the service configuration. It is built once at startup by Load
// and treated as read-only afterwards.
type Config struct {
	LogFilePath       string        `yaml:"log_file_path"`      // File tailed by every stream session
	Host              string        `yaml:"host"`               // Bind host
	Port              int           `yaml:"port"`               // Bind port
	Debug             bool          `yaml:"debug"`              // Forces debug logging
	PollInterval      time.Duration `yaml:"poll_interval"`      // Idle wait between reads
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval"` // Idle time before a heartbeat frame
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`   // Grace period for in-flight requests
	MetricsEnabled    bool          `yaml:"metrics_enabled"`    // Serve /metrics
	Logging           LoggingConfig `yaml:"logging"`
}

// LoggingConfig contains logging configuration for the service's own logs
type LoggingConfig struct {
	Level      string `yaml:"level"`       // debug, info, warn, error
	Format     string `yaml:"format"`      // json, console
	OutputFile string `yaml:"output_file"` // Empty for stdout
}

// Defaults
const (
	DefaultLogFilePath       = "/tmp/comfyui.log"
	DefaultHost              = "0.0.0.0"
	DefaultPort              = 8001
	DefaultPollInterval      = 500 * time.Millisecond
	DefaultHeartbeatInterval = 10 * time.Second
	DefaultShutdownTimeout   = 5 * time.Second
)

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		LogFilePath:       DefaultLogFilePath,
		Host:              DefaultHost,
		Port:              DefaultPort,
		PollInterval:      DefaultPollInterval,
		HeartbeatInterval: DefaultHeartbeatInterval,
		ShutdownTimeout:   DefaultShutdownTimeout,
		MetricsEnabled:    true,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
