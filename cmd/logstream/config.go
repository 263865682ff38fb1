package main

import (
	"flag"
	"strings"

	"github.com/DeBrosOfficial/logstream/pkg/config"
)

// parseConfig parses flags and loads the configuration.
// Priority: flags > env > config file > defaults. Only flags given on the
// command line override; their defaults never mask env or file values.
func parseConfig(args []string, lookup config.LookupFunc) (*config.Config, error) {
	fs := flag.NewFlagSet("logstream", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to YAML config file (env "+config.EnvConfigFile+")")
	logFile := fs.String("log-file", config.DefaultLogFilePath, "Log file to stream (env "+config.EnvLogFilePath+")")
	host := fs.String("host", config.DefaultHost, "Bind host (env "+config.EnvHost+")")
	port := fs.Int("port", config.DefaultPort, "Bind port (env "+config.EnvPort+")")
	debug := fs.Bool("debug", false, "Enable debug logging (env "+config.EnvDebug+")")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	path := *configPath
	if !set["config"] {
		if v, ok := lookup(config.EnvConfigFile); ok && strings.TrimSpace(v) != "" {
			path = strings.TrimSpace(v)
		} else {
			path = config.DefaultPath(config.DefaultConfigName)
		}
	}

	return config.Load(path, lookup, func(c *config.Config) {
		if set["log-file"] {
			c.LogFilePath = *logFile
		}
		if set["host"] {
			c.Host = *host
		}
		if set["port"] {
			c.Port = *port
		}
		if set["debug"] {
			c.Debug = *debug
		}
	})
}
