package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigName is the file name looked up when no -config flag is given.
const DefaultConfigName = "logstream.yaml"

// ConfigDir returns the path to the per-user config directory (~/.logstream).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".logstream"), nil
}

// DefaultPath returns the config file to use when none was given explicitly.
// It returns "" when no config file exists, which means env and defaults only.
// An absolute name is returned as-is.
func DefaultPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}

	candidates := []string{name}
	if dir, err := ConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, name))
	}
	candidates = append(candidates, filepath.Join("/etc/logstream", name))

	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
