// Package config provides configuration loading and structs for the Kensho server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug    bool           `yaml:"debug"`
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Verifier VerifierConfig `yaml:"verifier"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds registry persistence settings.
type StorageConfig struct {
	// DatabasePath is the SQLite database file. "memory" selects the
	// ephemeral in-memory storage (nothing survives a restart).
	DatabasePath string `yaml:"database_path"`
}

// Ephemeral reports whether the in-memory storage was requested.
func (s *StorageConfig) Ephemeral() bool {
	return s.DatabasePath == "memory"
}

// VerifierConfig holds proof verification oracle settings.
type VerifierConfig struct {
	// Mode selects the implementation: "http" (remote verifier service) or
	// "static" (fixed result, development only).
	Mode string `yaml:"mode"`
	// Endpoint is the base URL of the verifier service (http mode).
	Endpoint string `yaml:"endpoint"`
	// TimeoutSeconds bounds a single verification call (http mode).
	TimeoutSeconds int `yaml:"timeout_seconds"`
	// StaticResult is the fixed answer in static mode: valid, invalid, or
	// indeterminate.
	StaticResult string `yaml:"static_result"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	if !cfg.Storage.Ephemeral() {
		cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, filepath.Dir(path))
	}

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
