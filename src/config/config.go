// Package config loads the application configuration from a YAML file.
//
// Every setting has a working default, so the application runs without a
// config file at all: a SQLite database next to the binary, the default
// input filename, and servers disabled. A present file overrides only the
// fields it sets.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root of the YAML configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig selects and configures the persistence backend.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "sqlite" or "postgres"
	Path   string `yaml:"path"`   // SQLite database file path
	DSN    string `yaml:"dsn"`    // PostgreSQL connection string (lib/pq format)
}

// IngestConfig configures the file ingestion step.
type IngestConfig struct {
	InputFile string `yaml:"input_file"` // hand-history file processed on startup
}

// ServerConfig configures the optional HTTP servers.
type ServerConfig struct {
	Enabled       bool   `yaml:"enabled"`        // keep running and serve HTTP after the file ingest
	IngestionAddr string `yaml:"ingestion_addr"` // listen address for POST /ingest
	APIAddr       string `yaml:"api_addr"`       // listen address for the read API
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn or error
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver: "sqlite",
			Path:   "handhistory.db",
		},
		Ingest: IngestConfig{
			InputFile: "handhistory.txt",
		},
		Server: ServerConfig{
			Enabled:       false,
			IngestionAddr: ":8080",
			APIAddr:       ":8081",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the configuration from path, applying defaults for any field
// the file leaves unset. A missing file is not an error; the defaults are
// returned as-is.
func Load(path string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SlogLevel maps the configured level name onto a slog level. Unknown
// names fall back to info.
func (c LoggingConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
