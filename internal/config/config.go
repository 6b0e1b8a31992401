// Package config loads the YAML configuration consumed by the statement
// engine and CLI.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the recognized options.
type Config struct {
	// DBPath is the SQLite database file.
	DBPath string `yaml:"db_path"`

	// StatementGetLimit is the maximum page size for statement retrieval.
	StatementGetLimit int `yaml:"statement_get_limit"`

	// DefaultStatementGetFormat is the output format used when a request
	// names none.
	DefaultStatementGetFormat string `yaml:"default_statement_get_format"`

	// AttachmentBase is the base URL attachment references are rewritten
	// against at insert time.
	AttachmentBase string `yaml:"attachment_base"`

	// User is the acting principal the CLI operates as.
	User string `yaml:"user"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		DBPath:                    "stanza.db",
		StatementGetLimit:         100,
		DefaultStatementGetFormat: "exact",
		User:                      "local",
	}
}

// Load reads a YAML config file, filling unset fields from Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.StatementGetLimit <= 0 {
		cfg.StatementGetLimit = Default().StatementGetLimit
	}
	if cfg.DefaultStatementGetFormat == "" {
		cfg.DefaultStatementGetFormat = Default().DefaultStatementGetFormat
	}
	return cfg, nil
}
