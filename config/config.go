package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	ReportCSV    = "csv"
	ReportSQLite = "sqlite"
)

// Config represents the complete run configuration
type Config struct {
	LogLevel string       `json:"log_level" yaml:"log_level"`
	Engine   EngineConfig `json:"engine" yaml:"engine"`
	Report   ReportConfig `json:"report" yaml:"report"`
}

// EngineConfig contains settlement policy switches
type EngineConfig struct {
	// Let dispute, resolve and chargeback rows reference another client's
	// transaction.
	AllowClientMismatch bool `json:"allow_client_mismatch" yaml:"allow_client_mismatch"`
}

// ReportConfig selects where final balances are written
type ReportConfig struct {
	Type   string `json:"type" yaml:"type"` // "csv" or "sqlite"
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads and validates configuration from a file (YAML or JSON)
func LoadFromFile(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Load reads a file over Default() without validating it, so callers can
// apply overrides first.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error")
	}
	if c.Report.Type != ReportCSV && c.Report.Type != ReportSQLite {
		return fmt.Errorf("report.type must be 'csv' or 'sqlite'")
	}
	if c.Report.Type == ReportSQLite && c.Report.DBPath == "" {
		return fmt.Errorf("report db_path required for SQLite type")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		LogLevel: "warn",
		Report: ReportConfig{
			Type:   ReportCSV,
			DBPath: "./txengine.sqlite",
		},
	}
}
