// Package config loads the decode tool configuration. Fields are pointers so
// partial JSON files are safe: anything omitted falls back to the defaults
// supplied by the Get* methods.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the root configuration for the qfit tools. The same JSON schema
// serves every command.
type Config struct {
	// LeapSecondsPath points at an external leap-seconds.list. Empty means
	// the snapshot bundled into the binary.
	LeapSecondsPath *string `json:"leap_seconds_path,omitempty"`

	// Lenient selects skip-and-continue handling of out-of-range records.
	Lenient *bool `json:"lenient,omitempty"`

	// CatalogPath is the SQLite granule catalog. Empty disables cataloguing.
	CatalogPath *string `json:"catalog_path,omitempty"`

	// MaxRecords caps how many records the dump command prints.
	MaxRecords *int `json:"max_records,omitempty"`
}

// Load reads and validates a Config from a JSON file.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Size check so a mistaken path (e.g. a granule) cannot be slurped.
	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if c.MaxRecords != nil && *c.MaxRecords < 0 {
		return fmt.Errorf("max_records must be non-negative, got %d", *c.MaxRecords)
	}
	if c.LeapSecondsPath != nil && *c.LeapSecondsPath != "" {
		if _, err := os.Stat(*c.LeapSecondsPath); err != nil {
			return fmt.Errorf("leap_seconds_path: %w", err)
		}
	}
	return nil
}

// GetLeapSecondsPath returns the external leap-seconds file path, empty for
// the bundled snapshot.
func (c *Config) GetLeapSecondsPath() string {
	if c.LeapSecondsPath == nil {
		return ""
	}
	return *c.LeapSecondsPath
}

// GetLenient returns the lenient flag; strict is the default.
func (c *Config) GetLenient() bool {
	if c.Lenient == nil {
		return false
	}
	return *c.Lenient
}

// GetCatalogPath returns the catalog database path, empty when cataloguing
// is disabled.
func (c *Config) GetCatalogPath() string {
	if c.CatalogPath == nil {
		return ""
	}
	return *c.CatalogPath
}

// GetMaxRecords returns the dump cap; 10 by default.
func (c *Config) GetMaxRecords() int {
	if c.MaxRecords == nil {
		return 10
	}
	return *c.MaxRecords
}
