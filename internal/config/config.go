// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"floorplan-markup/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Drawing contains drawing-session defaults
	Drawing DrawingConfig `json:"drawing"`

	// Storage contains persistence settings
	Storage StorageConfig `json:"storage"`

	// Server contains API server settings
	Server ServerConfig `json:"server"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// DrawingConfig contains drawing-session defaults
type DrawingConfig struct {
	// DefaultPurpose is the design purpose a new drawing starts in
	DefaultPurpose string `json:"default_purpose"`

	// FloatTolerance is the comparison tolerance for pixel coordinates
	FloatTolerance float64 `json:"float_tolerance"`
}

// StorageConfig contains persistence settings
type StorageConfig struct {
	// DatabasePath is the path to the drawings database
	DatabasePath string `json:"database_path"`
}

// ServerConfig contains API server settings
type ServerConfig struct {
	// Listen is the address the API server binds to
	Listen string `json:"listen"`

	// ReadTimeoutSeconds is the request read timeout
	ReadTimeoutSeconds int `json:"read_timeout_seconds"`

	// WriteTimeoutSeconds is the response write timeout
	WriteTimeoutSeconds int `json:"write_timeout_seconds"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dbPath := filepath.Join(homeDir, ".floorplan-markup", "drawings.db")

	return &Config{
		Version: "1.0",
		Drawing: DrawingConfig{
			DefaultPurpose: "prelim_markup",
			FloatTolerance: 1e-9,
		},
		Storage: StorageConfig{
			DatabasePath: dbPath,
		},
		Server: ServerConfig{
			Listen:              ":8080",
			ReadTimeoutSeconds:  15,
			WriteTimeoutSeconds: 15,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
