// Package config provides configuration loading and management for
// dicomvolview. It handles loading configuration from YAML files and
// provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"dicomvolview/pkg/preprocess"
)

// WindowConfig is a named window/level pair defined in the config file,
// merged over the builtin presets at lookup time.
type WindowConfig struct {
	Name  string  `yaml:"name"`
	Level float64 `yaml:"level"`
	Width float64 `yaml:"width"`
}

// Config represents the application configuration loaded from YAML
type Config struct {
	// Rendering parameters
	Rendering struct {
		// Projection selects the default projection: "slice" or "mip"
		Projection string `yaml:"projection"`

		// Preset names the default window preset; empty means use the
		// source's window or auto-windowing
		Preset string `yaml:"preset"`

		// Level and Width override the window explicitly when Width > 0
		Level float64 `yaml:"level"`
		Width float64 `yaml:"width"`

		// AutoWindowLow and AutoWindowHigh are the quantile fractions
		// for automatic windowing when no window is configured
		AutoWindowLow  float64 `yaml:"autoWindowLow"`
		AutoWindowHigh float64 `yaml:"autoWindowHigh"`
	} `yaml:"rendering"`

	// Preprocess holds the optional plane filter settings
	Preprocess preprocess.Options `yaml:"preprocess"`

	// Output parameters
	Output struct {
		// Format is the raster format for saved frames: "png" or "jpeg"
		Format string `yaml:"format"`

		// JPEGQuality is the encoder quality for jpeg output
		JPEGQuality int `yaml:"jpegQuality"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`

	// Presets are user-defined named windows
	Presets []WindowConfig `yaml:"presets"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default rendering parameters
	cfg.Rendering.Projection = "slice"
	cfg.Rendering.AutoWindowLow = 0.01
	cfg.Rendering.AutoWindowHigh = 0.99

	// Set default output parameters
	cfg.Output.Format = "png"
	cfg.Output.JPEGQuality = 90
	cfg.Output.Verbose = true

	return cfg
}

// PresetByName looks up a user-defined preset from the config file.
func (c *Config) PresetByName(name string) (WindowConfig, bool) {
	for _, p := range c.Presets {
		if p.Name == name {
			return p, true
		}
	}
	return WindowConfig{}, false
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
