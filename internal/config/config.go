// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"elbyte/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Server contains API server configuration
	Server ServerConfig `json:"server"`

	// Store contains cache store configuration
	Store StoreConfig `json:"store"`

	// Savings contains the reference plan constants
	Savings SavingsConfig `json:"savings"`

	// Suppliers contains per-supplier endpoint overrides
	Suppliers SuppliersConfig `json:"suppliers,omitempty"`

	// Spot contains spot price configuration
	Spot SpotConfig `json:"spot"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// ServerConfig contains API server settings
type ServerConfig struct {
	// Address is the listen address
	Address string `json:"address"`

	// ReadTimeoutSeconds limits request read time
	ReadTimeoutSeconds int `json:"read_timeout_seconds"`

	// WriteTimeoutSeconds limits response write time
	WriteTimeoutSeconds int `json:"write_timeout_seconds"`

	// EnableMetrics exposes Prometheus metrics on /metrics
	EnableMetrics bool `json:"enable_metrics"`
}

// StoreConfig contains tariff cache store settings
type StoreConfig struct {
	// Driver selects the backend (postgres, sqlite, memory)
	Driver string `json:"driver"`

	// DSN is the Postgres connection string
	DSN string `json:"dsn,omitempty"`

	// Path is the SQLite database path
	Path string `json:"path,omitempty"`
}

// SavingsConfig contains the reference low-cost plan constants
type SavingsConfig struct {
	// ReferenceEnergyRate is the reference price per kWh (SEK)
	ReferenceEnergyRate string `json:"reference_energy_rate"`

	// MinimalMonthlyFee is the reference monthly fee (SEK)
	MinimalMonthlyFee string `json:"minimal_monthly_fee"`
}

// SuppliersConfig contains supplier endpoint overrides keyed by canonical supplier key
type SuppliersConfig struct {
	// Endpoints maps canonical supplier key to a replacement price URL
	Endpoints map[string]string `json:"endpoints,omitempty"`

	// TimeoutSeconds bounds each live tariff fetch
	TimeoutSeconds int `json:"timeout_seconds"`
}

// SpotConfig contains spot price settings
type SpotConfig struct {
	// Endpoint is the spot price API base URL
	Endpoint string `json:"endpoint"`

	// TTLSeconds is how long a fetched spot price stays fresh
	TTLSeconds int `json:"ttl_seconds"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dbPath := filepath.Join(homeDir, ".elbyte", "tariffs.db")

	return &Config{
		Version: "1.0",
		Server: ServerConfig{
			Address:             ":8080",
			ReadTimeoutSeconds:  15,
			WriteTimeoutSeconds: 30,
			EnableMetrics:       true,
		},
		Store: StoreConfig{
			Driver: "sqlite",
			Path:   dbPath,
		},
		Savings: SavingsConfig{
			ReferenceEnergyRate: "0.50",
			MinimalMonthlyFee:   "29",
		},
		Suppliers: SuppliersConfig{
			TimeoutSeconds: 10,
		},
		Spot: SpotConfig{
			Endpoint:   "https://www.elprisetjustnu.se/api/v1/prices",
			TTLSeconds: 3600,
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
