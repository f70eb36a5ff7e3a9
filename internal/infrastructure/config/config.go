// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory name for restock configuration.
	DefaultConfigDir = ".restock"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultDatabaseFile is the default SQLite database file name.
	DefaultDatabaseFile = "restock.db"
)

// Config holds static infrastructure configuration (read-only after init).
type Config struct {
	SQLite    SQLiteConfig    `yaml:"sqlite,omitempty"`
	Warehouse WarehouseConfig `yaml:"warehouse,omitempty"`
	Governor  GovernorConfig  `yaml:"governor,omitempty"`
	Scan      ScanConfig      `yaml:"scan,omitempty"`
}

// SQLiteConfig holds configuration for the SQLite relational database.
type SQLiteConfig struct {
	// Path is the file path to the SQLite database. Empty means the
	// default path under the config directory.
	Path string `yaml:"path,omitempty"`
}

// WarehouseConfig holds configuration for the external fulfillment service.
type WarehouseConfig struct {
	URL            string `yaml:"url,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"`
}

// Timeout returns the request timeout as a duration.
func (w WarehouseConfig) Timeout() time.Duration {
	return time.Duration(w.TimeoutSeconds) * time.Second
}

// GovernorConfig holds the governance thresholds.
type GovernorConfig struct {
	// SafeThreshold is the minimum risk score AUTO mode requires before
	// executing unattended.
	SafeThreshold int `yaml:"safe_threshold,omitempty"`
	// LowStockThreshold is the stock level below which the inventory scan
	// raises an escalation.
	LowStockThreshold int `yaml:"low_stock_threshold,omitempty"`
}

// ScanConfig holds the serve-loop scan intervals.
type ScanConfig struct {
	InventoryIntervalSeconds  int `yaml:"inventory_interval_seconds,omitempty"`
	DemandIntervalSeconds     int `yaml:"demand_interval_seconds,omitempty"`
	MitigationIntervalSeconds int `yaml:"mitigation_interval_seconds,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Warehouse: WarehouseConfig{
			URL:            "http://localhost:9090/fulfill",
			TimeoutSeconds: 10,
		},
		Governor: GovernorConfig{
			SafeThreshold:     80,
			LowStockThreshold: 10,
		},
		Scan: ScanConfig{
			InventoryIntervalSeconds:  120,
			DemandIntervalSeconds:     300,
			MitigationIntervalSeconds: 300,
		},
	}
}

// Load loads configuration from the .restock directory in the given path.
func Load(basePath string) (*Config, error) {
	configFile := filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)

	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s (run 'restock init' first)", configFile)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Start with defaults
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	cfg.applyEnvOverrides()

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("RESTOCK_WAREHOUSE_URL"); url != "" {
		c.Warehouse.URL = url
	}
	if path := os.Getenv("RESTOCK_DB_PATH"); path != "" {
		c.SQLite.Path = path
	}
	if threshold := os.Getenv("RESTOCK_SAFE_THRESHOLD"); threshold != "" {
		if v, err := strconv.Atoi(threshold); err == nil && v > 0 {
			c.Governor.SafeThreshold = v
		}
	}
}

// ConfigDir returns the path to the .restock config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// SQLitePath returns the SQLite database path, applying the default when
// the config leaves it empty.
func (c *Config) SQLitePath(basePath string) string {
	if c.SQLite.Path != "" {
		return c.SQLite.Path
	}
	return filepath.Join(basePath, DefaultConfigDir, DefaultDatabaseFile)
}

// Exists checks if a restock config exists in the given path.
func Exists(basePath string) bool {
	configFile := filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
	_, err := os.Stat(configFile)
	return err == nil
}
