package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigYAML is the default configuration content.
const DefaultConfigYAML = `# Restock-Core Configuration

sqlite:
  # path: /custom/path/restock.db (or set RESTOCK_DB_PATH env var)

warehouse:
  url: http://localhost:9090/fulfill
  timeout_seconds: 10

governor:
  safe_threshold: 80
  low_stock_threshold: 10

scan:
  inventory_interval_seconds: 120
  demand_interval_seconds: 300
  mitigation_interval_seconds: 300
`

// WriteDefault creates the .restock directory and writes a default config file.
func WriteDefault(basePath string) error {
	configDir := filepath.Join(basePath, DefaultConfigDir)
	configFile := filepath.Join(configDir, DefaultConfigFile)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists: %s", configFile)
	}

	if err := os.WriteFile(configFile, []byte(DefaultConfigYAML), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
