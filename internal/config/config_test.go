// This test file verifies the configuration loading logic using Viper.

package config

import (
	"os"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults when no config file", func(t *testing.T) {
		// Ensure no config file exists for this test
		os.Remove("config.yml")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() returned an error: %v", err)
		}

		// Check if default values are set
		if cfg.Port != 8080 {
			t.Errorf("Expected default port 8080, got %d", cfg.Port)
		}
		if cfg.Database.Path != "./cinelog.db" {
			t.Errorf("Expected default db path './cinelog.db', got '%s'", cfg.Database.Path)
		}
		if cfg.Catalog.BaseURL != "https://api.themoviedb.org/3" {
			t.Errorf("Unexpected default catalog base URL: '%s'", cfg.Catalog.BaseURL)
		}
		if cfg.SessionTTLHours != 168 {
			t.Errorf("Expected default session TTL of 168 hours, got %d", cfg.SessionTTLHours)
		}
	})

	t.Run("Loads from config file", func(t *testing.T) {
		// Create a temporary config file for this test
		configContent := `
port: 9999
database:
  path: "/tmp/test.db"
catalog:
  base_url: "http://catalog.local"
  api_key: "test-key"
persistence:
  base_url: "http://persist.local/api"
unknown_setting: "should be ignored"
`
		// Create the config file in the current directory so Viper can find it.
		// Note: `t.TempDir()` is not used here because Viper looks in the CWD.
		configPath := "config.yml"
		if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
			t.Fatalf("Failed to write test config file: %v", err)
		}
		// Clean up the file after the test
		defer os.Remove(configPath)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() returned an error: %v", err)
		}

		// Check if values from the file were loaded
		if cfg.Port != 9999 {
			t.Errorf("Expected port 9999, got %d", cfg.Port)
		}
		if cfg.Catalog.APIKey != "test-key" {
			t.Errorf("Expected catalog api key 'test-key', got '%s'", cfg.Catalog.APIKey)
		}
		if cfg.Persistence.BaseURL != "http://persist.local/api" {
			t.Errorf("Expected persistence base URL 'http://persist.local/api', got '%s'", cfg.Persistence.BaseURL)
		}
		if cfg.CacheRefreshInterval != 360 {
			t.Errorf("Expected default cache refresh interval of 360, got %d", cfg.CacheRefreshInterval)
		}
	})
}
