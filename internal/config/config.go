// This file defines the configuration structure for the application.
package config

import (
	// use Viper for loading the config.yml file.
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration settings for the application.
// It maps directly to the structure of config.yml.
type Config struct {
	Port     int `mapstructure:"port"`
	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`
	Catalog struct {
		BaseURL      string `mapstructure:"base_url"`
		APIKey       string `mapstructure:"api_key"`
		ImageBaseURL string `mapstructure:"image_base_url"`
	} `mapstructure:"catalog"`
	Persistence struct {
		BaseURL string `mapstructure:"base_url"`
	} `mapstructure:"persistence"`
	CacheRefreshInterval int `mapstructure:"cache_refresh_interval"` // minutes, 0 disables
	SessionTTLHours      int `mapstructure:"session_ttl_hours"`
}

// Load reads configuration from a file named "config.yml" in the
// current directory and unmarshals it into a Config struct.
func Load() (*Config, error) {
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or "yaml"
	viper.AddConfigPath(".")      // looking for config in the current directory

	// --- Environment Variable Overrides ---
	// e.g., CINELOG_CATALOG_API_KEY overrides the `catalog.api_key` key.
	viper.SetEnvPrefix("CINELOG")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set default values
	viper.SetDefault("port", 8080)
	viper.SetDefault("database.path", "./cinelog.db")
	viper.SetDefault("catalog.base_url", "https://api.themoviedb.org/3")
	viper.SetDefault("catalog.api_key", "")
	viper.SetDefault("catalog.image_base_url", "https://image.tmdb.org/t/p/w500")
	viper.SetDefault("persistence.base_url", "http://localhost:8000/api")
	viper.SetDefault("cache_refresh_interval", 360)
	viper.SetDefault("session_ttl_hours", 168)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; ignore error and use defaults
		} else {
			// Config file was found but another error was produced
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
