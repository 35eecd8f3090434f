package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/s0up4200/tvdbarr/tvdb"
)

// envBindings maps config keys to the environment variables that override them
var envBindings = map[string]string{
	"tvdb.api_key":   "TVDB_API_KEY",
	"sonarr.url":     "SONARR_URL",
	"sonarr.api_key": "SONARR_API_KEY",
}

// Load loads the configuration from file. A .env file in the working
// directory is read first. When configPath is empty a missing config file
// is not an error; defaults and environment variables are used instead.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix("TVDBARR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env, "TVDBARR_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_"))); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", env, err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".tvdbarr"))
		}

		// Check /etc
		v.AddConfigPath("/etc/tvdbarr/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// TVDB defaults
	v.SetDefault("tvdb.api_key", "")
	v.SetDefault("tvdb.base_url", tvdb.DefaultBaseURL)
	v.SetDefault("tvdb.image_base_url", tvdb.DefaultImageBaseURL)
	v.SetDefault("tvdb.timeout", "30s")
	v.SetDefault("tvdb.user_agent", "tvdbarr")

	// Sonarr defaults
	v.SetDefault("sonarr.url", "")
	v.SetDefault("sonarr.api_key", "")
	v.SetDefault("sonarr.concurrency", 4)

	// Server defaults
	v.SetDefault("server.address", "127.0.0.1:8484")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("export.dir", "tvdb-export")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 30)
	v.SetDefault("logging.compress", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if err := validateURL("tvdb.base_url", cfg.TVDB.BaseURL); err != nil {
		return err
	}
	if err := validateURL("tvdb.image_base_url", cfg.TVDB.ImageBaseURL); err != nil {
		return err
	}
	if cfg.TVDB.Timeout <= 0 {
		return fmt.Errorf("tvdb.timeout must be positive")
	}

	if cfg.Sonarr.URL != "" {
		if err := validateURL("sonarr.url", cfg.Sonarr.URL); err != nil {
			return err
		}
	}
	if cfg.Sonarr.Concurrency < 1 {
		return fmt.Errorf("sonarr.concurrency must be at least 1")
	}

	if cfg.Server.Address == "" {
		return fmt.Errorf("server.address is required")
	}

	for name, preset := range cfg.Filter.Presets {
		if strings.TrimSpace(preset.Expression) == "" {
			return fmt.Errorf("filter preset '%s' has no expression", name)
		}
	}

	// Validate logging level
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}

func validateURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got %q", key, raw)
	}
	return nil
}
