package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	TVDB    TVDBConfig    `mapstructure:"tvdb"`
	Sonarr  SonarrConfig  `mapstructure:"sonarr"`
	Server  ServerConfig  `mapstructure:"server"`
	Export  ExportConfig  `mapstructure:"export"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// TVDBConfig holds TheTVDB API connection details
type TVDBConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	BaseURL      string        `mapstructure:"base_url"`
	ImageBaseURL string        `mapstructure:"image_base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	UserAgent    string        `mapstructure:"user_agent"`
}

// SonarrConfig holds Sonarr API connection details
type SonarrConfig struct {
	URL         string `mapstructure:"url"`
	APIKey      string `mapstructure:"api_key"`
	Concurrency int    `mapstructure:"concurrency"`
}

// ServerConfig contains settings for the HTTP gateway
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// ExportConfig contains settings for the export command
type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

// FilterConfig contains filter definitions
type FilterConfig struct {
	DefaultExpression string                  `mapstructure:"default_expression"`
	Presets           map[string]PresetConfig `mapstructure:"presets"`
}

// PresetConfig is a named, reusable filter expression
type PresetConfig struct {
	Expression  string `mapstructure:"expression"`
	Description string `mapstructure:"description"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Color      bool   `mapstructure:"color"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// SonarrEnabled reports whether enough Sonarr settings are present to connect.
func (c *Config) SonarrEnabled() bool {
	return c.Sonarr.URL != "" && c.Sonarr.APIKey != ""
}
