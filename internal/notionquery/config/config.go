package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix is the prefix for environment variables
	EnvPrefix = "NOTIONQUERY"

	// ConfigFileName is the name of the config file
	ConfigFileName = "config"
	// ConfigFileType is the type of the config file
	ConfigFileType = "toml"

	// DefaultRelationConcurrency is the number of related pages fetched at once
	DefaultRelationConcurrency = 4
	// DefaultLogLevel is the log level used when none is configured
	DefaultLogLevel = "warn"
)

// Config holds the application configuration
type Config struct {
	Token               string `mapstructure:"token"`
	BaseURL             string `mapstructure:"base_url"`
	NotionVersion       string `mapstructure:"notion_version"`
	RelationConcurrency int    `mapstructure:"relation_concurrency"`
	LogLevel            string `mapstructure:"log_level"`
}

// Load loads configuration from environment variables and the config file
func Load() (*Config, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	return LoadFrom(configDir)
}

// LoadFrom loads configuration using configDir as the config file location
func LoadFrom(configDir string) (*Config, error) {
	v := viper.New()

	v.SetDefault("relation_concurrency", DefaultRelationConcurrency)
	v.SetDefault("log_level", DefaultLogLevel)

	// Set up environment variable binding
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	for _, key := range []string{"token", "base_url", "notion_version", "relation_concurrency", "log_level"} {
		_ = v.BindEnv(key)
	}

	v.SetConfigName(ConfigFileName)
	v.SetConfigType(ConfigFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// NOTION_TOKEN is the name used by the official SDKs; it ranks below
	// NOTIONQUERY_TOKEN but above the config file
	if os.Getenv(EnvPrefix+"_TOKEN") == "" {
		if token := os.Getenv("NOTION_TOKEN"); token != "" {
			cfg.Token = token
		}
	}

	return &cfg, nil
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "notionquery"), nil
}

// ConfigFilePath returns the path of the config file inside configDir
func ConfigFilePath(configDir string) string {
	return filepath.Join(configDir, ConfigFileName+"."+ConfigFileType)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("token is required. Set NOTIONQUERY_TOKEN/NOTION_TOKEN environment variable or configure in ~/.config/notionquery/config.toml")
	}
	if c.RelationConcurrency < 1 {
		return fmt.Errorf("relation_concurrency must be at least 1, got %d", c.RelationConcurrency)
	}
	return nil
}
