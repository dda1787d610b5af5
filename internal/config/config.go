// Package config provides configuration loading and validation for the CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. TALENTALB_API_BASE_URL.
const EnvPrefix = "TALENTALB"

// Store backends accepted in Config.Store
const (
	StoreFile     = "file"
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config represents the CLI configuration. Values come from defaults, an optional
// JSON or YAML file and TALENTALB_* environment variables, in increasing priority.
type Config struct {
	APIBaseURL  string        `mapstructure:"api_base_url" json:"api_base_url,omitempty"` // Backend origin, e.g. http://localhost:8080
	DataDir     string        `mapstructure:"data_dir" json:"data_dir,omitempty"`         // Where the file store keeps its state
	Store       string        `mapstructure:"store" json:"store,omitempty"`               // file, memory, redis or postgres
	RedisURL    string        `mapstructure:"redis_url" json:"redis_url,omitempty"`
	DatabaseURL string        `mapstructure:"database_url" json:"database_url,omitempty"`
	Locale      string        `mapstructure:"locale" json:"locale,omitempty"` // Forces a locale; empty means detect
	PageSize    int           `mapstructure:"page_size" json:"page_size,omitempty"`
	Timeout     time.Duration `mapstructure:"timeout" json:"timeout,omitempty"`
	LogLevel    string        `mapstructure:"log_level" json:"log_level,omitempty"`
	LogFormat   string        `mapstructure:"log_format" json:"log_format,omitempty"`
	RateLimit   float64       `mapstructure:"rate_limit" json:"rate_limit,omitempty"` // Requests per second for bulk walks, 0 = unlimited
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		APIBaseURL: "http://localhost:8080",
		DataDir:    defaultDataDir(),
		Store:      StoreFile,
		PageSize:   6,
		Timeout:    15 * time.Second,
		LogLevel:   "warn",
		LogFormat:  "console",
	}
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "talentalb")
	}
	return ".talentalb"
}

// LoadConfig loads configuration from defaults, the file at path (skipped when
// path is empty) and the environment.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	defaults := Defaults()
	v.SetDefault("api_base_url", defaults.APIBaseURL)
	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("store", defaults.Store)
	v.SetDefault("redis_url", "")
	v.SetDefault("database_url", "")
	v.SetDefault("locale", "")
	v.SetDefault("page_size", defaults.PageSize)
	v.SetDefault("timeout", defaults.Timeout)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_format", defaults.LogFormat)
	v.SetDefault("rate_limit", 0.0)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreFile:
		if c.DataDir == "" {
			return fmt.Errorf("config error: 'data_dir' is required for the file store")
		}
	case StoreMemory:
	case StoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("config error: 'redis_url' is required for the redis store")
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: 'database_url' is required for the postgres store")
		}
	default:
		return fmt.Errorf("config error: unknown store %q", c.Store)
	}

	if c.APIBaseURL == "" {
		return fmt.Errorf("config error: 'api_base_url' is required")
	}
	if c.PageSize <= 0 || c.PageSize > 100 {
		return fmt.Errorf("config error: 'page_size' must be between 1 and 100")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("config error: 'timeout' must be non-negative")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("config error: 'rate_limit' must be non-negative")
	}
	if c.LogFormat != "" && c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("config error: 'log_format' must be json or console")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIBaseURL == "" {
		result.APIBaseURL = defaults.APIBaseURL
	}
	if result.DataDir == "" {
		result.DataDir = defaults.DataDir
	}
	if result.Store == "" {
		result.Store = defaults.Store
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Locale == "" {
		result.Locale = defaults.Locale
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}

	if result.PageSize == 0 {
		result.PageSize = defaults.PageSize
	}
	if result.Timeout == 0 {
		result.Timeout = defaults.Timeout
	}
	if result.RateLimit == 0 {
		result.RateLimit = defaults.RateLimit
	}

	return result
}
