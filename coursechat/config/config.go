package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Chat    ChatConfig    `mapstructure:"chat"`
	Harness HarnessConfig `mapstructure:"harness"`
	Session SessionConfig `mapstructure:"session"`
}

// ChatConfig stores provider call parameters.
type ChatConfig struct {
	MaxTokens   int     `mapstructure:"max_tokens"`  // Max tokens per completion
	Temperature float32 `mapstructure:"temperature"` // Sampling temperature
}

// HarnessConfig stores orchestration loop configurations.
type HarnessConfig struct {
	// Round loop
	MaxRounds       int `mapstructure:"max_rounds"`       // Tool-calling rounds per query
	ToolConcurrency int `mapstructure:"tool_concurrency"` // Max concurrent tool executions

	// Cache settings
	CacheEnabled    bool `mapstructure:"cache_enabled"`     // Enable corpus search caching
	CacheCapacity   int  `mapstructure:"cache_capacity"`    // LRU cache capacity
	CacheTTLSeconds int  `mapstructure:"cache_ttl_seconds"` // Cache entry TTL

	// Rate limiting
	RateLimitEnabled    bool          `mapstructure:"rate_limit_enabled"`     // Enable rate limiting
	RateLimitCapacity   int           `mapstructure:"rate_limit_capacity"`    // Token bucket capacity
	RateLimitRefillRate time.Duration `mapstructure:"rate_limit_refill_rate"` // Refill rate

	// Telemetry
	EnableTracing bool `mapstructure:"enable_tracing"` // Enable structured logging/tracing
}

// SessionConfig stores conversation history configurations.
type SessionConfig struct {
	HistoryWindow int    `mapstructure:"history_window"` // Exchanges folded into the prompt
	DatabasePath  string `mapstructure:"database_path"`  // libSQL file; empty keeps history in memory
}

var AppConfig Config

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(configPath string) (*Config, error) {
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("..")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetDefault("chat.max_tokens", 800)
	viper.SetDefault("chat.temperature", 0)

	viper.SetDefault("harness.max_rounds", 2)
	viper.SetDefault("harness.tool_concurrency", 5)
	viper.SetDefault("harness.cache_enabled", true)
	viper.SetDefault("harness.cache_capacity", 1000)
	viper.SetDefault("harness.cache_ttl_seconds", 3600) // 1 hour
	viper.SetDefault("harness.rate_limit_enabled", true)
	viper.SetDefault("harness.rate_limit_capacity", 10)
	viper.SetDefault("harness.rate_limit_refill_rate", "1s")
	viper.SetDefault("harness.enable_tracing", true)

	viper.SetDefault("session.history_window", 2)
	viper.SetDefault("session.database_path", "")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found; defaults and environment variables apply.
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	return &AppConfig, nil
}
