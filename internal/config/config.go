package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/veilware/veil/internal/analyzer"
	"github.com/veilware/veil/internal/cache"
)

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	// Set defaults
	config := GetDefaults()

	// Configure viper
	viper.SetConfigName("veil")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("/etc/veil/")
	viper.AddConfigPath("$HOME/.veil/")

	// Environment variable overrides
	viper.SetEnvPrefix("VEIL")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Use specific config file if provided
	if configPath != "" {
		viper.SetConfigFile(configPath)
	}

	// Read configuration
	if err := viper.ReadInConfig(); err != nil {
		// Config file not found is not an error - we'll use defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal into config struct
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// validateConfig validates the loaded configuration
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if err := config.Engine.Validate(); err != nil {
		return err
	}

	switch config.Analyzer.Type {
	case "", analyzer.TypePattern:
	case analyzer.TypeRemote:
		if config.Analyzer.Remote.URL == "" {
			return fmt.Errorf("analyzer type %q requires a remote url", config.Analyzer.Type)
		}
	default:
		return fmt.Errorf("invalid analyzer type: %s (must be pattern or remote)", config.Analyzer.Type)
	}

	switch config.Cache.Strategy {
	case "", cache.StrategyMemory, cache.StrategyRedis, cache.StrategyBolt, cache.StrategyNone:
	default:
		return fmt.Errorf("invalid cache strategy: %s (must be memory, redis, bolt, or none)", config.Cache.Strategy)
	}

	if config.Store.Enabled && config.Store.DSN == "" {
		return fmt.Errorf("session store is enabled but no dsn is configured")
	}

	if config.RateLimit.Enabled && config.RateLimit.RPS <= 0 {
		return fmt.Errorf("invalid rate limit: rps must be positive, got %g", config.RateLimit.RPS)
	}

	if config.Logging.Level != "debug" && config.Logging.Level != "info" && config.Logging.Level != "warn" && config.Logging.Level != "error" {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", config.Logging.Level)
	}

	if config.Logging.Format != "json" && config.Logging.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", config.Logging.Format)
	}

	return nil
}

// Watch starts watching the configuration file for changes
func Watch(config *Config, callback func(*Config)) error {
	viper.WatchConfig()
	viper.OnConfigChange(func(e fsnotify.Event) {
		newConfig := GetDefaults()
		if err := viper.Unmarshal(newConfig); err != nil {
			// Log error but don't crash
			return
		}

		if err := validateConfig(newConfig); err != nil {
			// Log error but don't crash
			return
		}

		callback(newConfig)
	})

	return nil
}
