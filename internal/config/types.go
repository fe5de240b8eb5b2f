package config

import (
	"time"

	"github.com/veilware/veil/internal/analyzer"
	"github.com/veilware/veil/internal/cache"
	"github.com/veilware/veil/internal/engine"
	"github.com/veilware/veil/internal/events"
	"github.com/veilware/veil/internal/logger"
	"github.com/veilware/veil/internal/store"
)

// Config represents the main configuration structure
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Engine    engine.Config   `yaml:"engine" mapstructure:"engine"`
	Analyzer  analyzer.Config `yaml:"analyzer" mapstructure:"analyzer"`
	Cache     cache.Config    `yaml:"cache" mapstructure:"cache"`
	Store     store.Config    `yaml:"store" mapstructure:"store"`
	Logging   logger.Config   `yaml:"logging" mapstructure:"logging"`
	WebSocket events.Config   `yaml:"websocket" mapstructure:"websocket"`
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// RateLimitConfig contains request rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" mapstructure:"enabled"`
	RPS     float64 `yaml:"rps" mapstructure:"rps"`
	Burst   int     `yaml:"burst" mapstructure:"burst"`
}

// GetDefaults returns a configuration with sensible defaults
func GetDefaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
			MaxBodyBytes: 1 << 20, // 1 MB
		},
		Engine:   *engine.DefaultConfig(),
		Analyzer: *analyzer.DefaultConfig(),
		Cache:    *cache.DefaultConfig(),
		Store:    *store.DefaultConfig(),
		Logging: logger.Config{
			Level:  "info",
			Format: "json",
			File: &logger.FileConfig{
				Enabled:  false,
				Path:     "logs/veil.log",
				MaxSize:  100, // MB
				MaxAge:   30,  // days
				Compress: true,
			},
		},
		WebSocket: *events.DefaultConfig(),
		RateLimit: RateLimitConfig{
			Enabled: true,
			RPS:     50,
			Burst:   100,
		},
	}
}
