package events

import "time"

// Config contains event hub configuration
type Config struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	Path            string        `yaml:"path" mapstructure:"path"`
	MaxConnections  int           `yaml:"max_connections" mapstructure:"max_connections"`
	ReadBufferSize  int           `yaml:"read_buffer_size" mapstructure:"read_buffer_size"`
	WriteBufferSize int           `yaml:"write_buffer_size" mapstructure:"write_buffer_size"`
	PingInterval    time.Duration `yaml:"ping_interval" mapstructure:"ping_interval"`
	PongTimeout     time.Duration `yaml:"pong_timeout" mapstructure:"pong_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	MaxMessageSize  int64         `yaml:"max_message_size" mapstructure:"max_message_size"`
	AllowedOrigins  []string      `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	Username        string        `yaml:"username" mapstructure:"username"`
	Password        string        `yaml:"password" mapstructure:"password"`
	Events          EventsConfig  `yaml:"events" mapstructure:"events"`
}

// EventsConfig selects which event families are broadcast to subscribers
type EventsConfig struct {
	BroadcastProcessing  bool `yaml:"broadcast_processing" mapstructure:"broadcast_processing"`
	BroadcastBatch       bool `yaml:"broadcast_batch" mapstructure:"broadcast_batch"`
	BroadcastSystem      bool `yaml:"broadcast_system" mapstructure:"broadcast_system"`
	BroadcastConnections bool `yaml:"broadcast_connections" mapstructure:"broadcast_connections"`
}

// DefaultConfig returns sensible hub defaults
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		Path:            "/ws",
		MaxConnections:  100,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		PingInterval:    54 * time.Second,
		PongTimeout:     60 * time.Second,
		WriteTimeout:    10 * time.Second,
		MaxMessageSize:  512,
		AllowedOrigins:  []string{"*"},
		Events: EventsConfig{
			BroadcastProcessing:  true,
			BroadcastBatch:       true,
			BroadcastSystem:      true,
			BroadcastConnections: true,
		},
	}
}
