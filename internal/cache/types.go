package cache

import (
	"context"
	"time"

	"github.com/veilware/veil/internal/pii"
)

// Strategy names accepted in configuration.
const (
	StrategyMemory = "memory"
	StrategyRedis  = "redis"
	StrategyBolt   = "bolt"
	StrategyNone   = "none"
)

// Strategy caches detection results keyed by the analysis fingerprint.
// Get reports a miss as (nil, false) and never fails; backend errors and
// corrupt payloads are logged and treated as misses. Set is best-effort:
// a failed write is logged, never returned. Clear removes only entries in
// this cache's namespace.
type Strategy interface {
	Get(ctx context.Context, key string) ([]pii.EntityMatch, bool)
	Set(ctx context.Context, key string, matches []pii.EntityMatch)
	Clear(ctx context.Context) error
	Stats() Stats
	Close() error
}

// entry is the serialized form stored by the persistent strategies.
type entry struct {
	Matches  []pii.EntityMatch `json:"matches"`
	CachedAt time.Time         `json:"cached_at"`
}

// Stats tracks cache performance counters.
type Stats struct {
	Strategy  string  `json:"strategy"`
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	Evictions int64   `json:"evictions,omitempty"`
	Entries   int64   `json:"entries"`
	HitRate   float64 `json:"hit_rate"`
}

func hitRate(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

// Config contains cache configuration for all strategies.
type Config struct {
	Strategy       string        `yaml:"strategy" mapstructure:"strategy"`
	MaxEntries     int           `yaml:"max_entries" mapstructure:"max_entries"`
	TTL            time.Duration `yaml:"ttl" mapstructure:"ttl"`
	RedisURL       string        `yaml:"redis_url" mapstructure:"redis_url"`
	KeyPrefix      string        `yaml:"key_prefix" mapstructure:"key_prefix"`
	MaxConnections int           `yaml:"max_connections" mapstructure:"max_connections"`
	MinIdleConns   int           `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
	Path           string        `yaml:"path" mapstructure:"path"`
}

// DefaultConfig returns the in-memory strategy with standard limits.
func DefaultConfig() *Config {
	return &Config{
		Strategy:       StrategyMemory,
		MaxEntries:     1000,
		TTL:            time.Hour,
		RedisURL:       "redis://localhost:6379/0",
		KeyPrefix:      "veil:analysis:",
		MaxConnections: 10,
		MinIdleConns:   2,
		Path:           "./data/analysis-cache.db",
	}
}
