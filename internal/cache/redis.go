package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/veilware/veil/internal/pii"
)

// Redis is the shared strategy: detection results live in a Redis keyspace
// under a common prefix with a TTL, so multiple instances reuse each other's
// analysis work.
type Redis struct {
	client *redis.Client
	config *Config
	logger *zap.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// NewRedis connects to the configured Redis instance and verifies it with a
// short ping before returning.
func NewRedis(config *Config, logger *zap.Logger) (*Redis, error) {
	opts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.PoolSize = config.MaxConnections
	opts.MinIdleConns = config.MinIdleConns

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Analysis cache connected",
		zap.String("redis_url", maskRedisURL(config.RedisURL)),
		zap.String("key_prefix", config.KeyPrefix),
		zap.Duration("ttl", config.TTL))

	return &Redis{
		client: client,
		config: config,
		logger: logger,
	}, nil
}

// Get fetches cached matches. Backend errors and corrupt payloads are
// treated as misses; corrupt entries are deleted.
func (r *Redis) Get(ctx context.Context, key string) ([]pii.EntityMatch, bool) {
	data, err := r.client.Get(ctx, r.key(key)).Result()
	if err == redis.Nil {
		r.misses.Add(1)
		return nil, false
	} else if err != nil {
		r.misses.Add(1)
		r.logger.Warn("Cache lookup failed", zap.Error(err))
		return nil, false
	}

	var e entry
	if err := json.Unmarshal([]byte(data), &e); err != nil {
		r.misses.Add(1)
		r.logger.Warn("Discarding corrupt cache entry", zap.String("key", key), zap.Error(err))
		r.client.Del(ctx, r.key(key))
		return nil, false
	}

	r.hits.Add(1)
	return e.Matches, true
}

// Set stores matches with the configured TTL. Failures are logged only.
func (r *Redis) Set(ctx context.Context, key string, matches []pii.EntityMatch) {
	data, err := json.Marshal(entry{Matches: matches, CachedAt: time.Now()})
	if err != nil {
		r.logger.Warn("Failed to marshal cache entry", zap.Error(err))
		return
	}

	if err := r.client.Set(ctx, r.key(key), data, r.config.TTL).Err(); err != nil {
		r.logger.Warn("Failed to store cache entry", zap.Error(err))
	}
}

// Clear scans and deletes every key under this cache's prefix, leaving the
// rest of the keyspace untouched.
func (r *Redis) Clear(ctx context.Context) error {
	pattern := r.config.KeyPrefix + "*"

	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}

	batchSize := 100
	for i := 0; i < len(keys); i += batchSize {
		end := i + batchSize
		if end > len(keys) {
			end = len(keys)
		}
		if err := r.client.Del(ctx, keys[i:end]...).Err(); err != nil {
			return fmt.Errorf("failed to delete cache keys: %w", err)
		}
	}

	r.logger.Info("Cache cleared", zap.Int("deleted_keys", len(keys)))
	return nil
}

// Stats returns hit/miss counters for this process.
func (r *Redis) Stats() Stats {
	hits, misses := r.hits.Load(), r.misses.Load()
	return Stats{
		Strategy: StrategyRedis,
		Hits:     hits,
		Misses:   misses,
		HitRate:  hitRate(hits, misses),
	}
}

// Close closes the Redis connection.
func (r *Redis) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

func (r *Redis) key(k string) string {
	return r.config.KeyPrefix + k
}

// maskRedisURL masks credentials in a Redis URL for logging.
func maskRedisURL(url string) string {
	if strings.Contains(url, "@") {
		parts := strings.Split(url, "@")
		if len(parts) >= 2 {
			userPart := parts[0]
			if strings.Contains(userPart, ":") {
				userParts := strings.Split(userPart, ":")
				if len(userParts) >= 3 {
					userParts[len(userParts)-1] = "***"
					parts[0] = strings.Join(userParts, ":")
				}
			}
			return strings.Join(parts, "@")
		}
	}
	return url
}
