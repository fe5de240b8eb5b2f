package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/veilware/veil/internal/pii"
)

const boltBucket = "analysis_cache"

// Bolt is the file-backed strategy: an embedded bbolt database whose single
// bucket acts as the cache namespace. Entries survive restarts, which suits
// air-gapped deployments without Redis.
type Bolt struct {
	db     *bolt.DB
	logger *zap.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// NewBolt opens (or creates) the database at path and ensures the cache
// bucket exists.
func NewBolt(path string, logger *zap.Logger) (*Bolt, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database %q: %w", path, err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache bucket: %w", err)
	}

	logger.Info("Analysis cache opened", zap.String("path", path))

	return &Bolt{db: db, logger: logger}, nil
}

// Get fetches cached matches; read errors and corrupt payloads are misses.
func (c *Bolt) Get(_ context.Context, key string) ([]pii.EntityMatch, bool) {
	var matches []pii.EntityMatch
	found := false

	err := c.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(boltBucket)).Get([]byte(key))
		if data == nil {
			return nil
		}
		var e entry
		if err := json.Unmarshal(data, &e); err != nil {
			c.logger.Warn("Discarding corrupt cache entry", zap.String("key", key), zap.Error(err))
			return nil
		}
		matches = e.Matches
		found = true
		return nil
	})
	if err != nil {
		c.logger.Warn("Cache lookup failed", zap.Error(err))
		c.misses.Add(1)
		return nil, false
	}

	if !found {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return matches, true
}

// Set stores matches under key. Failures are logged only.
func (c *Bolt) Set(_ context.Context, key string, matches []pii.EntityMatch) {
	data, err := json.Marshal(entry{Matches: matches, CachedAt: time.Now()})
	if err != nil {
		c.logger.Warn("Failed to marshal cache entry", zap.Error(err))
		return
	}

	if err := c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).Put([]byte(key), data)
	}); err != nil {
		c.logger.Warn("Failed to store cache entry", zap.Error(err))
	}
}

// Clear drops and recreates the cache bucket.
func (c *Bolt) Clear(_ context.Context) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(boltBucket)); err != nil {
			return fmt.Errorf("failed to drop cache bucket: %w", err)
		}
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		return err
	})
}

// Stats returns hit/miss counters plus the stored entry count.
func (c *Bolt) Stats() Stats {
	hits, misses := c.hits.Load(), c.misses.Load()
	s := Stats{
		Strategy: StrategyBolt,
		Hits:     hits,
		Misses:   misses,
		HitRate:  hitRate(hits, misses),
	}
	c.db.View(func(tx *bolt.Tx) error {
		s.Entries = int64(tx.Bucket([]byte(boltBucket)).Stats().KeyN)
		return nil
	})
	return s
}

// Close closes the underlying database file.
func (c *Bolt) Close() error { return c.db.Close() }
