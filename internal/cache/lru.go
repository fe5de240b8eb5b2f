package cache

import (
	"container/list"
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/veilware/veil/internal/pii"
)

// LRU is the in-process strategy: a mutex-guarded map plus recency list.
// Get promotes the entry to most recently used; Set at capacity evicts the
// least recently used entry.
type LRU struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element
	logger   *zap.Logger

	hits      int64
	misses    int64
	evictions int64
}

type lruEntry struct {
	key     string
	matches []pii.EntityMatch
}

// NewLRU creates an in-memory cache holding at most capacity entries.
// Non-positive capacities fall back to the default of 1000.
func NewLRU(capacity int, logger *zap.Logger) *LRU {
	if capacity <= 0 {
		capacity = 1000
	}
	return &LRU{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element),
		logger:   logger,
	}
}

// Get returns the cached matches for key, promoting the entry on hit.
func (c *LRU) Get(_ context.Context, key string) ([]pii.EntityMatch, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.ll.MoveToFront(el)
	c.hits++
	return el.Value.(*lruEntry).matches, true
}

// Set stores a snapshot of matches under key, evicting the least recently
// used entry when the cache is full.
func (c *LRU) Set(_ context.Context, key string, matches []pii.EntityMatch) {
	snapshot := make([]pii.EntityMatch, len(matches))
	copy(snapshot, matches)

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*lruEntry).matches = snapshot
		c.ll.MoveToFront(el)
		return
	}

	c.items[key] = c.ll.PushFront(&lruEntry{key: key, matches: snapshot})

	if c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.items, oldest.Value.(*lruEntry).key)
			c.evictions++
		}
	}
}

// Clear drops all entries.
func (c *LRU) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ll.Init()
	c.items = make(map[string]*list.Element)
	return nil
}

// Stats returns hit/miss/eviction counters.
func (c *LRU) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Strategy:  StrategyMemory,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Entries:   int64(c.ll.Len()),
		HitRate:   hitRate(c.hits, c.misses),
	}
}

// Close is a no-op for the in-memory strategy.
func (c *LRU) Close() error { return nil }

// Len returns the current entry count.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
