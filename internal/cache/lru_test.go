package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/veilware/veil/internal/pii"
)

func sampleMatches(n int) []pii.EntityMatch {
	matches := make([]pii.EntityMatch, n)
	for i := range matches {
		matches[i] = pii.EntityMatch{
			Type:  pii.TypeEmailAddress,
			Start: i * 10,
			End:   i*10 + 5,
			Text:  fmt.Sprintf("a%d@example.com", i),
			Score: 0.9,
		}
	}
	return matches
}

func TestLRU(t *testing.T) {
	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		c := NewLRU(10, zap.NewNop())
		want := sampleMatches(2)

		c.Set(ctx, "k1", want)
		got, ok := c.Get(ctx, "k1")
		if !ok {
			t.Fatal("expected hit")
		}
		if len(got) != 2 || got[0].Text != want[0].Text {
			t.Errorf("unexpected matches: %+v", got)
		}
	})

	t.Run("miss", func(t *testing.T) {
		c := NewLRU(10, zap.NewNop())
		if _, ok := c.Get(ctx, "absent"); ok {
			t.Error("expected miss")
		}
	})

	t.Run("evicts least recently used", func(t *testing.T) {
		c := NewLRU(2, zap.NewNop())
		c.Set(ctx, "a", sampleMatches(1))
		c.Set(ctx, "b", sampleMatches(1))

		// Touch "a" so "b" becomes the eviction candidate.
		if _, ok := c.Get(ctx, "a"); !ok {
			t.Fatal("expected hit on a")
		}

		c.Set(ctx, "c", sampleMatches(1))

		if _, ok := c.Get(ctx, "b"); ok {
			t.Error("b should have been evicted")
		}
		if _, ok := c.Get(ctx, "a"); !ok {
			t.Error("a should have survived")
		}
		if _, ok := c.Get(ctx, "c"); !ok {
			t.Error("c should be present")
		}
	})

	t.Run("update does not grow the cache", func(t *testing.T) {
		c := NewLRU(2, zap.NewNop())
		c.Set(ctx, "a", sampleMatches(1))
		c.Set(ctx, "a", sampleMatches(3))

		if c.Len() != 1 {
			t.Errorf("expected 1 entry, got %d", c.Len())
		}
		got, _ := c.Get(ctx, "a")
		if len(got) != 3 {
			t.Errorf("expected updated value, got %d matches", len(got))
		}
	})

	t.Run("caller mutation does not leak in", func(t *testing.T) {
		c := NewLRU(10, zap.NewNop())
		matches := sampleMatches(1)
		c.Set(ctx, "k", matches)

		matches[0].Text = "mutated"

		got, _ := c.Get(ctx, "k")
		if got[0].Text == "mutated" {
			t.Error("cache should hold a snapshot, not the caller's slice")
		}
	})

	t.Run("clear", func(t *testing.T) {
		c := NewLRU(10, zap.NewNop())
		c.Set(ctx, "a", sampleMatches(1))
		c.Set(ctx, "b", sampleMatches(1))

		if err := c.Clear(ctx); err != nil {
			t.Fatalf("clear failed: %v", err)
		}
		if c.Len() != 0 {
			t.Errorf("expected empty cache, got %d entries", c.Len())
		}
	})

	t.Run("stats", func(t *testing.T) {
		c := NewLRU(1, zap.NewNop())
		c.Set(ctx, "a", sampleMatches(1))
		c.Get(ctx, "a")
		c.Get(ctx, "missing")
		c.Set(ctx, "b", sampleMatches(1))

		s := c.Stats()
		if s.Hits != 1 || s.Misses != 1 || s.Evictions != 1 {
			t.Errorf("unexpected stats: %+v", s)
		}
		if s.HitRate != 50 {
			t.Errorf("expected 50%% hit rate, got %g", s.HitRate)
		}
	})

	t.Run("concurrent access", func(t *testing.T) {
		c := NewLRU(100, zap.NewNop())
		var wg sync.WaitGroup

		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					key := fmt.Sprintf("k%d", j%20)
					c.Set(ctx, key, sampleMatches(1))
					c.Get(ctx, key)
				}
			}(i)
		}
		wg.Wait()

		if c.Len() > 100 {
			t.Errorf("cache exceeded capacity: %d", c.Len())
		}
	})
}

func TestNoop(t *testing.T) {
	ctx := context.Background()
	c := NewNoop()

	c.Set(ctx, "k", sampleMatches(1))
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("noop cache should never hit")
	}
	if err := c.Clear(ctx); err != nil {
		t.Errorf("clear failed: %v", err)
	}
}

func BenchmarkLRU(b *testing.B) {
	ctx := context.Background()
	matches := sampleMatches(5)

	b.Run("set", func(b *testing.B) {
		c := NewLRU(1000, zap.NewNop())
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			c.Set(ctx, fmt.Sprintf("k%d", i%2000), matches)
		}
	})

	b.Run("get hit", func(b *testing.B) {
		c := NewLRU(1000, zap.NewNop())
		c.Set(ctx, "k", matches)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			c.Get(ctx, "k")
		}
	})
}
