package cache

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestBolt(t *testing.T) {
	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		c := openBolt(t)
		want := sampleMatches(2)

		c.Set(ctx, "k1", want)
		got, ok := c.Get(ctx, "k1")
		if !ok {
			t.Fatal("expected hit")
		}
		if len(got) != 2 || got[1].Text != want[1].Text {
			t.Errorf("unexpected matches: %+v", got)
		}
	})

	t.Run("miss", func(t *testing.T) {
		c := openBolt(t)
		if _, ok := c.Get(ctx, "absent"); ok {
			t.Error("expected miss")
		}
	})

	t.Run("persists across reopen", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cache.db")

		c, err := NewBolt(path, zap.NewNop())
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		c.Set(ctx, "k", sampleMatches(1))
		if err := c.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}

		reopened, err := NewBolt(path, zap.NewNop())
		if err != nil {
			t.Fatalf("reopen: %v", err)
		}
		defer reopened.Close()

		if _, ok := reopened.Get(ctx, "k"); !ok {
			t.Error("entry should survive reopen")
		}
	})

	t.Run("clear empties the bucket", func(t *testing.T) {
		c := openBolt(t)
		c.Set(ctx, "a", sampleMatches(1))
		c.Set(ctx, "b", sampleMatches(1))

		if err := c.Clear(ctx); err != nil {
			t.Fatalf("clear failed: %v", err)
		}
		if _, ok := c.Get(ctx, "a"); ok {
			t.Error("expected empty cache after clear")
		}
		if s := c.Stats(); s.Entries != 0 {
			t.Errorf("expected 0 entries, got %d", s.Entries)
		}
	})
}

func openBolt(t *testing.T) *Bolt {
	t.Helper()
	c, err := NewBolt(filepath.Join(t.TempDir(), "cache.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("failed to open bolt cache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestFactory(t *testing.T) {
	logger := zap.NewNop()

	t.Run("defaults to memory", func(t *testing.T) {
		s, err := New(&Config{MaxEntries: 10}, logger)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := s.(*LRU); !ok {
			t.Errorf("expected LRU, got %T", s)
		}
	})

	t.Run("none", func(t *testing.T) {
		s, err := New(&Config{Strategy: StrategyNone}, logger)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := s.(*Noop); !ok {
			t.Errorf("expected Noop, got %T", s)
		}
	})

	t.Run("bolt", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Strategy = StrategyBolt
		cfg.Path = filepath.Join(t.TempDir(), "cache.db")

		s, err := New(cfg, logger)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer s.Close()
		if _, ok := s.(*Bolt); !ok {
			t.Errorf("expected Bolt, got %T", s)
		}
	})

	t.Run("unknown strategy", func(t *testing.T) {
		if _, err := New(&Config{Strategy: "memcached"}, logger); err == nil {
			t.Error("expected error for unknown strategy")
		}
	})
}
