package analyzer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/veilware/veil/internal/cache"
	"github.com/veilware/veil/internal/pii"
)

func newTestEngine(t *testing.T, store cache.Strategy) *Engine {
	t.Helper()
	e, err := NewEngine(nil, nil, store, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to build engine: %v", err)
	}
	return e
}

func TestEngineDetect(t *testing.T) {
	e := newTestEngine(t, nil)

	t.Run("finds email with aligned span", func(t *testing.T) {
		text := "Please contact jane@example.com about the invoice."
		res, err := e.Detect(context.Background(), text, pii.LanguageEnglish, nil)
		if err != nil {
			t.Fatalf("detect failed: %v", err)
		}
		if res.CacheHit {
			t.Error("fresh detection reported a cache hit")
		}

		var found bool
		for _, m := range res.Matches {
			if m.Type == pii.TypeEmailAddress {
				found = true
				if text[m.Start:m.End] != m.Text {
					t.Errorf("span [%d, %d) does not cover %q", m.Start, m.End, m.Text)
				}
			}
		}
		if !found {
			t.Error("email address not detected")
		}
	})

	t.Run("empty text returns empty result", func(t *testing.T) {
		res, err := e.Detect(context.Background(), "", pii.LanguageEnglish, nil)
		if err != nil {
			t.Fatalf("detect failed: %v", err)
		}
		if len(res.Matches) != 0 {
			t.Errorf("expected no matches, got %d", len(res.Matches))
		}
	})

	t.Run("entity type filter", func(t *testing.T) {
		text := "Mail jane@example.com or call +1 (555) 123-4567."
		res, err := e.Detect(context.Background(), text, pii.LanguageEnglish, []string{pii.TypeEmailAddress})
		if err != nil {
			t.Fatalf("detect failed: %v", err)
		}
		if len(res.Matches) == 0 {
			t.Fatal("requested email match missing")
		}
		for _, m := range res.Matches {
			if m.Type != pii.TypeEmailAddress {
				t.Errorf("unrequested type leaked through: %s", m.Type)
			}
		}
	})

	t.Run("unsupported language", func(t *testing.T) {
		_, err := e.Detect(context.Background(), "text", pii.Language("tlh"), nil)
		if err == nil {
			t.Fatal("expected an error for unsupported language")
		}
		if !pii.IsKind(err, pii.KindConfiguration) {
			t.Errorf("expected configuration error, got %v", err)
		}
	})
}

func TestEngineCache(t *testing.T) {
	store := cache.NewLRU(16, zap.NewNop())
	e := newTestEngine(t, store)
	text := "Reach me at jane@example.com today."

	first, err := e.Detect(context.Background(), text, pii.LanguageEnglish, nil)
	if err != nil {
		t.Fatalf("first detect failed: %v", err)
	}
	if first.CacheHit {
		t.Error("first detection must not be a cache hit")
	}

	second, err := e.Detect(context.Background(), text, pii.LanguageEnglish, nil)
	if err != nil {
		t.Fatalf("second detect failed: %v", err)
	}
	if !second.CacheHit {
		t.Error("second identical detection should hit the cache")
	}
	if len(second.Matches) != len(first.Matches) {
		t.Errorf("cached result differs: %d vs %d matches", len(second.Matches), len(first.Matches))
	}

	t.Run("different entity types miss", func(t *testing.T) {
		res, err := e.Detect(context.Background(), text, pii.LanguageEnglish, []string{pii.TypeEmailAddress})
		if err != nil {
			t.Fatalf("detect failed: %v", err)
		}
		if res.CacheHit {
			t.Error("a narrower request must not reuse the full-scan entry")
		}
	})
}

func TestEngineDetectCancelled(t *testing.T) {
	store := cache.NewLRU(16, zap.NewNop())
	e := newTestEngine(t, store)
	text := "Reach me at jane@example.com today."

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Detect(ctx, text, pii.LanguageEnglish, nil)
	if err == nil {
		t.Fatal("expected an error from a cancelled context")
	}
	if !pii.IsKind(err, pii.KindAnalysis) {
		t.Errorf("expected analysis error, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("cause chain should reach context.Canceled, got %v", err)
	}

	key := cache.Key(text, pii.LanguageEnglish, nil)
	if _, ok := store.Get(context.Background(), key); ok {
		t.Error("cancelled detection must not populate the cache")
	}
}

func TestEngineCustomPatterns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "recognizers.yaml")
	custom := `recognizers:
  - name: employee_id
    supported_entity: EMPLOYEE_ID
    patterns:
      - name: employee_id
        regex: 'EMP-\d{6}'
        score: 0.9
`
	if err := os.WriteFile(path, []byte(custom), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.PatternsFile = path
	e, err := NewEngine(cfg, nil, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to build engine: %v", err)
	}

	res, err := e.Detect(context.Background(), "Badge EMP-123456 checked in.", pii.LanguageEnglish, nil)
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	var found bool
	for _, m := range res.Matches {
		if m.Type == "EMPLOYEE_ID" && m.Text == "EMP-123456" {
			found = true
		}
	}
	if !found {
		t.Error("custom recognizer did not fire")
	}
}
