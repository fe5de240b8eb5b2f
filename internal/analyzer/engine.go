package analyzer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/veilware/veil/internal/cache"
	"github.com/veilware/veil/internal/pii"
	"github.com/veilware/veil/internal/recognizer"
)

// Engine is the in-process analyzer: compiled pattern recognizers per
// language with a cache in front and an optional NER pass behind the onnx
// build tag. Scans run on a bounded number of goroutines so one caller
// flooding Detect cannot starve the process.
type Engine struct {
	registry *recognizer.Registry
	store    cache.Strategy
	ner      NERBackend
	logger   *zap.Logger
	sem      chan struct{}
}

// NewEngine builds the pattern engine. A nil store disables caching and a
// nil registry starts from the built-in recognizer packs.
func NewEngine(cfg *Config, registry *recognizer.Registry, store cache.Strategy, logger *zap.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if registry == nil {
		registry = recognizer.NewRegistry(logger)
	}
	if store == nil {
		store = cache.NewNoop()
	}

	if cfg.PatternsFile != "" {
		if err := registry.LoadFile(cfg.PatternsFile); err != nil {
			return nil, pii.NewConfigurationError("failed to load custom recognizers", err)
		}
	}

	workers := cfg.MaxConcurrentScans
	if workers < 1 {
		workers = 1
	}

	e := &Engine{
		registry: registry,
		store:    store,
		logger:   logger,
		sem:      make(chan struct{}, workers),
	}

	if cfg.NER.Enabled {
		e.ner = NewNERBackend(logger, &cfg.NER)
	}

	return e, nil
}

// Detect scans text for PII. Cached results are returned without scanning;
// fresh results are cached only when the scan ran to completion, so a
// cancelled detection never populates the cache.
func (e *Engine) Detect(ctx context.Context, text string, lang pii.Language, entityTypes []string) (*Result, error) {
	set, err := e.registry.ForLanguage(lang)
	if err != nil {
		return nil, err
	}

	if text == "" {
		return &Result{Matches: []pii.EntityMatch{}}, nil
	}

	key := cache.Key(text, lang, entityTypes)
	if matches, ok := e.store.Get(ctx, key); ok {
		return &Result{Matches: matches, CacheHit: true}, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, pii.NewAnalysisError("detection cancelled", err)
	}
	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, pii.NewAnalysisError("detection cancelled", ctx.Err())
	}

	requested := typeSet(entityTypes)
	results := make(chan []pii.EntityMatch, 1)
	start := time.Now()

	go func() {
		defer func() { <-e.sem }()
		matches := set.Recognize(text, requested)
		if e.ner != nil && e.ner.IsReady() {
			extra, nerErr := e.ner.Recognize(ctx, text, lang)
			if nerErr != nil {
				e.logger.Warn("NER pass failed, keeping pattern matches",
					zap.String("language", lang.String()),
					zap.Error(nerErr))
			} else {
				matches = append(matches, filterTypes(extra, requested)...)
			}
		}
		results <- matches
	}()

	select {
	case matches := <-results:
		if err := ctx.Err(); err != nil {
			return nil, pii.NewAnalysisError("detection cancelled", err)
		}
		if matches == nil {
			matches = []pii.EntityMatch{}
		}
		e.store.Set(ctx, key, matches)
		e.logger.Debug("Analysis complete",
			zap.String("language", lang.String()),
			zap.Int("matches", len(matches)),
			zap.Duration("duration", time.Since(start)))
		return &Result{Matches: matches}, nil
	case <-ctx.Done():
		return nil, pii.NewAnalysisError("detection cancelled", ctx.Err())
	}
}

// SupportedEntities lists the entity types the engine can detect for lang.
func (e *Engine) SupportedEntities(lang pii.Language) ([]string, error) {
	return e.registry.SupportedEntities(lang)
}

// Close releases the NER backend if one was loaded.
func (e *Engine) Close() error {
	if e.ner != nil {
		return e.ner.Close()
	}
	return nil
}

// typeSet converts the request slice into the lookup form recognizer sets
// use. An empty request means every type.
func typeSet(entityTypes []string) map[string]bool {
	if len(entityTypes) == 0 {
		return nil
	}
	requested := make(map[string]bool, len(entityTypes))
	for _, t := range entityTypes {
		requested[t] = true
	}
	return requested
}

// filterTypes drops matches whose type was not requested.
func filterTypes(matches []pii.EntityMatch, requested map[string]bool) []pii.EntityMatch {
	if requested == nil {
		return matches
	}
	filtered := matches[:0]
	for _, m := range matches {
		if requested[m.Type] {
			filtered = append(filtered, m)
		}
	}
	return filtered
}
