// Package engine orchestrates PII processing: detection through an
// analyzer, confidence filtering, overlap resolution, and reversible
// substitution.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/veilware/veil/internal/analyzer"
	"github.com/veilware/veil/internal/faker"
	"github.com/veilware/veil/internal/pii"
)

// Pipeline is the orchestration facade. Construction validates the config
// once; per-call options narrow a single request without rebuilding.
type Pipeline struct {
	cfg      *Config
	analyzer analyzer.Analyzer
	resolver *Resolver
	anon     *Anonymizer
	logger   *zap.Logger
}

// NewPipeline builds a pipeline from config and a detection implementation.
func NewPipeline(cfg *Config, a analyzer.Analyzer, logger *zap.Logger) (*Pipeline, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if a == nil {
		return nil, pii.NewConfigurationError("pipeline requires an analyzer", nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Pipeline{
		cfg:      cfg,
		analyzer: a,
		resolver: NewResolver(cfg.ConfidenceThreshold),
		anon:     NewAnonymizer(faker.New(cfg.Language, cfg.DeterministicFakes), cfg.CustomGenerators),
		logger:   logger,
	}, nil
}

// Option narrows one Process or Analyze call.
type Option func(*callOptions)

type callOptions struct {
	threshold   *float64
	entityTypes []string
}

// WithThreshold overrides the confidence threshold for one call.
func WithThreshold(t float64) Option {
	return func(o *callOptions) { o.threshold = &t }
}

// WithEntityTypes restricts detection to the given entity types for one call.
func WithEntityTypes(types ...string) Option {
	return func(o *callOptions) { o.entityTypes = types }
}

// Process anonymizes text: detect, filter, merge, substitute. Any stage
// failure surfaces as a single processing-kind error with the cause chained.
func (p *Pipeline) Process(ctx context.Context, text string, opts ...Option) (*pii.ProcessingResult, error) {
	start := time.Now()

	call, err := p.resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	threshold := p.cfg.ConfidenceThreshold
	if call.threshold != nil {
		threshold = *call.threshold
	}

	if text == "" {
		return &pii.ProcessingResult{
			Entities:       pii.EntityMap{},
			Metadata:       p.metadata(threshold, 0, 0),
			ProcessingTime: time.Since(start),
		}, nil
	}

	res, err := p.detect(ctx, text, call)
	if err != nil {
		return nil, wrapProcessing(err)
	}

	merged := p.resolve(threshold, res.Matches)

	anonymized, entities, err := p.anon.Transform(text, merged)
	if err != nil {
		return nil, wrapProcessing(err)
	}

	cacheHits := 0
	if res.CacheHit {
		cacheHits = 1
	}

	p.logger.Debug("Text processed",
		zap.String("language", p.cfg.Language.String()),
		zap.Int("entities", len(merged)),
		zap.Bool("cache_hit", res.CacheHit),
		zap.Duration("duration", time.Since(start)))

	return &pii.ProcessingResult{
		AnonymizedText: anonymized,
		Entities:       entities,
		Metadata:       p.metadata(threshold, len(merged), len(text)),
		ProcessingTime: time.Since(start),
		CacheHits:      cacheHits,
		TotalEntities:  len(merged),
	}, nil
}

// Analyze runs detection and resolution without substitution.
func (p *Pipeline) Analyze(ctx context.Context, text string, opts ...Option) ([]pii.EntityMatch, error) {
	call, err := p.resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	threshold := p.cfg.ConfidenceThreshold
	if call.threshold != nil {
		threshold = *call.threshold
	}

	if text == "" {
		return []pii.EntityMatch{}, nil
	}

	res, err := p.detect(ctx, text, call)
	if err != nil {
		return nil, wrapProcessing(err)
	}
	return p.resolve(threshold, res.Matches), nil
}

// Deanonymize restores original values using the entity map produced by
// Process.
func (p *Pipeline) Deanonymize(text string, entities pii.EntityMap) (*pii.ProcessingResult, error) {
	result, err := Deanonymize(text, entities)
	if err != nil {
		return nil, wrapProcessing(err)
	}

	p.logger.Debug("Text restored",
		zap.Int("entities", result.Metadata.EntitiesProcessed),
		zap.Int("occurrences", result.TotalEntities))
	return result, nil
}

// ProcessBatch anonymizes texts concurrently on up to MaxWorkers
// goroutines. Results keep input order. The first failure cancels the
// remaining work and is returned alone.
func (p *Pipeline) ProcessBatch(ctx context.Context, texts []string) ([]*pii.ProcessingResult, error) {
	if len(texts) == 0 {
		return []*pii.ProcessingResult{}, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]*pii.ProcessingResult, len(texts))
	sem := make(chan struct{}, p.cfg.MaxWorkers)
	var wg sync.WaitGroup
	var once sync.Once
	var firstErr error

	for i, text := range texts {
		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				return
			}
			res, err := p.Process(ctx, text)
			if err != nil {
				once.Do(func() {
					firstErr = err
					cancel()
				})
				return
			}
			results[i] = res
		}(i, text)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

// Config returns the pipeline's validated configuration.
func (p *Pipeline) Config() *Config { return p.cfg }

func (p *Pipeline) detect(ctx context.Context, text string, call *callOptions) (*analyzer.Result, error) {
	types := p.cfg.EntityTypes
	if call.entityTypes != nil {
		types = call.entityTypes
	}
	return p.analyzer.Detect(ctx, text, p.cfg.Language, types)
}

func (p *Pipeline) resolve(threshold float64, matches []pii.EntityMatch) []pii.EntityMatch {
	resolver := p.resolver
	if threshold != p.cfg.ConfidenceThreshold {
		resolver = NewResolver(threshold)
	}
	return resolver.MergeOverlapping(resolver.Filter(matches))
}

func (p *Pipeline) resolveOptions(opts []Option) (*callOptions, error) {
	call := &callOptions{}
	for _, opt := range opts {
		opt(call)
	}
	if call.threshold != nil && (*call.threshold < 0 || *call.threshold > 1) {
		return nil, pii.NewConfigurationError(
			fmt.Sprintf("confidence threshold must be between 0 and 1, got %g", *call.threshold), nil)
	}
	return call, nil
}

func (p *Pipeline) metadata(threshold float64, processed, textLen int) pii.ResultMetadata {
	return pii.ResultMetadata{
		Language:            p.cfg.Language,
		ConfidenceThreshold: threshold,
		EntitiesProcessed:   processed,
		TextLength:          textLen,
	}
}

// wrapProcessing folds a stage failure into the single processing-kind
// shape callers handle, keeping the cause chained. An error that is already
// processing-kind passes through untouched.
func wrapProcessing(err error) error {
	var pe *pii.Error
	if errors.As(err, &pe) && pe.Kind == pii.KindProcessing {
		return err
	}
	return pii.NewProcessingError("text processing failed", err)
}
