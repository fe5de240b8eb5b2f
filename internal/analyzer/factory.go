package analyzer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/veilware/veil/internal/cache"
	"github.com/veilware/veil/internal/pii"
	"github.com/veilware/veil/internal/recognizer"
)

// New builds the analyzer named in config. An empty name selects the
// in-process pattern engine.
func New(cfg *Config, registry *recognizer.Registry, store cache.Strategy, logger *zap.Logger) (Analyzer, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	switch cfg.Type {
	case "", TypePattern:
		return NewEngine(cfg, registry, store, logger)
	case TypeRemote:
		return NewRemote(&cfg.Remote, logger)
	default:
		return nil, pii.NewConfigurationError(fmt.Sprintf("unknown analyzer type: %s", cfg.Type), nil)
	}
}
