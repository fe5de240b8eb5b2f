package cache

import (
	"fmt"

	"go.uber.org/zap"
)

// New builds the strategy named in config. An empty name selects the
// in-memory strategy.
func New(config *Config, logger *zap.Logger) (Strategy, error) {
	switch config.Strategy {
	case "", StrategyMemory:
		return NewLRU(config.MaxEntries, logger), nil
	case StrategyRedis:
		return NewRedis(config, logger)
	case StrategyBolt:
		return NewBolt(config.Path, logger)
	case StrategyNone:
		return NewNoop(), nil
	default:
		return nil, fmt.Errorf("unknown cache strategy: %s", config.Strategy)
	}
}
