package cache

import (
	"context"

	"github.com/veilware/veil/internal/pii"
)

// Noop disables caching: every Get misses and writes are discarded.
type Noop struct{}

// NewNoop returns the disabled-cache strategy.
func NewNoop() *Noop { return &Noop{} }

func (Noop) Get(context.Context, string) ([]pii.EntityMatch, bool) { return nil, false }

func (Noop) Set(context.Context, string, []pii.EntityMatch) {}

func (Noop) Clear(context.Context) error { return nil }

func (Noop) Stats() Stats { return Stats{Strategy: StrategyNone} }

func (Noop) Close() error { return nil }
