package engine

import (
	"fmt"

	"github.com/veilware/veil/internal/faker"
	"github.com/veilware/veil/internal/pii"
)

// Config tunes one processing pipeline instance.
type Config struct {
	Language            pii.Language `yaml:"language" mapstructure:"language"`
	EntityTypes         []string     `yaml:"entity_types" mapstructure:"entity_types"`
	ConfidenceThreshold float64      `yaml:"confidence_threshold" mapstructure:"confidence_threshold"`
	DeterministicFakes  bool         `yaml:"deterministic_fakes" mapstructure:"deterministic_fakes"`
	MaxWorkers          int          `yaml:"max_workers" mapstructure:"max_workers"`
	ChunkSize           int          `yaml:"chunk_size" mapstructure:"chunk_size"`

	// CustomGenerators override fake-value generation per entity type. Set
	// programmatically, never from config files.
	CustomGenerators map[string]faker.GeneratorFunc `yaml:"-" mapstructure:"-"`
}

// DefaultConfig returns the standard pipeline settings.
func DefaultConfig() *Config {
	return &Config{
		Language:            pii.LanguageEnglish,
		ConfidenceThreshold: 0.5,
		MaxWorkers:          4,
		ChunkSize:           2000,
	}
}

// Validate rejects out-of-range settings before any processing starts.
func (c *Config) Validate() error {
	if !c.Language.Valid() {
		return pii.NewConfigurationError(fmt.Sprintf("unsupported language %q", c.Language), nil)
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return pii.NewConfigurationError(
			fmt.Sprintf("confidence threshold must be between 0 and 1, got %g", c.ConfidenceThreshold), nil)
	}
	if c.MaxWorkers < 1 {
		return pii.NewConfigurationError(
			fmt.Sprintf("max workers must be at least 1, got %d", c.MaxWorkers), nil)
	}
	if c.ChunkSize < 100 {
		return pii.NewConfigurationError(
			fmt.Sprintf("chunk size must be at least 100, got %d", c.ChunkSize), nil)
	}
	return nil
}
