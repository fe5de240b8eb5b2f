// Package analyzer is the detection boundary: implementations find PII
// spans in text, the rest of the pipeline never cares how.
package analyzer

import (
	"context"
	"time"

	"github.com/veilware/veil/internal/pii"
)

// Analyzer detects PII spans. A nil entityTypes slice requests every type
// the implementation supports for the language.
type Analyzer interface {
	Detect(ctx context.Context, text string, lang pii.Language, entityTypes []string) (*Result, error)
}

// Result carries one detection pass plus where it came from.
type Result struct {
	Matches  []pii.EntityMatch `json:"matches"`
	CacheHit bool              `json:"cache_hit"`
}

// Analyzer implementation names accepted in configuration.
const (
	TypePattern = "pattern"
	TypeRemote  = "remote"
)

// Config selects and tunes the detection implementation.
type Config struct {
	Type               string       `yaml:"type" mapstructure:"type"`
	MaxConcurrentScans int          `yaml:"max_concurrent_scans" mapstructure:"max_concurrent_scans"`
	PatternsFile       string       `yaml:"patterns_file" mapstructure:"patterns_file"`
	Remote             RemoteConfig `yaml:"remote" mapstructure:"remote"`
	NER                NERConfig    `yaml:"ner" mapstructure:"ner"`
}

// RemoteConfig points at an external NLP analysis service.
type RemoteConfig struct {
	URL     string        `yaml:"url" mapstructure:"url"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// NERConfig tunes the optional token-classification model. The model only
// loads in builds with the onnx tag; elsewhere the settings are inert.
type NERConfig struct {
	Enabled   bool     `yaml:"enabled" mapstructure:"enabled"`
	ModelPath string   `yaml:"model_path" mapstructure:"model_path"`
	VocabPath string   `yaml:"vocab_path" mapstructure:"vocab_path"`
	Labels    []string `yaml:"labels" mapstructure:"labels"`
}

// DefaultConfig returns the in-process pattern engine with standard limits.
func DefaultConfig() *Config {
	return &Config{
		Type:               TypePattern,
		MaxConcurrentScans: 4,
		Remote: RemoteConfig{
			Timeout: 10 * time.Second,
		},
		NER: NERConfig{
			Labels: []string{"O", "B-PER", "I-PER", "B-LOC", "I-LOC"},
		},
	}
}
