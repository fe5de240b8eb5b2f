package recognizer

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/veilware/veil/internal/pii"
)

// Registry hands out compiled recognizer sets per language. Sets are built
// lazily on first use and reused afterwards; building happens at most once
// per language even under concurrent access.
type Registry struct {
	mu     sync.RWMutex
	sets   map[pii.Language]*Set
	custom []Config
	logger *zap.Logger
}

// NewRegistry creates an empty registry over the built-in packs.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		sets:   make(map[pii.Language]*Set),
		logger: logger,
	}
}

// ForLanguage returns the compiled set for lang, building it on first use.
// The read lock covers the fast path; the build re-checks under the write
// lock in case another goroutine got there first.
func (r *Registry) ForLanguage(lang pii.Language) (*Set, error) {
	if !lang.Valid() {
		return nil, pii.NewConfigurationError(fmt.Sprintf("unsupported language %q", lang), nil)
	}

	r.mu.RLock()
	set, ok := r.sets[lang]
	r.mu.RUnlock()
	if ok {
		return set, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if set, ok := r.sets[lang]; ok {
		return set, nil
	}

	configs := builtinConfigs(lang)
	if len(r.custom) > 0 {
		configs = mergeConfigs(configs, r.custom)
	}

	set, err := Compile(lang, configs)
	if err != nil {
		return nil, pii.NewConfigurationError(fmt.Sprintf("failed to build recognizers for %q", lang), err)
	}
	r.sets[lang] = set

	r.logger.Info("Recognizer set compiled",
		zap.String("language", lang.String()),
		zap.Int("patterns", set.PatternCount()),
		zap.Int("entity_types", len(set.entities)))

	return set, nil
}

// SupportedEntities lists the entity types available for lang.
func (r *Registry) SupportedEntities(lang pii.Language) ([]string, error) {
	set, err := r.ForLanguage(lang)
	if err != nil {
		return nil, err
	}
	return set.Entities(), nil
}

// LoadFile merges custom recognizers from a YAML file over the built-ins.
// A missing file is a no-op so deployments without custom patterns need no
// configuration. Already-compiled sets are rebuilt on next use.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read recognizer file %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to parse recognizer file %s: %w", path, err)
	}

	r.mu.Lock()
	r.custom = append(r.custom, f.Recognizers...)
	r.sets = make(map[pii.Language]*Set)
	r.mu.Unlock()

	r.logger.Info("Custom recognizers loaded",
		zap.String("path", path),
		zap.Int("recognizers", len(f.Recognizers)))

	return nil
}

// builtinConfigs assembles the default recognizer list for a language.
func builtinConfigs(lang pii.Language) []Config {
	configs := universalRecognizers()
	switch lang {
	case pii.LanguageEnglish:
		configs = append(configs, englishRecognizers()...)
	case pii.LanguageGerman:
		configs = append(configs, germanRecognizers()...)
	}
	return configs
}

// mergeConfigs overlays custom recognizers onto the base list: a custom
// recognizer with a known name replaces the base one, new names append.
func mergeConfigs(base, custom []Config) []Config {
	index := make(map[string]int, len(base))
	merged := make([]Config, len(base))
	copy(merged, base)
	for i, c := range merged {
		index[c.Name] = i
	}

	for _, c := range custom {
		if i, ok := index[c.Name]; ok {
			merged[i] = c
		} else {
			index[c.Name] = len(merged)
			merged = append(merged, c)
		}
	}
	return merged
}
