// Package faker produces synthetic replacement values for detected PII
// spans and the deterministic entity IDs that key the reversal map.
package faker

import (
	crand "crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/big"
	"math/rand"

	"github.com/veilware/veil/internal/pii"
)

// GeneratorFunc produces a fake value for an original one. Custom generators
// registered per entity type take precedence over the built-in tables.
type GeneratorFunc func(original string) string

// generator is a built-in fake producer drawing randomness from a source.
type generator func(s *source) string

// Provider generates fake values for one language. In deterministic mode all
// randomness derives from the original value, so repeated runs produce
// identical fakes; otherwise values draw from crypto/rand. Providers hold no
// mutable state and are safe for concurrent use.
type Provider struct {
	language      pii.Language
	generators    map[string]generator
	deterministic bool
}

// New builds a Provider for lang. German layers its entity types over the
// universal table.
func New(lang pii.Language, deterministic bool) *Provider {
	gens := universalGenerators(lang)
	if lang == pii.LanguageGerman {
		for entityType, g := range germanGenerators() {
			gens[entityType] = g
		}
	}
	return &Provider{
		language:      lang,
		generators:    gens,
		deterministic: deterministic,
	}
}

// Language returns the provider's language.
func (p *Provider) Language() pii.Language { return p.language }

// FakeValue returns a synthetic value for an original of the given entity
// type. A non-nil custom generator wins; otherwise the built-in table
// applies, and unknown types get a bracketed placeholder that stays visibly
// synthetic.
func (p *Provider) FakeValue(entityType, original string, custom GeneratorFunc) string {
	if custom != nil {
		return custom(original)
	}

	s := p.newSource(entityType, original)
	if gen, ok := p.generators[entityType]; ok {
		return gen(s)
	}
	return fmt.Sprintf("[%s_%s]", entityType, s.hex(4))
}

// EntityID derives the stable map key for a (type, value) pair. The same
// pair always yields the same ID, across processes and runs.
func EntityID(entityType, value string) string {
	sum := sha256.Sum256([]byte(entityType + ":" + value))
	return fmt.Sprintf("%s_%s", entityType, hex.EncodeToString(sum[:])[:8])
}

// newSource picks the randomness source for one generation. Deterministic
// mode seeds a private PRNG from the (type, value) hash; each call gets its
// own instance, so nothing is shared between calls.
func (p *Provider) newSource(entityType, original string) *source {
	if !p.deterministic {
		return &source{}
	}
	sum := sha256.Sum256([]byte(entityType + ":" + original))
	seed := int64(binary.BigEndian.Uint64(sum[:8]))
	return &source{rng: rand.New(rand.NewSource(seed))}
}

// source yields random values either from a seeded PRNG (deterministic
// mode) or from crypto/rand.
type source struct {
	rng *rand.Rand
}

func (s *source) intn(n int) int {
	if s.rng != nil {
		return s.rng.Intn(n)
	}
	v, err := crand.Int(crand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

func (s *source) hex(nBytes int) string {
	buf := make([]byte, nBytes)
	if s.rng != nil {
		s.rng.Read(buf)
	} else {
		_, _ = crand.Read(buf)
	}
	return hex.EncodeToString(buf)
}

func (s *source) letter(alphabet string) byte {
	return alphabet[s.intn(len(alphabet))]
}
