package engine

import (
	"fmt"
	"sort"

	"github.com/veilware/veil/internal/faker"
	"github.com/veilware/veil/internal/pii"
)

// Anonymizer splices synthetic values over resolved spans and builds the
// reversal map.
type Anonymizer struct {
	provider  *faker.Provider
	overrides map[string]faker.GeneratorFunc
}

// NewAnonymizer builds an anonymizer over a fake-value provider. Overrides
// take precedence over the provider's built-in generators, keyed by entity
// type.
func NewAnonymizer(provider *faker.Provider, overrides map[string]faker.GeneratorFunc) *Anonymizer {
	return &Anonymizer{provider: provider, overrides: overrides}
}

// Transform replaces every span in text with a synthetic value and returns
// the new text plus the entity map keyed by deterministic entity IDs.
//
// Fake values are resolved in reading order, so a caller-supplied generator
// observes occurrences the way a reader would. Splicing then runs back to
// front: because spans are non-overlapping and replacements may differ in
// length, descending-start order keeps every remaining span's offsets valid
// without recomputation. Repeated (type, value) pairs reuse the first fake
// value and bump the record's count. The input slice is not mutated.
func (a *Anonymizer) Transform(text string, matches []pii.EntityMatch) (string, pii.EntityMap, error) {
	entities := make(pii.EntityMap, len(matches))
	if len(matches) == 0 {
		return text, entities, nil
	}

	sorted := make([]pii.EntityMatch, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	for _, m := range sorted {
		if m.Start < 0 || m.End > len(text) {
			return "", nil, pii.NewProcessingError(
				fmt.Sprintf("span [%d, %d) is out of range for text of length %d", m.Start, m.End, len(text)), nil)
		}
	}

	ids := make([]string, len(sorted))
	for i, m := range sorted {
		id := faker.EntityID(m.Type, m.Text)
		ids[i] = id

		record, ok := entities[id]
		if !ok {
			record = pii.AnonymizedEntity{
				Type:      m.Type,
				Value:     m.Text,
				FakeValue: a.fakeFor(m.Type, m.Text),
				Score:     m.Score,
			}
		}
		record.Count++
		entities[id] = record
	}

	out := text
	for i := len(sorted) - 1; i >= 0; i-- {
		m := sorted[i]
		out = out[:m.Start] + entities[ids[i]].FakeValue + out[m.End:]
	}

	return out, entities, nil
}

func (a *Anonymizer) fakeFor(entityType, original string) string {
	var custom faker.GeneratorFunc
	if a.overrides != nil {
		custom = a.overrides[entityType]
	}
	return a.provider.FakeValue(entityType, original, custom)
}
