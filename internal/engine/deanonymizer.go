package engine

import (
	"sort"
	"strings"
	"time"

	"github.com/veilware/veil/internal/pii"
)

type restorePair struct {
	fake     string
	original string
}

// Deanonymize restores original values in anonymized text using its entity
// map. Pairs are applied longest fake value first so a short fake that is a
// substring of a longer one cannot clobber it. Replacement is value-based:
// a fake value occurring naturally in untouched text is replaced too.
//
// The result carries the restored text and an empty entity map; reversal
// consumes the map.
func Deanonymize(text string, entities pii.EntityMap) (*pii.ProcessingResult, error) {
	start := time.Now()

	pairs := make([]restorePair, 0, len(entities))
	for id, e := range entities {
		if e.FakeValue == "" {
			return nil, pii.NewProcessingError(
				"entity map record "+id+" is missing its fake value", nil)
		}
		pairs = append(pairs, restorePair{fake: e.FakeValue, original: e.Value})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if len(pairs[i].fake) != len(pairs[j].fake) {
			return len(pairs[i].fake) > len(pairs[j].fake)
		}
		return pairs[i].fake < pairs[j].fake
	})

	restored := text
	occurrences := 0
	applied := 0
	for _, p := range pairs {
		if n := strings.Count(restored, p.fake); n > 0 {
			restored = strings.ReplaceAll(restored, p.fake, p.original)
			occurrences += n
			applied++
		}
	}

	return &pii.ProcessingResult{
		AnonymizedText: restored,
		Entities:       pii.EntityMap{},
		Metadata: pii.ResultMetadata{
			EntitiesProcessed: applied,
			TextLength:        len(restored),
		},
		ProcessingTime: time.Since(start),
		TotalEntities:  occurrences,
	}, nil
}
