package recognizer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/veilware/veil/internal/pii"
)

const (
	// contextBoost is added to a match's score when one of its recognizer's
	// context words appears near the match (Presidio's context enhancer
	// factor).
	contextBoost = 0.35

	// contextWindow is how many bytes before and after a match are searched
	// for context words.
	contextWindow = 100

	// checksumFailScore replaces the pattern score when a checksum gate
	// fails. It sits below any sensible threshold, so such matches are
	// dropped unless the caller opts into very low confidence.
	checksumFailScore = 0.2
)

type compiledPattern struct {
	name     string
	entity   string
	re       *regexp.Regexp
	score    float64
	context  []string
	checksum string
}

// Set is a compiled recognizer collection for one language.
type Set struct {
	language pii.Language
	patterns []compiledPattern
	entities []string
}

// Compile builds the Set for lang from configs, keeping only recognizers
// that apply to the language. Regex compilation failures name the offending
// pattern.
func Compile(lang pii.Language, configs []Config) (*Set, error) {
	var patterns []compiledPattern
	seen := make(map[string]bool)
	var entities []string

	for _, cfg := range configs {
		if !cfg.appliesTo(lang.String()) {
			continue
		}
		for _, p := range cfg.Patterns {
			re, err := regexp.Compile(p.Regex)
			if err != nil {
				return nil, fmt.Errorf("failed to compile pattern %q in recognizer %q: %w", p.Name, cfg.Name, err)
			}
			patterns = append(patterns, compiledPattern{
				name:     p.Name,
				entity:   cfg.Entity,
				re:       re,
				score:    p.Score,
				context:  cfg.Context,
				checksum: cfg.Checksum,
			})
		}
		if !seen[cfg.Entity] {
			seen[cfg.Entity] = true
			entities = append(entities, cfg.Entity)
		}
	}

	sort.Strings(entities)
	return &Set{language: lang, patterns: patterns, entities: entities}, nil
}

// Language returns the language this set was compiled for.
func (s *Set) Language() pii.Language { return s.language }

// Entities lists the entity types this set can emit, sorted.
func (s *Set) Entities() []string {
	out := make([]string, len(s.entities))
	copy(out, s.entities)
	return out
}

// PatternCount returns the number of compiled patterns.
func (s *Set) PatternCount() int { return len(s.patterns) }

// Recognize scans text and returns every validated match for the requested
// entity types. A nil request set means all types. Overlapping matches are
// returned as-is; resolution is the caller's concern.
func (s *Set) Recognize(text string, requested map[string]bool) []pii.EntityMatch {
	var matches []pii.EntityMatch

	for _, p := range s.patterns {
		if requested != nil && !requested[p.entity] {
			continue
		}
		for _, loc := range p.re.FindAllStringSubmatchIndex(text, -1) {
			start, end := loc[0], loc[1]
			// Patterns with a capture group anchor on surrounding context;
			// the group holds the actual value.
			if len(loc) >= 4 && loc[2] >= 0 {
				start, end = loc[2], loc[3]
			}
			if end <= start {
				continue
			}
			value := text[start:end]

			score := p.score
			switch p.checksum {
			case ChecksumLuhn:
				if !luhnValid(stripNonDigits(value)) {
					score = checksumFailScore
				}
			case ChecksumIBAN:
				if !ibanValid(normalizeIBAN(value)) {
					score = checksumFailScore
				}
			}

			score = boostWithContext(text, start, score, p.context)
			if score > 1 {
				score = 1
			}

			matches = append(matches, pii.EntityMatch{
				Type:  p.entity,
				Start: start,
				End:   end,
				Text:  value,
				Score: score,
			})
		}
	}

	return matches
}

// boostWithContext raises the score when a context word appears within the
// window around the match position.
func boostWithContext(text string, position int, score float64, contextWords []string) float64 {
	if len(contextWords) == 0 {
		return score
	}

	start := position - contextWindow
	if start < 0 {
		start = 0
	}
	end := position + contextWindow
	if end > len(text) {
		end = len(text)
	}
	window := strings.ToLower(text[start:end])

	for _, cw := range contextWords {
		if strings.Contains(window, strings.ToLower(cw)) {
			return score + contextBoost
		}
	}
	return score
}
