package engine

import (
	"reflect"
	"testing"

	"github.com/veilware/veil/internal/pii"
)

func match(t string, start, end int, text string, score float64) pii.EntityMatch {
	return pii.EntityMatch{Type: t, Start: start, End: end, Text: text, Score: score}
}

func TestFilter(t *testing.T) {
	r := NewResolver(0.5)
	matches := []pii.EntityMatch{
		match("PERSON", 0, 5, "Alice", 0.9),
		match("PERSON", 10, 13, "Bob", 0.3),
		match("EMAIL_ADDRESS", 20, 35, "a@example.com", 0.5),
	}

	filtered := r.Filter(matches)
	if len(filtered) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(filtered))
	}
	if filtered[0].Text != "Alice" || filtered[1].Text != "a@example.com" {
		t.Errorf("order not preserved: %+v", filtered)
	}

	t.Run("idempotent", func(t *testing.T) {
		again := r.Filter(filtered)
		if !reflect.DeepEqual(again, filtered) {
			t.Errorf("second filter changed the sequence: %+v vs %+v", again, filtered)
		}
	})

	t.Run("empty result is valid", func(t *testing.T) {
		strict := NewResolver(1.0)
		if out := strict.Filter(matches[1:2]); len(out) != 0 {
			t.Errorf("expected empty result, got %+v", out)
		}
	})
}

func TestMergeOverlapping(t *testing.T) {
	r := NewResolver(0)

	t.Run("disjoint matches sort by start", func(t *testing.T) {
		in := []pii.EntityMatch{
			match("B", 20, 25, "bbbbb", 0.5),
			match("A", 0, 5, "aaaaa", 0.9),
			match("C", 40, 45, "ccccc", 0.7),
		}
		out := r.MergeOverlapping(in)
		if len(out) != 3 {
			t.Fatalf("expected all 3 matches, got %d", len(out))
		}
		for i := 1; i < len(out); i++ {
			if out[i].Start < out[i-1].Start {
				t.Errorf("output not sorted by start: %+v", out)
			}
		}
	})

	t.Run("overlap keeps higher confidence", func(t *testing.T) {
		in := []pii.EntityMatch{
			match("LOC", 0, 10, "New York C", 0.6),
			match("LOC", 0, 13, "New York City", 0.9),
		}
		out := r.MergeOverlapping(in)
		if len(out) != 1 {
			t.Fatalf("expected 1 match, got %d", len(out))
		}
		if out[0].Text != "New York City" || out[0].Start != 0 || out[0].End != 13 {
			t.Errorf("winner must keep its own span: %+v", out[0])
		}
	})

	t.Run("tie keeps first seen", func(t *testing.T) {
		first := match("A", 0, 5, "first", 0.8)
		second := match("B", 0, 7, "seven c", 0.8)
		out := r.MergeOverlapping([]pii.EntityMatch{first, second})
		if len(out) != 1 || out[0].Type != "A" {
			t.Errorf("tie should keep the first-seen match, got %+v", out)
		}
	})

	t.Run("contained span uses the same rule", func(t *testing.T) {
		container := match("LOC", 0, 13, "New York City", 0.9)
		inner := match("ORG", 2, 5, "w Y", 0.95)
		out := r.MergeOverlapping([]pii.EntityMatch{container, inner})
		if len(out) != 1 || out[0].Type != "ORG" {
			t.Errorf("higher-confidence contained span should win, got %+v", out)
		}
	})

	t.Run("greedy chain resolves pairwise", func(t *testing.T) {
		a := match("A", 0, 5, "aaaaa", 0.9)
		b := match("B", 4, 8, "bbbb", 0.95)
		c := match("C", 7, 10, "ccc", 0.8)
		out := r.MergeOverlapping([]pii.EntityMatch{a, b, c})
		if len(out) != 1 || out[0].Type != "B" {
			t.Errorf("chain should resolve to the middle winner, got %+v", out)
		}
	})

	t.Run("empty and single element", func(t *testing.T) {
		if out := r.MergeOverlapping(nil); len(out) != 0 {
			t.Errorf("expected empty output, got %+v", out)
		}
		single := []pii.EntityMatch{match("A", 3, 6, "abc", 0.5)}
		out := r.MergeOverlapping(single)
		if len(out) != 1 || out[0] != single[0] {
			t.Errorf("single element should pass through, got %+v", out)
		}
	})

	t.Run("input order does not change the outcome", func(t *testing.T) {
		a := match("LOC", 0, 10, "New York C", 0.6)
		b := match("LOC", 0, 13, "New York City", 0.9)
		forward := r.MergeOverlapping([]pii.EntityMatch{a, b})
		reversed := r.MergeOverlapping([]pii.EntityMatch{b, a})
		if !reflect.DeepEqual(forward, reversed) {
			t.Errorf("merge depends on input order: %+v vs %+v", forward, reversed)
		}
	})
}

func BenchmarkResolver(b *testing.B) {
	r := NewResolver(0.5)
	matches := make([]pii.EntityMatch, 0, 64)
	for i := 0; i < 64; i++ {
		start := i * 7
		matches = append(matches, match("EMAIL_ADDRESS", start, start+5, "abcde", 0.3+float64(i%7)*0.1))
	}
	overlapping := make([]pii.EntityMatch, 0, 64)
	for i := 0; i < 64; i++ {
		start := i * 3
		overlapping = append(overlapping, match("PERSON", start, start+5, "abcde", 0.3+float64(i%7)*0.1))
	}

	b.Run("filter", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			r.Filter(matches)
		}
	})

	b.Run("merge disjoint", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			r.MergeOverlapping(matches)
		}
	})

	b.Run("merge overlapping", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			r.MergeOverlapping(overlapping)
		}
	})
}
