package engine

import (
	"testing"

	"github.com/veilware/veil/internal/faker"
	"github.com/veilware/veil/internal/pii"
)

func TestDeanonymize(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		a := NewAnonymizer(faker.New(pii.LanguageEnglish, true), nil)
		text := "Alice emailed Bob about 192.168.1.10 yesterday."
		matches := []pii.EntityMatch{
			match("PERSON", 0, 5, "Alice", 0.9),
			match("PERSON", 14, 17, "Bob", 0.8),
			match("IP_ADDRESS", 24, 36, "192.168.1.10", 0.95),
		}

		anonymized, entities, err := a.Transform(text, matches)
		if err != nil {
			t.Fatalf("transform failed: %v", err)
		}
		if anonymized == text {
			t.Fatal("anonymization changed nothing")
		}

		result, err := Deanonymize(anonymized, entities)
		if err != nil {
			t.Fatalf("deanonymize failed: %v", err)
		}
		if result.AnonymizedText != text {
			t.Errorf("round trip mismatch:\n got %q\nwant %q", result.AnonymizedText, text)
		}
		if result.TotalEntities != 3 {
			t.Errorf("expected 3 restored occurrences, got %d", result.TotalEntities)
		}
		if len(result.Entities) != 0 {
			t.Error("reversal should return an empty entity map")
		}
	})

	t.Run("longest fake value first", func(t *testing.T) {
		entities := pii.EntityMap{
			"A_1": {Type: "A", Value: "aaa", FakeValue: "XYZ12"},
			"B_1": {Type: "B", Value: "bb", FakeValue: "XY"},
		}
		result, err := Deanonymize("XYZ12 and XY", entities)
		if err != nil {
			t.Fatal(err)
		}
		if result.AnonymizedText != "aaa and bb" {
			t.Errorf("short fake clobbered the longer one: %q", result.AnonymizedText)
		}
	})

	t.Run("every occurrence is replaced", func(t *testing.T) {
		entities := pii.EntityMap{
			"PERSON_1": {Type: "PERSON", Value: "Alice", FakeValue: "Person_1"},
		}
		result, err := Deanonymize("Person_1 met Person_1", entities)
		if err != nil {
			t.Fatal(err)
		}
		if result.AnonymizedText != "Alice met Alice" {
			t.Errorf("unexpected restoration: %q", result.AnonymizedText)
		}
		if result.TotalEntities != 2 {
			t.Errorf("expected 2 occurrences, got %d", result.TotalEntities)
		}
	})

	t.Run("empty map leaves text unchanged", func(t *testing.T) {
		result, err := Deanonymize("nothing to restore", pii.EntityMap{})
		if err != nil {
			t.Fatal(err)
		}
		if result.AnonymizedText != "nothing to restore" || result.TotalEntities != 0 {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("missing fake value fails", func(t *testing.T) {
		entities := pii.EntityMap{
			"PERSON_1": {Type: "PERSON", Value: "Alice"},
		}
		_, err := Deanonymize("text", entities)
		if err == nil {
			t.Fatal("expected an error for a record without a fake value")
		}
		if !pii.IsKind(err, pii.KindProcessing) {
			t.Errorf("expected processing error, got %v", err)
		}
	})

	t.Run("idempotent once fakes are gone", func(t *testing.T) {
		entities := pii.EntityMap{
			"PERSON_1": {Type: "PERSON", Value: "Alice", FakeValue: "Person_1"},
		}
		first, err := Deanonymize("Person_1 waved", entities)
		if err != nil {
			t.Fatal(err)
		}
		second, err := Deanonymize(first.AnonymizedText, entities)
		if err != nil {
			t.Fatal(err)
		}
		if second.AnonymizedText != first.AnonymizedText {
			t.Errorf("second pass changed the text: %q", second.AnonymizedText)
		}
		if second.TotalEntities != 0 {
			t.Errorf("second pass should restore nothing, got %d", second.TotalEntities)
		}
	})
}
