package cache

import (
	"strings"
	"testing"

	"github.com/veilware/veil/internal/pii"
)

func TestKey(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		a := Key("Call me at 555-0100", pii.LanguageEnglish, []string{"PHONE_NUMBER", "PERSON"})
		b := Key("Call me at 555-0100", pii.LanguageEnglish, []string{"PHONE_NUMBER", "PERSON"})
		if a != b {
			t.Errorf("same input produced different keys: %q vs %q", a, b)
		}
	})

	t.Run("entity type order is irrelevant", func(t *testing.T) {
		a := Key("text", pii.LanguageEnglish, []string{"PERSON", "EMAIL_ADDRESS", "URL"})
		b := Key("text", pii.LanguageEnglish, []string{"URL", "PERSON", "EMAIL_ADDRESS"})
		if a != b {
			t.Errorf("entity order changed the key: %q vs %q", a, b)
		}
	})

	t.Run("discriminates inputs", func(t *testing.T) {
		base := Key("text", pii.LanguageEnglish, []string{"PERSON"})
		variants := []string{
			Key("other text", pii.LanguageEnglish, []string{"PERSON"}),
			Key("text", pii.LanguageGerman, []string{"PERSON"}),
			Key("text", pii.LanguageEnglish, []string{"PERSON", "URL"}),
		}
		for i, v := range variants {
			if v == base {
				t.Errorf("variant %d collided with base key", i)
			}
		}
	})

	t.Run("embeds language and types", func(t *testing.T) {
		key := Key("text", pii.LanguageGerman, []string{"URL", "PERSON"})
		if !strings.Contains(key, "_de_") {
			t.Errorf("key missing language segment: %q", key)
		}
		if !strings.HasSuffix(key, "PERSON,URL") {
			t.Errorf("key missing sorted type list: %q", key)
		}
	})

	t.Run("does not mutate the input slice", func(t *testing.T) {
		types := []string{"URL", "PERSON"}
		Key("text", pii.LanguageEnglish, types)
		if types[0] != "URL" || types[1] != "PERSON" {
			t.Errorf("input slice was reordered: %v", types)
		}
	})
}
