package pii

import "testing"

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		input   string
		want    Language
		wantErr bool
	}{
		{"", LanguageEnglish, false},
		{"en", LanguageEnglish, false},
		{"EN", LanguageEnglish, false},
		{"en-US", LanguageEnglish, false},
		{"de", LanguageGerman, false},
		{"de-AT", LanguageGerman, false},
		{"fr", "", true},
		{"zz-!!", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLanguage(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				if !IsKind(err, KindConfiguration) {
					t.Errorf("expected configuration error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseLanguage(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
