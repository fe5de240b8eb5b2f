package pii

import (
	"fmt"

	"golang.org/x/text/language"
)

// Language is an ISO 639-1 code the engine has recognizer and generator
// coverage for.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageGerman  Language = "de"
)

// DefaultLanguage applies when a request does not name one.
const DefaultLanguage = LanguageEnglish

var supportedLanguages = map[Language]bool{
	LanguageEnglish: true,
	LanguageGerman:  true,
}

// SupportedLanguages lists the covered language codes.
func SupportedLanguages() []Language {
	return []Language{LanguageEnglish, LanguageGerman}
}

// ParseLanguage canonicalizes inputs like "EN", "en-US" or "de-AT" to their
// supported base code. Empty input yields DefaultLanguage; anything outside
// coverage is a configuration error.
func ParseLanguage(s string) (Language, error) {
	if s == "" {
		return DefaultLanguage, nil
	}
	tag, err := language.Parse(s)
	if err != nil {
		return "", NewConfigurationError(fmt.Sprintf("invalid language %q", s), err)
	}
	base, _ := tag.Base()
	lang := Language(base.String())
	if !supportedLanguages[lang] {
		return "", NewConfigurationError(fmt.Sprintf("unsupported language %q", s), nil)
	}
	return lang, nil
}

// Valid reports whether l is a covered language code.
func (l Language) Valid() bool { return supportedLanguages[l] }

func (l Language) String() string { return string(l) }
