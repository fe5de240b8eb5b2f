package faker

import (
	"fmt"

	"github.com/veilware/veil/internal/pii"
)

// universalGenerators is the base table shared by every language. Phone and
// IBAN shapes follow the provider's language.
func universalGenerators(lang pii.Language) map[string]generator {
	phone := func(s *source) string {
		if lang == pii.LanguageGerman {
			return fmt.Sprintf("+49%04d%08d", s.intn(9999), s.intn(99999999))
		}
		return fmt.Sprintf("+1-555-%03d-%04d", s.intn(900)+100, s.intn(9000)+1000)
	}
	iban := func(s *source) string {
		if lang == pii.LanguageGerman {
			return fmt.Sprintf("DE%02d%016d", s.intn(90)+10, s.intn(9999999999999999))
		}
		return fmt.Sprintf("GB%02dABCD%012d", s.intn(90)+10, s.intn(999999999999))
	}

	return map[string]generator{
		"PERSON": func(s *source) string {
			return "Person_" + s.hex(4)
		},
		"EMAIL_ADDRESS": func(s *source) string {
			return fmt.Sprintf("user%d@example.com", s.intn(9999))
		},
		"PHONE_NUMBER": phone,
		"CREDIT_CARD": func(s *source) string {
			return fmt.Sprintf("****-****-****-%04d", s.intn(9000)+1000)
		},
		"IP_ADDRESS": func(s *source) string {
			return fmt.Sprintf("192.168.%d.%d", s.intn(255), s.intn(255))
		},
		"LOCATION": func(s *source) string {
			return "City_" + s.hex(3)
		},
		"URL": func(s *source) string {
			return fmt.Sprintf("https://example-%s.com", s.hex(4))
		},
		"DATE_TIME": func(s *source) string {
			return "YYYY-MM-DD HH:MM:SS"
		},
		"IBAN_CODE": iban,
		"CRYPTO_WALLET": func(s *source) string {
			return "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa" + s.hex(4)
		},
		"MEDICAL_LICENSE": func(s *source) string {
			return fmt.Sprintf("MD%07d", s.intn(9999999))
		},
		"NRP": func(s *source) string {
			return "GROUP_" + s.hex(3)
		},
		"PROFESSIONAL_LICENSE": func(s *source) string {
			return fmt.Sprintf("LIC%06d", s.intn(999999))
		},
		"US_SSN": func(s *source) string {
			return fmt.Sprintf("%03d-%02d-%04d", s.intn(900)+100, s.intn(99), s.intn(9000)+1000)
		},
	}
}
